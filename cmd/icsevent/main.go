package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"icsevent/internal/config"
	"icsevent/internal/event"
	"icsevent/internal/ics"
	appLog "icsevent/internal/log"
	"icsevent/internal/natural"
)

const version = "0.1.0"

// flagConfig holds CLI flag values. Flags left at their zero value defer to
// the config file.
type flagConfig struct {
	configPath string
	in         string
	out        string
	sort       bool
	strict     bool
	list       bool
	logLevel   string

	create      bool
	name        string
	begin       string
	end         string
	duration    string
	allDay      bool
	description string
	location    string
	url         string
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		appLog.Warn("failed to load .env", "err", err)
	}

	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags, os.Stdin, os.Stdout); err != nil {
		appLog.Error("icsevent failed", err)
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string) (flagConfig, error) {
	var cfg flagConfig
	fsFlags := flag.NewFlagSet("icsevent", flag.ContinueOnError)

	fsFlags.StringVar(&cfg.configPath, "config", defaultConfigPath(), "Path to config file (created with defaults if missing)")
	fsFlags.StringVar(&cfg.in, "in", "-", "Input calendar: a file, an http(s) URL, or - for stdin")
	fsFlags.StringVar(&cfg.out, "out", "-", "Output file, or - for stdout")
	fsFlags.BoolVar(&cfg.sort, "sort", false, "Sort events by begin, end and name")
	fsFlags.BoolVar(&cfg.strict, "strict", false, "Fail if any VEVENT cannot be decoded")
	fsFlags.BoolVar(&cfg.list, "list", false, "Print one summary line per event instead of a calendar")
	fsFlags.StringVar(&cfg.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	fsFlags.BoolVar(&cfg.create, "new", false, "Create a single event from the flags below instead of reading input")
	fsFlags.StringVar(&cfg.name, "name", "", "Event summary")
	fsFlags.StringVar(&cfg.begin, "begin", "", `Begin, e.g. "2024-03-05 10:00", "1999/10/10" or "tomorrow 9am"`)
	fsFlags.StringVar(&cfg.end, "end", "", "End, in the same forms as -begin")
	fsFlags.StringVar(&cfg.duration, "duration", "", `Duration, e.g. "1h30m" or "P1DT2H"`)
	fsFlags.BoolVar(&cfg.allDay, "all-day", false, "Collapse the event to the date of its begin")
	fsFlags.StringVar(&cfg.description, "description", "", "Event description")
	fsFlags.StringVar(&cfg.location, "location", "", "Event location")
	fsFlags.StringVar(&cfg.url, "url", "", "Event URL")

	if err := fsFlags.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "icsevent.yaml"
	}
	return filepath.Join(dir, "icsevent", "config.yaml")
}

// loadConfig resolves file, environment and flags, in increasing precedence.
func loadConfig(flags flagConfig) (*config.Config, error) {
	conf, err := config.Load(flags.configPath)
	if err != nil {
		if conf == nil {
			return nil, err
		}
		// The defaults are usable even if they could not be written.
		appLog.Warn("config not saved, using defaults", "config_path", flags.configPath, "err", err)
	}
	if err := conf.ApplyEnv(); err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		conf.LogLevel = flags.logLevel
	}
	conf.Sort = conf.Sort || flags.sort
	conf.Strict = conf.Strict || flags.strict
	conf.Normalize()
	return conf, nil
}

func run(ctx context.Context, flags flagConfig, stdin io.Reader, stdout io.Writer) error {
	conf, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level, err := appLog.ParseLevel(conf.LogLevel)
	if err != nil {
		return err
	}
	appLog.SetLevel(level)

	appLog.Info("icsevent starting", "version", version)
	appLog.Debug("effective config",
		"config_path", flags.configPath,
		"product_id", conf.ProductID,
		"uid_domain", conf.UIDDomain,
		"nominal_duration", conf.NominalDuration,
		"sort", conf.Sort,
		"strict", conf.Strict,
		"cache_dir", conf.CacheDir,
	)

	opts := eventOptions(conf)

	var cal *ics.Calendar
	if flags.create {
		cal, err = createCalendar(flags, conf, opts)
	} else {
		cal, err = readCalendar(ctx, flags.in, conf, stdin, opts)
	}
	if err != nil {
		return err
	}
	if conf.Sort {
		cal.Sort()
	}

	return writeOutput(flags, cal, stdout)
}

func eventOptions(conf *config.Config) []event.Option {
	opts := []event.Option{event.WithNominalDuration(conf.Nominal())}
	if domain := conf.UIDDomain; domain != "" {
		opts = append(opts, event.WithUIDGenerator(func() string {
			return uuid.NewString() + "@" + domain
		}))
	}
	return opts
}

func createCalendar(flags flagConfig, conf *config.Config, opts []event.Option) (*ics.Calendar, error) {
	p := event.Params{
		Name:        flags.name,
		Description: flags.description,
		Location:    flags.location,
		URL:         flags.url,
	}

	parser := natural.New(time.Now)
	var err error
	if flags.begin != "" {
		if p.Begin, err = parser.Instant(flags.begin); err != nil {
			return nil, fmt.Errorf("-begin: %w", err)
		}
	}
	if flags.end != "" {
		if p.End, err = parser.Instant(flags.end); err != nil {
			return nil, fmt.Errorf("-end: %w", err)
		}
	}
	if flags.duration != "" {
		if p.Duration, err = natural.Length(flags.duration); err != nil {
			return nil, fmt.Errorf("-duration: %w", err)
		}
	}

	ev, err := event.New(p, opts...)
	if err != nil {
		return nil, err
	}
	if flags.allDay {
		ev.MakeAllDay()
	}
	appLog.Info("event created", "event", ev.String(), "uid", ev.UID())

	cal := ics.NewCalendar(conf.ProductID)
	cal.Add(ev)
	return cal, nil
}

func readCalendar(ctx context.Context, in string, conf *config.Config, stdin io.Reader, opts []event.Option) (*ics.Calendar, error) {
	src := ics.Source{ID: in}
	var body []byte
	var err error

	switch {
	case ics.IsRemote(in):
		src = ics.Source{ID: "remote", URL: in}
		res, ferr := ics.NewFetcher(conf.CacheDir, conf.Timeout()).Fetch(ctx, src)
		if ferr != nil {
			return nil, ferr
		}
		body = res.Body
	case in == "" || in == "-":
		src.ID = "stdin"
		body, err = io.ReadAll(stdin)
	default:
		body, err = os.ReadFile(in)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.ID, err)
	}

	cal, err := ics.ParseICS(src, body, opts...)
	if cal == nil {
		return nil, err
	}
	if err != nil {
		if conf.Strict {
			return nil, err
		}
		appLog.Warn("some events were skipped", "id", src.ID, "err", err)
	}
	if cal.ProductID == "" {
		cal.ProductID = conf.ProductID
	}
	return cal, nil
}

func writeOutput(flags flagConfig, cal *ics.Calendar, stdout io.Writer) (err error) {
	w := stdout
	if flags.out != "" && flags.out != "-" {
		f, cerr := os.Create(flags.out)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if flags.list {
		for _, ev := range cal.Events {
			if _, err := fmt.Fprintln(w, ev.String()); err != nil {
				return err
			}
		}
		return nil
	}
	_, err = cal.WriteTo(w)
	return err
}
