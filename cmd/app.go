// Package cmd implements the CLI application to manage portfolios.
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/eodhd"
	"github.com/etnz/folio/metrics"
	"github.com/etnz/folio/pricecache"
	"github.com/google/subcommands"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// immutableFile lists, one per line, the portfolios of the data dir that are immutable.
const immutableFile = ".immutable"

// App holds what every command needs.
//
// As a CLI application, it has a very short lived lifecycle: each command
// loads the data dir, works on the ledger and saves it back if needed.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Source folio.PriceSource
	Today  func() date.Date // nil means date.Today
	Out    io.Writer
	Err    io.Writer
	Raw    bool // print markdown without terminal rendering

	search func(term string) ([]eodhd.SearchResult, error)
}

// NewApp wires the price source described by cfg:
// EODHD, instrumented, behind the Redis cache when configured.
func NewApp(cfg *config.Config, logger *zap.Logger) *App {
	client := eodhd.New(cfg.EODHD.APIKey,
		eodhd.WithBaseURL(cfg.EODHD.BaseURL),
		eodhd.WithExchange(cfg.EODHD.Exchange),
		eodhd.WithCacheDir(cfg.HTTP.CacheDir),
		eodhd.WithLogger(logger.Named("eodhd")),
	)
	var source folio.PriceSource = metrics.Instrument(client)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		source = pricecache.New(source, rdb, cfg.CacheTTL, logger.Named("pricecache"))
	}
	return &App{
		Config: cfg,
		Logger: logger,
		Source: source,
		Out:    os.Stdout,
		Err:    os.Stderr,
		search: client.Search,
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, app *App) {
	for _, cmd := range Commands(app) {
		c.Register(cmd, group(cmd.Name()))
	}
}

// Commands returns all the commands of the application.
func Commands(app *App) []subcommands.Command {
	return []subcommands.Command{
		&listCmd{app: app},
		&createCmd{app: app},
		&addCmd{app: app},
		&flipCmd{app: app},
		&valueCmd{app: app},
		&basisCmd{app: app},
		&compositionCmd{app: app},
		&pricesCmd{app: app},
		&valuesCmd{app: app},
		&dcaCmd{app: app},
		&ipoCmd{app: app},
		&unitCmd{app: app},
		&searchCmd{app: app},
		&topicCmd{app: app},
	}
}

func group(name string) string {
	switch name {
	case "list", "create", "add", "flip":
		return "portfolios"
	case "value", "basis", "composition", "values", "dca":
		return "reports"
	case "topic":
		return "help"
	}
	return "market"
}

func (a *App) historian() *folio.Historian {
	return folio.NewHistorian(a.Source, a.Today)
}

// today returns the current date of the app.
func (a *App) today() date.Date {
	if a.Today != nil {
		return a.Today()
	}
	return date.Today()
}

// open loads every portfolio of the data dir into a new ledger.
func (a *App) open() (*folio.Ledger, error) {
	l := folio.NewLedger(a.historian(), a.Logger)
	if _, err := folio.LoadDir(a.Config.DataDir, l); err != nil {
		return nil, err
	}
	immutable, err := a.readImmutable()
	if err != nil {
		return nil, err
	}
	for _, name := range immutable {
		if err := l.FlipMutability(name); err != nil {
			a.Logger.Warn("ignoring unknown immutable portfolio", zap.String("portfolio", name))
		}
	}
	return l, nil
}

// save writes every portfolio of the ledger back into the data dir.
func (a *App) save(l *folio.Ledger) error {
	if err := os.MkdirAll(a.Config.DataDir, 0o755); err != nil {
		return err
	}
	if err := folio.SaveDir(a.Config.DataDir, l); err != nil {
		return err
	}
	var immutable []string
	for _, name := range l.Names() {
		if p, err := l.Portfolio(name); err == nil && !p.Mutable() {
			immutable = append(immutable, name)
		}
	}
	path := filepath.Join(a.Config.DataDir, immutableFile)
	if len(immutable) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	return os.WriteFile(path, []byte(strings.Join(immutable, "\n")+"\n"), 0o644)
}

func (a *App) readImmutable() ([]string, error) {
	f, err := os.Open(filepath.Join(a.Config.DataDir, immutableFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names, scanner.Err()
}

// printMarkdown renders markdown for the terminal, or as is in raw mode.
func (a *App) printMarkdown(md string) {
	if a.Raw {
		fmt.Fprintln(a.Out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(a.Out, out)
			return
		}
	}
	a.Logger.Debug("cannot render markdown", zap.Error(err))
	fmt.Fprintln(a.Out, md)
}

// fail prints err and returns the exit status of a failed command.
func (a *App) fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

// usage prints err and returns the exit status of a misused command.
func (a *App) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// parseDate parses a date flag, empty means today.
func (a *App) parseDate(s string) (date.Date, error) {
	if s == "" {
		return a.today(), nil
	}
	return date.Parse(s)
}
