package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/logging"
	"gitlab.com/dirk.krummacker/contact-book/internal/presenter"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
	"gitlab.com/dirk.krummacker/contact-book/internal/tui"
	pkgmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the command line of the contact book.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Config  string           `help:"Config file applied after the user and project config." type:"path"`
	DB      string           `help:"SQLite database file to use instead of the configured one." name:"db" type:"path"`
	Theme   string           `help:"Color theme: light or dark."`
	NoTUI   bool             `help:"Print the contact list as plain text even if stdout is a TTY." name:"no-tui"`
	Filter  string           `help:"Search text for the plain text listing." short:"f"`
}

// Usage examples on the command line:
// > go run . --db=/tmp/contacts.db
// > go run . --no-tui --filter=smith
func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contactbook"),
		kong.Description("Keep names, phone numbers and email addresses in a local database."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// Run opens the store and starts the terminal interface, or prints the
// contact list when stdout is not a terminal.
func (c *CLI) Run() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := store.Open(ctx, cfg.Database.Driver, cfg.DatabaseSource())
	if err != nil {
		logger.Error("open store failed", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		return err
	}
	defer s.Close()
	logger.Info("store opened", zap.String("driver", cfg.Database.Driver), zap.String("path", cfg.Database.Path))

	if c.NoTUI || !isTerminal(os.Stdout) {
		return printContacts(ctx, s, c.Filter, os.Stdout)
	}

	p := presenter.New(s, presenter.WithLogger(logger))
	if err := p.Load(ctx); err != nil {
		// The error notice is shown in the interface, which stays usable.
		logger.Warn("initial load failed", zap.Error(err))
	}
	m := tui.NewModel(ctx, p,
		tui.WithTheme(tui.Theme(cfg.UI.Theme)),
		tui.WithNoticeDelay(cfg.UI.NoticeDelay),
	)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run terminal interface: %w", err)
	}
	return nil
}

// loadConfig loads layered config with env overrides and applies the CLI
// flag overrides on top.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.DB != "" {
		cfg.Database.Driver = store.DriverSQLite
		cfg.Database.Path = c.DB
	}
	if c.Theme != "" {
		cfg.UI.Theme = c.Theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// contactLister is the part of the store needed for the plain text listing.
type contactLister interface {
	List(ctx context.Context, filter string) ([]pkgmodel.Contact, error)
}

// printContacts writes the contacts matching filter as a plain text table.
func printContacts(ctx context.Context, s contactLister, filter string, w io.Writer) error {
	contacts, err := s.List(ctx, filter)
	if err != nil {
		return err
	}
	return tui.PrintList(w, contacts)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
