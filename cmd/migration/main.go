package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/logging"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
)

// CLI is the command line of the database setup tool.
type CLI struct {
	Config string `help:"Config file applied after the user and project config." type:"path"`
	DB     string `help:"SQLite database file to use instead of the configured one." name:"db" type:"path"`
	File   string `help:"SQL file to execute after the contacts table exists." type:"existingfile"`
}

// Usage example on the command line:
// > go run main.go --db=/tmp/contacts.db --file=seed.sql
func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("migration"),
		kong.Description("Create the contacts table and optionally run an SQL file against the database."),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// Run creates the schema and executes the SQL file, if one was given.
func (c *CLI) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.DB != "" {
		cfg.Database.Driver = store.DriverSQLite
		cfg.Database.Path = c.DB
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	defer logger.Sync()

	ctx := context.Background()
	s, err := store.Open(ctx, cfg.Database.Driver, cfg.DatabaseSource())
	if err != nil {
		return err
	}
	defer s.Close()
	logger.Info("schema ready", zap.String("driver", cfg.Database.Driver))

	if c.File == "" {
		return nil
	}
	f, err := os.Open(c.File) // nosemgrep
	if err != nil {
		return err
	}
	defer f.Close()
	executed, err := s.ExecScript(ctx, f)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}
	logger.Info("script executed", zap.String("file", c.File), zap.Int("statements", executed))
	fmt.Printf("%d statements executed\n", executed)
	return nil
}
