package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/logging"
	"gitlab.com/dirk.krummacker/contact-book/internal/service"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
)

// shutdownTimeout bounds how long in-flight requests may take after a stop signal.
const shutdownTimeout = 10 * time.Second

// CLI is the command line of the REST API server.
type CLI struct {
	Config string `help:"Config file applied after the user and project config." type:"path"`
	Addr   string `help:"Listen address to use instead of the configured one."`
}

// Usage example on the command line:
// > CONTACTBOOK_DB_PATH=/tmp/contacts.db CONTACTBOOK_LOG_OUTPUT=stderr GIN_MODE=release go run main.go --addr=:8080
func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("service"),
		kong.Description("Serve the contact book as a JSON REST API."),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// Run opens the store and serves HTTP requests until SIGINT or SIGTERM.
func (c *CLI) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.HTTP.Addr = c.Addr
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := store.Open(ctx, cfg.Database.Driver, cfg.DatabaseSource())
	if err != nil {
		return err
	}
	defer s.Close()

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           service.New(s, logger).SetupHttpRouter(cfg.HTTP.RequestLog),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("driver", cfg.Database.Driver))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}
