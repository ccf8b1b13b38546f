package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"gitlab.com/dirk.krummacker/contact-book/internal/presenter"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
	pkgmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// errExitCalled is a sentinel used to catch kong's os.Exit calls in tests.
var errExitCalled = errors.New("exit called")

// isolate points HOME and the working directory at empty temp dirs so that
// no real config file is read.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestCLI_VersionFlag(t *testing.T) {
	var cli CLI
	var buf bytes.Buffer
	k, err := kong.New(&cli,
		kong.Vars{"version": "v1.0.0 abc1234 2026-01-01T00:00:00Z"},
		kong.Writers(&buf, &buf),
		kong.Exit(func(int) { panic(errExitCalled) }),
	)
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic from --version flag")
		}
		if err, ok := r.(error); !ok || !errors.Is(err, errExitCalled) {
			panic(r)
		}
		if !strings.Contains(buf.String(), "v1.0.0 abc1234") {
			t.Errorf("version output = %q, want version and commit", buf.String())
		}
	}()
	_, _ = k.Parse([]string{"--version"})
}

func TestCLI_ParseFlags(t *testing.T) {
	var cli CLI
	k, err := kong.New(&cli, kong.Vars{"version": "test"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.Parse([]string{"--db", "book.db", "--theme", "light", "--no-tui", "-f", "smith"}); err != nil {
		t.Fatal(err)
	}
	if filepath.Base(cli.DB) != "book.db" {
		t.Errorf("DB = %q, want a book.db path", cli.DB)
	}
	if cli.Theme != "light" || !cli.NoTUI || cli.Filter != "smith" {
		t.Errorf("unexpected flags: %+v", cli)
	}
}

func TestCLI_LoadConfigAppliesFlags(t *testing.T) {
	isolate(t)
	t.Setenv("CONTACTBOOK_DB_DRIVER", "mysql")
	t.Setenv("CONTACTBOOK_DB_DSN", "user:pwd@tcp(localhost)/test")

	cli := CLI{DB: "/tmp/flag.db", Theme: "light"}
	cfg, err := cli.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.Driver != store.DriverSQLite || cfg.Database.Path != "/tmp/flag.db" {
		t.Errorf("database = %+v, want the --db file on sqlite", cfg.Database)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q, want %q", cfg.UI.Theme, "light")
	}
}

func TestCLI_LoadConfigRejectsInvalidTheme(t *testing.T) {
	isolate(t)

	cli := CLI{Theme: "solarized"}
	if _, err := cli.loadConfig(); err == nil || !strings.Contains(err.Error(), "ui.theme") {
		t.Errorf("loadConfig() = %v, want theme error", err)
	}
}

func TestPrintContacts(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, store.DriverSQLite, filepath.Join(t.TempDir(), "contacts.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	for _, c := range []pkgmodel.Contact{
		{Name: "Bob", Phone: "98765432100", Email: "bob@example.com"},
		{Name: "Alice Smith", Phone: "12345678901", Email: "alice@example.com"},
	} {
		if _, err := s.Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := printContacts(ctx, s, "", &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || !strings.Contains(lines[1], "Alice Smith") || !strings.Contains(lines[2], "Bob") {
		t.Errorf("unexpected listing:\n%s", buf.String())
	}

	buf.Reset()
	if err := printContacts(ctx, s, "nobody", &buf); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != presenter.NoResults {
		t.Errorf("filtered listing = %q, want placeholder", buf.String())
	}
}
