// Package store persists contacts in a single relational table. The default
// backend is an embedded SQLite file; MySQL is supported for setups that
// already run a database server.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contact-book/pkg/model"
	"modernc.org/sqlite"
)

// Supported values for the driver argument of Open.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// ErrNotFound is returned by Get when no contact has the requested id.
var ErrNotFound = errors.New("store: contact not found")

//go:embed schema/*.sql
var schemaFS embed.FS

// sqliteFold is the case folding function registered with the sqlite driver.
// The built-in LOWER of SQLite only folds ASCII letters.
const sqliteFold = "unicode_lower"

func init() {
	// sqlx only knows the cgo driver name "sqlite3".
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
	sqlite.MustRegisterDeterministicScalarFunction(sqliteFold, 1, unicodeLower)
}

// unicodeLower lowers text values with strings.ToLower and passes everything
// else through.
func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// Store is a handle to the contacts table. It is not safe for concurrent use
// from more than one process, but a single Store may be shared between
// goroutines of one process.
type Store struct {
	db *sqlx.DB

	// fold is the SQL function that lowers a column like strings.ToLower.
	fold string

	// insert is a prepared statement for creating a contact on the database.
	insert *sqlx.NamedStmt

	// selectWhereId is a prepared statement for selecting the contact with a given id.
	selectWhereId *sqlx.Stmt

	// updateWhereId is a prepared statement for overwriting the contact with a given id.
	updateWhereId *sqlx.NamedStmt

	// deleteWhereId is a prepared statement for deleting the contact with a given id.
	deleteWhereId *sqlx.Stmt
}

// Open connects to the database, creates the contacts table if it does not
// exist yet, and prepares all statements. For the sqlite driver, source is
// the path of the database file; for mysql it is a DSN.
func Open(ctx context.Context, driver, source string) (*Store, error) {
	sqlDB, err := OpenDatabase(driver, source)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}
	if err := EnsureSchema(ctx, sqlDB, driver); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	s, err := New(sqlDB, driver)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// OpenDatabase returns a database handle for the given driver without
// touching the schema.
func OpenDatabase(driver, source string) (*sql.DB, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("store: %s source is required", driver)
	}
	switch driver {
	case DriverSQLite:
		path := filepath.Clean(source)
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		sqlDB, err := sql.Open(DriverSQLite, "file:"+path+"?_pragma=busy_timeout(5000)")
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		// One connection keeps every statement on the same file handle and,
		// for ":memory:", on the same database.
		sqlDB.SetMaxOpenConns(1)
		return sqlDB, nil
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(source)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		// Report matched rows on UPDATE, so that saving unchanged values
		// is not mistaken for a missing contact.
		cfg.ClientFoundRows = true
		sqlDB, err := sql.Open(DriverMySQL, cfg.FormatDSN())
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return sqlDB, nil
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
}

// EnsureSchema creates the contacts table if it is absent.
func EnsureSchema(ctx context.Context, sqlDB *sql.DB, driver string) error {
	ddl, err := schemaFS.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return fmt.Errorf("store: no schema for driver %q: %w", driver, err)
	}
	if _, err := sqlDB.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("create contacts table: %w", err)
	}
	return nil
}

// New wraps the specified sql database and prepares all statements. The
// database argument can be a real database for production use or a mock
// database within unit tests.
func New(sqlDB *sql.DB, driver string) (*Store, error) {
	s := &Store{db: sqlx.NewDb(sqlDB, driver), fold: sqliteFold}
	if driver == DriverMySQL {
		// LOWER folds all of Unicode for utf8mb4 columns.
		s.fold = "LOWER"
	}
	if err := s.prepare(); err != nil {
		s.closeStatements()
		return nil, err
	}
	return s, nil
}

// prepare prepares all statements. Prepared statements offer a significant
// speed increase if executed many times.
func (s *Store) prepare() error {
	var err error
	s.insert, err = s.db.PrepareNamed(`
		INSERT INTO contacts (name, phone, email)
		VALUES (:name, :phone, :email)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	s.selectWhereId, err = s.db.Preparex(`
		SELECT id, name, phone, email FROM contacts WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("prepare select: %w", err)
	}
	s.updateWhereId, err = s.db.PrepareNamed(`
		UPDATE contacts SET name = :name, phone = :phone, email = :email WHERE id = :id
	`)
	if err != nil {
		return fmt.Errorf("prepare update: %w", err)
	}
	s.deleteWhereId, err = s.db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	return nil
}

// Close releases the prepared statements and the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.closeStatements()
	return s.db.Close()
}

// closeStatements closes every statement prepared so far.
func (s *Store) closeStatements() {
	if s.insert != nil {
		_ = s.insert.Close()
	}
	if s.selectWhereId != nil {
		_ = s.selectWhereId.Close()
	}
	if s.updateWhereId != nil {
		_ = s.updateWhereId.Close()
	}
	if s.deleteWhereId != nil {
		_ = s.deleteWhereId.Close()
	}
}

// Create inserts a new contact and returns the id assigned by the database.
// The contact's Id field is ignored.
func (s *Store) Create(ctx context.Context, c model.Contact) (int64, error) {
	result, err := s.insert.ExecContext(ctx, &c)
	if err != nil {
		return 0, fmt.Errorf("insert contact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert contact: %w", err)
	}
	return id, nil
}

// Get returns the contact with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (model.Contact, error) {
	var c model.Contact
	err := s.selectWhereId.GetContext(ctx, &c, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("select contact %d: %w", id, err)
	}
	return c, nil
}

// List returns the contacts sorted by name. A non-blank filter restricts the
// result to contacts whose name, phone, or email contains the filter,
// ignoring case.
func (s *Store) List(ctx context.Context, filter string) ([]model.Contact, error) {
	query, args, err := listQuery(s.fold, filter)
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	contacts := []model.Contact{}
	if err := s.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// Update overwrites name, phone and email of the contact with c.Id. It
// reports false if no such contact exists.
func (s *Store) Update(ctx context.Context, c model.Contact) (bool, error) {
	result, err := s.updateWhereId.ExecContext(ctx, &c)
	if err != nil {
		return false, fmt.Errorf("update contact %d: %w", c.Id, err)
	}
	return affectedOne(result)
}

// Delete removes the contact with the given id. It reports false if no such
// contact exists.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.deleteWhereId.ExecContext(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete contact %d: %w", id, err)
	}
	return affectedOne(result)
}

func affectedOne(result sql.Result) (bool, error) {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}
