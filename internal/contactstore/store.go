package contactstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"lidscan/internal/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DeviceTable  = "whatsmeow_device"
	ContactTable = "whatsmeow_contacts"
)

var (
	// ErrNoSource reports that neither a connection URL nor a local database is available.
	ErrNoSource = errors.New("no contact store configured")
	// ErrUnavailable wraps connection and query failures.
	ErrUnavailable = errors.New("contact store unavailable")
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Device is one linked device row.
type Device struct {
	JID string `db:"jid"`
}

// Contact is one contact row. PushName is nil when the column is NULL.
type Contact struct {
	JID      string  `db:"their_jid"`
	PushName *string `db:"push_name"`
}

// Name returns the push name as stored, or "" when absent.
func (c Contact) Name() string {
	if c.PushName == nil {
		return ""
	}
	return *c.PushName
}

// HasName reports whether the push name holds anything besides whitespace.
func (c Contact) HasName() bool {
	return strings.TrimSpace(c.Name()) != ""
}

// Store provides read access to device and contact rows.
type Store struct {
	db           *sqlx.DB
	driver       string
	source       string
	queryTimeout time.Duration
}

// Open connects to the configured store. A Postgres URL (store.url or
// DATABASE_URL) takes precedence over the local SQLite file.
func Open(ctx context.Context, cfg config.Store) (*Store, error) {
	if cfg.Disabled {
		return nil, ErrNoSource
	}
	if dsn := strings.TrimSpace(cfg.URL); dsn != "" {
		return openDB(ctx, DriverPostgres, withSSLMode(dsn, cfg.SSLMode), cfg.ConnectTimeout(), cfg.QueryTimeout())
	}
	if path := strings.TrimSpace(cfg.LocalDB); path != "" {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return openDB(ctx, DriverSQLite, path, cfg.ConnectTimeout(), cfg.QueryTimeout())
		}
	}
	return nil, ErrNoSource
}

func openDB(ctx context.Context, driver, dsn string, connectTimeout, queryTimeout time.Duration) (*Store, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, driver, err)
	}
	if driver == DriverSQLite {
		// Pragmas are per connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := withTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrUnavailable, driver, err)
	}

	if driver == DriverSQLite {
		pragmas := []string{
			"PRAGMA query_only = ON",
			"PRAGMA busy_timeout = 5000",
		}
		for _, pragma := range pragmas {
			if _, err := db.ExecContext(pingCtx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("%w: apply pragma %q: %v", ErrUnavailable, pragma, err)
			}
		}
	}

	return &Store{
		db:           db,
		driver:       driver,
		source:       redact(driver, dsn),
		queryTimeout: queryTimeout,
	}, nil
}

// Driver returns the active driver name.
func (s *Store) Driver() string {
	return s.driver
}

// Source describes the connected store with credentials removed.
func (s *Store) Source() string {
	return s.source
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Devices returns every linked device ordered by JID.
func (s *Store) Devices(ctx context.Context) ([]Device, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := s.db.Rebind("SELECT jid FROM " + DeviceTable + " ORDER BY jid")
	var devices []Device
	if err := s.db.SelectContext(ctx, &devices, query); err != nil {
		return nil, fmt.Errorf("%w: list devices: %v", ErrUnavailable, err)
	}
	return devices, nil
}

// ContactByJID returns the contact whose JID equals jid exactly. Rows carrying
// a push name are preferred when several match.
func (s *Store) ContactByJID(ctx context.Context, jid string) (Contact, bool, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := s.db.Rebind(`SELECT their_jid, push_name FROM ` + ContactTable + `
WHERE their_jid = ?
ORDER BY CASE WHEN push_name IS NULL OR push_name = '' THEN 1 ELSE 0 END
LIMIT 1`)
	var contact Contact
	if err := s.db.GetContext(ctx, &contact, query, jid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contact{}, false, nil
		}
		return Contact{}, false, fmt.Errorf("%w: contact by jid: %v", ErrUnavailable, err)
	}
	return contact, true, nil
}

// ContactsByPushName returns every contact with the given push name ordered
// by JID.
func (s *Store) ContactsByPushName(ctx context.Context, name string) ([]Contact, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := s.db.Rebind(`SELECT their_jid, push_name FROM ` + ContactTable + `
WHERE push_name = ?
ORDER BY their_jid`)
	var contacts []Contact
	if err := s.db.SelectContext(ctx, &contacts, query, name); err != nil {
		return nil, fmt.Errorf("%w: contacts by push name: %v", ErrUnavailable, err)
	}
	return contacts, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// withSSLMode adds sslmode to URL-form DSNs that do not already set it.
func withSSLMode(dsn, mode string) string {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return dsn
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	q := u.Query()
	if q.Get("sslmode") != "" {
		return dsn
	}
	q.Set("sslmode", mode)
	u.RawQuery = q.Encode()
	return u.String()
}

func redact(driver, dsn string) string {
	if driver != DriverPostgres {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return driver
	}
	return u.Redacted()
}
