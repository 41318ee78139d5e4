package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

// DefaultBusyTimeout is how long SQLite waits on a locked database.
const DefaultBusyTimeout = 5 * time.Second

// OpenOption configures Open.
type OpenOption func(*openConfig)

type openConfig struct {
	pool        []PoolOption
	logLevel    logger.LogLevel
	busyTimeout time.Duration
}

// WithPool overrides connection pool settings.
func WithPool(opts ...PoolOption) OpenOption {
	return func(c *openConfig) {
		c.pool = append(c.pool, opts...)
	}
}

// WithGormLogLevel sets GORM's own SQL logger level. The default is silent.
func WithGormLogLevel(level logger.LogLevel) OpenOption {
	return func(c *openConfig) {
		c.logLevel = level
	}
}

// WithBusyTimeout sets the SQLite busy timeout. Ignored for PostgreSQL.
func WithBusyTimeout(d time.Duration) OpenOption {
	return func(c *openConfig) {
		c.busyTimeout = d
	}
}

// IsPostgresDSN reports whether dsn addresses a PostgreSQL server.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to the database named by dsn and returns a storage for it.
// PostgreSQL URLs use the postgres driver; anything else is an SQLite path
// whose parent directory is created if needed.
// The caller runs Migrate (the registry does this on Open).
func Open(dsn string, opts ...OpenOption) (*GormStorage, error) {
	cfg := openConfig{logLevel: logger.Silent, busyTimeout: DefaultBusyTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		dialector gorm.Dialector
		pool      PoolConfig
	)
	if IsPostgresDSN(dsn) {
		dialector = postgres.Open(dsn)
		pool = DefaultPoolConfig()
	} else {
		path, err := sqliteDSN(dsn, cfg.busyTimeout)
		if err != nil {
			return nil, core.Persist("open", "", err)
		}
		dialector = sqlite.Open(path)
		pool = SQLitePoolConfig()
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(cfg.logLevel),
	})
	if err != nil {
		return nil, core.Persist("open", "", err)
	}
	if err := configurePool(db, pool, cfg.pool...); err != nil {
		return nil, core.Persist("open", "", err)
	}
	return NewGormStorage(db), nil
}

func sqliteDSN(dsn string, busyTimeout time.Duration) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", errors.New("sqlite path is required")
	}
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return dsn, nil
	}

	path := dsn
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create database directory: %w", err)
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d&_journal_mode=WAL", dsn, sep, busyTimeout.Milliseconds()), nil
}
