package store

import (
	"context"
	"fmt"

	"attendancedesk/internal/config"
	"attendancedesk/internal/entity"
	"attendancedesk/internal/entity/memstore"
	"attendancedesk/internal/entity/sqlstore"
	"attendancedesk/internal/logger"
)

// Backend is the entity store picked by STORE_DRIVER plus the connection behind it.
type Backend struct {
	Store entity.Store
	// DB is nil for the memory driver.
	DB *DB
}

// Open connects the configured driver and, for SQL drivers, applies the schema.
func Open(ctx context.Context, cfg config.App) (*Backend, error) {
	var (
		db  *DB
		err error
	)
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		return &Backend{Store: memstore.New()}, nil
	case "sqlite":
		db, err = NewSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		db, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("connect %s: %w", cfg.StoreDriver, err)
	}

	dialect, err := sqlstore.DialectFor(db.Driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s := sqlstore.New(db.Client, dialect)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", cfg.StoreDriver, err)
	}
	logger.Info().Str("driver", db.Driver).Msg("store ready")
	return &Backend{Store: s, DB: db}, nil
}

// Healthy pings the database. The memory store is always healthy.
func (b *Backend) Healthy(ctx context.Context) bool {
	if b.DB == nil {
		return b.Store != nil
	}
	return b.DB.Healthy(ctx)
}

// Close releases the connection, if any.
func (b *Backend) Close() error {
	return b.DB.Close()
}
