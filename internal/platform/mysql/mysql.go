package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"documind/internal/config"
)

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	pingTimeout time.Duration
}

// newPoolSettings fills unset or invalid values with the defaults and keeps
// the idle pool no larger than the open limit.
func newPoolSettings(cfg config.MySQLConfig) poolSettings {
	p := poolSettings{
		maxOpen:     cfg.MaxOpenConns,
		maxIdle:     cfg.MaxIdleConns,
		maxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
		pingTimeout: time.Duration(cfg.PingTimeoutSeconds) * time.Second,
	}
	if p.maxOpen <= 0 {
		p.maxOpen = 50
	}
	if p.maxIdle <= 0 {
		p.maxIdle = 10
	}
	if p.maxIdle > p.maxOpen {
		p.maxIdle = p.maxOpen
	}
	if p.maxLifetime <= 0 {
		p.maxLifetime = time.Hour
	}
	if p.pingTimeout <= 0 {
		p.pingTimeout = 3 * time.Second
	}
	return p
}

func (p poolSettings) apply(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(p.maxOpen)
	sqlDB.SetMaxIdleConns(p.maxIdle)
	sqlDB.SetConnMaxLifetime(p.maxLifetime)
	sqlDB.SetConnMaxIdleTime(p.maxLifetime / 2)
}

// New opens the durable store. Duplicate keys surface as gorm.ErrDuplicatedKey.
func New(ctx context.Context, cfg config.MySQLConfig) (*gorm.DB, error) {
	dialector := mysql.New(mysql.Config{
		DSN:               cfg.DSN(),
		DefaultStringSize: 255,
	})
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open mysql %s:%d/%s failed: %w", cfg.Host, cfg.Port, cfg.DB, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get mysql sql db failed: %w", err)
	}

	pool := newPoolSettings(cfg)
	pool.apply(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, pool.pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping mysql %s:%d failed: %w", cfg.Host, cfg.Port, err)
	}

	return db, nil
}
