// Package storage picks the durable slot backend for the catalog.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	redisad "realty/internal/adapters/redis"
	"realty/internal/domain"
	"realty/internal/shared"
	mysqlslot "realty/internal/storage/mysql"
	pebbleslot "realty/internal/storage/pebble"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// OpenSlot connects the backend named by cfg.SlotBackend. The returned
// closer releases it.
func OpenSlot(ctx context.Context, cfg shared.Config) (domain.Slot, io.Closer, error) {
	switch cfg.SlotBackend {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		s := mysqlslot.New(db)
		if err := s.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Msg("catalog slot: mysql")
		return s, db, nil
	case "redis":
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("catalog slot: redis")
		return rc.Slot(), rc, nil
	default:
		s, err := pebbleslot.Open(cfg.PebbleDir)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("dir", cfg.PebbleDir).Msg("catalog slot: pebble")
		return s, closerFunc(s.Close), nil
	}
}
