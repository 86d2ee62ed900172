// Package bootstrap wires configuration, storage and the HTTP app. Both the CLI
// and the serverless handler start here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"pcns-backend/internal/config"
	"pcns-backend/internal/dataaccess"
	"pcns-backend/internal/infrastructure/database"
	"pcns-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Runtime is a started app and the connections it owns.
type Runtime struct {
	App  *fiber.App
	DB   *gorm.DB
	Rdb  *redis.Client
	Data *dataaccess.Chain
}

// OpenDatabase opens the configured database.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DatabaseDriver, err)
	}
	return db, nil
}

// New opens the database and Redis, applies pending migrations when AutoMigrate is
// set, verifies soft-delete coverage and builds the app.
func New(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{DB: db}

	migrator := database.NewMigrator(db)
	if cfg.AutoMigrate {
		if err := migrator.Migrate(ctx); err != nil {
			rt.Close()
			return nil, err
		}
	} else if pending, err := migrator.Pending(ctx); err == nil && pending > 0 {
		log.Warn().Int("pending", pending).Msg("database has unapplied migrations, run `pcns migrate up`")
	}

	filter := dataaccess.NewSoftDeleteFilter(dataaccess.SoftDeletableEntities()...)
	if err := database.CheckSoftDeleteCoverage(db, filter); err != nil {
		rt.Close()
		return nil, err
	}
	rt.Data = dataaccess.NewDefaultChain(database.NewStore(db))

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rt.Rdb = redis.NewClient(opt)
		if err := rt.Rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, health counters disabled until it recovers")
		}
	}

	rt.App, err = router.CreateApp(cfg, router.Deps{DB: db, Data: rt.Data, Rdb: rt.Rdb})
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// Close releases the database and Redis connections.
func (rt *Runtime) Close() {
	if rt.Rdb != nil {
		_ = rt.Rdb.Close()
	}
	if rt.DB != nil {
		if sqlDB, err := rt.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
