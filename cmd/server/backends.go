package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/restaurant/storage-tracker/internal/core/ports"
	"github.com/restaurant/storage-tracker/internal/infrastructure/db/file"
	"github.com/restaurant/storage-tracker/internal/infrastructure/db/memory"
	"github.com/restaurant/storage-tracker/internal/infrastructure/db/mongo"
	"github.com/restaurant/storage-tracker/internal/infrastructure/db/redis"
	"github.com/restaurant/storage-tracker/internal/infrastructure/db/sqlite"
	"github.com/restaurant/storage-tracker/internal/pkg/config"
)

// backends holds the opened storage adapters and how to release them.
type backends struct {
	kv      ports.KeyValueStore
	creds   ports.CredentialStore
	closers []func(context.Context) error
}

func (b *backends) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i](ctx))
	}
	return errors.Join(errs...)
}

func openBackends(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backends, error) {
	b := &backends{}

	var mongoDB *mongodriver.Database
	connectMongo := func() (*mongodriver.Database, error) {
		if mongoDB != nil {
			return mongoDB, nil
		}
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, client.Disconnect)
		mongoDB = db
		return db, nil
	}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		b.kv = memory.NewKeyValueStore()

	case config.BackendFile:
		kv, err := file.NewKeyValueStore(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		b.kv = kv

	case config.BackendRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { return client.Close() })
		b.kv = redis.NewKeyValueStore(client, cfg.Redis.Prefix)

	case config.BackendMongo:
		db, err := connectMongo()
		if err != nil {
			return nil, err
		}
		b.kv = mongo.NewKeyValueStore(db)

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		b.closers = append(b.closers, func(context.Context) error { return sqlDB.Close() })
		b.kv = sqlite.NewKeyValueStore(db)
	}

	demo, err := memory.DemoCredentials(bcrypt.DefaultCost)
	if err != nil {
		_ = b.Close(ctx)
		return nil, err
	}

	switch cfg.Storage.CredentialBackend {
	case config.BackendMongo:
		db, err := connectMongo()
		if err != nil {
			_ = b.Close(ctx)
			return nil, err
		}
		repo := mongo.NewCredentialRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = b.Close(ctx)
			return nil, err
		}
		if err := repo.Seed(ctx, demo); err != nil {
			_ = b.Close(ctx)
			return nil, err
		}
		b.creds = repo
	default:
		store := memory.NewCredentialStore()
		for i := range demo {
			if _, err := store.Create(ctx, &demo[i]); err != nil {
				_ = b.Close(ctx)
				return nil, err
			}
		}
		b.creds = store
	}

	log.Info().
		Str("storage", cfg.Storage.Backend).
		Str("credentials", cfg.Storage.CredentialBackend).
		Msg("storage backends ready")
	return b, nil
}
