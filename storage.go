package main

import (
	"fmt"

	"go.uber.org/zap"
)

// OpenBookStorage builds the storage backend named by the configuration.
// Above this point exactly one contract exists, the engine choice never
// leaks into the api layer.
func OpenBookStorage(config *Config, logger *zap.Logger, clock Clocker) (BookStorage, error) {
	switch config.Storage.Engine {
	case "postgres":
		db, err := GetPostgresClient(&config.Storage.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres server: %w", err)
		}
		if err := MigratePostgresSchema(db, config.Storage.Postgres.MigrationsPath); err != nil {
			return nil, fmt.Errorf("failed to migrate postgres schema: %w", err)
		}
		return NewPostgresBookStorage(logger, db), nil
	case "bolt":
		db, err := GetBoltDBClient(&config.Storage.BoltDB)
		if err != nil {
			return nil, fmt.Errorf("failed to open boltdb file: %w", err)
		}
		return NewBoltBookStorage(logger, &config.Storage.BoltDB, db, clock), nil
	default:
		return nil, fmt.Errorf("unknown storage engine %q", config.Storage.Engine)
	}
}
