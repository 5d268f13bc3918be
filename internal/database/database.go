// Package database owns the bolt connection shared by the entity stores.
package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dareside-games/daresbot/internal/logging"
	bolt "go.etcd.io/bbolt"
)

type DB struct {
	DB *bolt.DB
}

// New opens the backing file. A file that cannot be opened is sidelined and
// replaced with an empty one: losing a snapshot must never keep the process
// from starting.
func New(ctx context.Context, config *Config) (*DB, error) {
	logger := logging.FromContext(ctx).Named("database.New")
	logger.Infof("creating db connection, file: %s", config.FilePath)

	db, err := bolt.Open(config.FilePath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		if _, statErr := os.Stat(config.FilePath); statErr != nil {
			return nil, fmt.Errorf("creating connection DB: %w", err)
		}

		sidelined := config.FilePath + ".corrupt"
		logger.Errorf("open db: %v, sidelining file to %s and starting empty", err, sidelined)
		if renameErr := os.Rename(config.FilePath, sidelined); renameErr != nil {
			return nil, fmt.Errorf("sideline corrupt db file: %w", renameErr)
		}

		db, err = bolt.Open(config.FilePath, 0o600, &bolt.Options{Timeout: time.Second})
		if err != nil {
			return nil, fmt.Errorf("creating connection DB: %w", err)
		}
	}

	return &DB{DB: db}, nil
}

func (db *DB) Close(ctx context.Context) error {
	logger := logging.FromContext(ctx).Named("database.Close")
	logger.Infof("closing DB connection")

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("error close DB connection: %w", err)
	}

	return nil
}
