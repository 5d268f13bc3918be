package database

import (
	"encoding/json"
	"fmt"

	"github.com/dareside-games/daresbot/internal/byteutil"
	"github.com/dareside-games/daresbot/internal/database"
	"github.com/dareside-games/daresbot/internal/database/gamestate/model"
	bolt "go.etcd.io/bbolt"
)

const bucket = "sessions"

var ErrNotFound = fmt.Errorf("not found")

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

func (db *DB) Fetch(chatID int64) (model.Snapshot, error) {
	var snap model.Snapshot
	pk := byteutil.EncodeInt64ToBytes(chatID)

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}

		bytes := b.Get(pk)
		if len(bytes) == 0 {
			return ErrNotFound
		}

		if err := json.Unmarshal(bytes, &snap); err != nil {
			return fmt.Errorf("json unmarshal error, %w", err)
		}

		return nil
	}); err != nil {
		return snap, fmt.Errorf("view transaction error: %w", err)
	}

	return snap, nil
}

func (db *DB) FetchAll() ([]model.Snapshot, error) {
	var list []model.Snapshot

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}

		if err := b.ForEach(func(k, v []byte) error {
			var snap model.Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			list = append(list, snap)
			return nil
		}); err != nil {
			return fmt.Errorf("bucket for each: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	return list, nil
}

// Store rewrites the whole snapshot for a chat. Bolt update transactions are
// serialized, so concurrent sessions cannot lose each other's writes.
func (db *DB) Store(snap model.Snapshot) error {
	bytes, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pk := byteutil.EncodeInt64ToBytes(snap.ChatID)
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		if err := b.Put(pk, bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	return nil
}
