package database

import (
	"encoding/json"
	"fmt"

	"github.com/dareside-games/daresbot/internal/byteutil"
	"github.com/dareside-games/daresbot/internal/database"
	"github.com/dareside-games/daresbot/internal/database/score/model"
	bolt "go.etcd.io/bbolt"
)

const bucket = "scores"

var ErrNotFound = fmt.Errorf("not found")

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

func (db *DB) Fetch(userID int64) (model.Entry, error) {
	var entry model.Entry
	pk := byteutil.EncodeInt64ToBytes(userID)

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}

		bytes := b.Get(pk)
		if len(bytes) == 0 {
			return ErrNotFound
		}

		if err := json.Unmarshal(bytes, &entry); err != nil {
			return fmt.Errorf("json unmarshal error, %w", err)
		}

		return nil
	}); err != nil {
		return entry, fmt.Errorf("view transaction error: %w", err)
	}

	return entry, nil
}

func (db *DB) FetchAll() ([]model.Entry, error) {
	var list []model.Entry

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			// empty ledger, not an error
			return nil
		}

		if err := b.ForEach(func(k, v []byte) error {
			var entry model.Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			list = append(list, entry)
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

func (db *DB) Store(entry model.Entry) error {
	bytes, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pk := byteutil.EncodeInt64ToBytes(entry.UserID)
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
