package database

import (
	"encoding/json"
	"fmt"

	"github.com/dareside-games/daresbot/internal/byteutil"
	"github.com/dareside-games/daresbot/internal/cache"
	"github.com/dareside-games/daresbot/internal/database"
	"github.com/dareside-games/daresbot/internal/database/user/model"
	bolt "go.etcd.io/bbolt"
)

const bucket = "users"

var ErrNotFound = fmt.Errorf("not found")

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

func (db *DB) Fetch(userID int64) (model.User, error) {
	var u model.User

	if db.cache != nil {
		if v, ok := db.cache.Get(userID); ok {
			return v.(model.User), nil
		}
	}

	pk := byteutil.EncodeInt64ToBytes(userID)
	var bytes []byte
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}
		bytes = b.Get(pk)
		return nil
	}); err != nil {
		return u, fmt.Errorf("view transaction error: %w", err)
	}

	if len(bytes) == 0 {
		return u, ErrNotFound
	}

	if err := json.Unmarshal(bytes, &u); err != nil {
		return u, fmt.Errorf("unmarshal: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(userID, u)
	}

	return u, nil
}

func (db *DB) FetchByUsername(username string) (model.User, error) {
	var user model.User
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var u model.User
			if err := json.Unmarshal(v, &u); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			if u.Username == username {
				user = u
				return nil
			}
		}
		return ErrNotFound
	}); err != nil {
		return user, fmt.Errorf("view transaction error: %w", err)
	}
	return user, nil
}

func (db *DB) Store(m model.User) error {
	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pk := byteutil.EncodeInt64ToBytes(m.ID)
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		if err := b.Put(pk, bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}

		if db.cache != nil {
			db.cache.Add(m.ID, m)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	return nil
}
