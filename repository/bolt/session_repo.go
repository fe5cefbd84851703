package bolt

import (
	"context"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/repository"
)

type sessionStorage struct {
	db     *bbolt.DB
	bucket []byte
}

// NewSessionStorage stores session entries in one BoltDB bucket. The bucket
// must already exist.
func NewSessionStorage(db *bbolt.DB, bucket string) repository.SessionStorage {
	if bucket == "" {
		bucket = "session"
	}
	return &sessionStorage{db: db, bucket: []byte(bucket)}
}

func (s *sessionStorage) Get(_ context.Context, key string) (string, error) {
	if s.db == nil {
		return "", bbolt.ErrDatabaseNotOpen
	}
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return domain.ErrStorageKeyAbsent
		}
		v := b.Get([]byte(key))
		if v == nil {
			return domain.ErrStorageKeyAbsent
		}
		value = string(v)
		return nil
	})
	return value, err
}

func (s *sessionStorage) Set(_ context.Context, key, value string) error {
	if s.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
}

func (s *sessionStorage) Delete(_ context.Context, keys ...string) error {
	if s.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}
