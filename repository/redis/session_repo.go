package redis

import (
	"context"
	"errors"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/repository"
)

type sessionStorage struct {
	client redislib.Cmdable
	prefix string
}

// NewSessionStorage creates a Redis-backed session storage. Entries carry no
// expiry; they live until logout.
func NewSessionStorage(client redislib.Cmdable, prefix string) repository.SessionStorage {
	if prefix == "" {
		prefix = "foodshare:session:"
	}
	return &sessionStorage{client: client, prefix: prefix}
}

func (r *sessionStorage) Get(ctx context.Context, key string) (string, error) {
	result, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", domain.ErrStorageKeyAbsent
		}
		return "", err
	}
	return result, nil
}

func (r *sessionStorage) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *sessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	return r.client.Del(ctx, full...).Err()
}

func (r *sessionStorage) key(k string) string {
	return r.prefix + k
}
