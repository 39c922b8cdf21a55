package infra_user_cache

import (
	"encoding/json"
	"time"

	"github.com/go-redis/redis"

	"github.com/kinokreker/core/internal/model"
)

// Driver caches resolved Telegram users so repeated requests with the same
// initData skip the database lookup.
type Driver struct {
	client *redis.Client
	key    string
}

func New(
	client *redis.Client,
	key string,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
	}
}

func (d *Driver) Get(key string) (*model.User, error) {
	fullKey := d.getFullKey(key)

	val, err := d.client.Get(fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Driver) Set(key string, user model.User, ttl time.Duration) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	fullKey := d.getFullKey(key)
	if err := d.client.Set(fullKey, string(raw), ttl).Err(); err != nil {
		return err
	}
	return nil
}

func (d *Driver) getFullKey(key string) string {
	if d.key != "" {
		return d.key + ":" + key
	}
	return key
}
