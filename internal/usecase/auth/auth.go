package usecase_auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kinokreker/core/internal/model"
)

var (
	ErrInvalidInitData = errors.New("invalid init data")
	ErrUserNotFound    = errors.New("user not found")
	ErrInternal        = errors.New("internal error")
)

type UserRepository interface {
	ByTelegramID(ctx context.Context, telegramID string) (model.User, error)
	Create(ctx context.Context, user model.User) (model.User, error)
}

type UserCache interface {
	Get(key string) (*model.User, error)
	Set(key string, user model.User, ttl time.Duration) error
}

type Usecase struct {
	users UserRepository
	cache UserCache
	ttl   time.Duration
}

func New(
	users UserRepository,
	cache UserCache,
	ttl time.Duration,
) *Usecase {
	if ttl <= 0 {
		ttl = time.Minute * 10
	}

	return &Usecase{
		users: users,
		cache: cache,
		ttl:   ttl,
	}
}

// Resolve maps a raw Telegram initData blob to a persisted user,
// creating one on first sight. The HMAC signature is checked upstream.
func (u *Usecase) Resolve(ctx context.Context, initData string) (model.User, error) {
	if initData == "" {
		return model.User{}, ErrInvalidInitData
	}

	cacheKey := buildCacheKey(initData)
	if u.cache != nil {
		if cached, err := u.cache.Get(cacheKey); err == nil && cached != nil {
			return *cached, nil
		}
	}

	identity, err := parseInitData(initData)
	if err != nil {
		return model.User{}, err
	}

	user, err := u.users.ByTelegramID(ctx, identity.telegramID)
	if errors.Is(err, ErrUserNotFound) {
		user, err = u.users.Create(ctx, model.User{
			TelegramID: identity.telegramID,
			Username:   identity.username,
		})
	}
	if err != nil {
		return model.User{}, errors.Join(ErrInternal, err)
	}

	if u.cache != nil {
		// Cache is best effort, the user is already resolved.
		_ = u.cache.Set(cacheKey, user, u.ttl)
	}

	return user, nil
}

type telegramIdentity struct {
	telegramID string
	username   string
}

type initDataUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

func parseInitData(initData string) (telegramIdentity, error) {
	pairs := map[string]string{}
	for _, pair := range strings.Split(initData, "&") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return telegramIdentity{}, ErrInvalidInitData
		}
		pairs[kv[0]] = kv[1]
	}

	rawUser, ok := pairs["user"]
	if !ok {
		return telegramIdentity{}, ErrInvalidInitData
	}

	decoded, err := url.QueryUnescape(rawUser)
	if err != nil {
		return telegramIdentity{}, errors.Join(ErrInvalidInitData, err)
	}

	var user initDataUser
	if err := json.Unmarshal([]byte(decoded), &user); err != nil {
		return telegramIdentity{}, errors.Join(ErrInvalidInitData, err)
	}
	if user.ID == 0 {
		return telegramIdentity{}, ErrInvalidInitData
	}

	username := user.Username
	if username == "" {
		username = user.FirstName
	}

	return telegramIdentity{
		telegramID: strconv.FormatInt(user.ID, 10),
		username:   username,
	}, nil
}

func buildCacheKey(initData string) string {
	sum := sha256.Sum256([]byte(initData))
	return hex.EncodeToString(sum[:])
}
