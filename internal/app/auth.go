package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"realty/internal/domain"
)

var ErrBadCredentials = errors.New("invalid credentials")

const sessionPrefix = "session:"

type session struct {
	CreatedAt time.Time `json:"createdAt"`
}

// AdminAuth guards the admin surface with a single bcrypt-hashed password and
// cache-backed session tokens.
type AdminAuth struct {
	hash  []byte
	cache domain.Cache
	ttl   time.Duration
}

func NewAdminAuth(passwordHash string, c domain.Cache, ttl time.Duration) *AdminAuth {
	return &AdminAuth{hash: []byte(passwordHash), cache: c, ttl: ttl}
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// Login returns a new session token.
func (a *AdminAuth) Login(ctx context.Context, password string) (string, error) {
	if len(a.hash) == 0 {
		return "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", ErrBadCredentials
	}
	token := uuid.NewString()
	if err := a.cache.Set(ctx, sessionPrefix+token, session{CreatedAt: time.Now().UTC()}, int(a.ttl.Seconds())); err != nil {
		return "", err
	}
	return token, nil
}

func (a *AdminAuth) Check(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	var s session
	return a.cache.Get(ctx, sessionPrefix+token, &s)
}

func (a *AdminAuth) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return a.cache.Del(ctx, sessionPrefix+token)
}
