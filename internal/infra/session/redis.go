// Package session stores session credentials and OAuth state nonces in the
// key-value backend.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/githunt/githunt"
	"github.com/githunt/githunt/internal/domain"
)

const (
	sessionPrefix = "session:"
	statePrefix   = "oauthstate:"

	sessionTTL = 30 * 24 * time.Hour
	stateTTL   = 10 * time.Minute
)

type Repository struct {
	rdb *redis.Client
}

func NewRepository(rdb *redis.Client) *Repository {
	return &Repository{rdb: rdb}
}

// Save persists the credentials under the session id, refreshing the TTL.
func (r *Repository) Save(ctx context.Context, id string, creds githunt.Credentials) error {
	value, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "session.Save: marshal")
	}
	return errors.Wrap(r.rdb.Set(ctx, sessionPrefix+id, value, sessionTTL).Err(), "session.Save")
}

// Load returns the credentials for a session id, or domain.ErrNotFound when
// the session does not exist or has expired.
func (r *Repository) Load(ctx context.Context, id string) (githunt.Credentials, error) {
	value, err := r.rdb.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return githunt.Credentials{}, domain.NotFoundf("session not found")
	}
	if err != nil {
		return githunt.Credentials{}, errors.Wrap(err, "session.Load")
	}

	var creds githunt.Credentials
	if err := json.Unmarshal(value, &creds); err != nil {
		return githunt.Credentials{}, errors.Wrap(err, "session.Load: unmarshal")
	}
	return creds, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return errors.Wrap(r.rdb.Del(ctx, sessionPrefix+id).Err(), "session.Delete")
}

// SaveState records an OAuth state nonce for later verification.
func (r *Repository) SaveState(ctx context.Context, state string) error {
	return errors.Wrap(r.rdb.Set(ctx, statePrefix+state, "1", stateTTL).Err(), "session.SaveState")
}

// ConsumeState verifies and burns an OAuth state nonce. A nonce is valid at
// most once.
func (r *Repository) ConsumeState(ctx context.Context, state string) (bool, error) {
	_, err := r.rdb.GetDel(ctx, statePrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "session.ConsumeState")
	}
	return true, nil
}
