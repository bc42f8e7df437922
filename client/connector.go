package client

import (
	"context"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/githunt/githunt"
)

// Connector is the request-scoped view over Client. It carries the caller's
// OAuth token, remembers every entity it has fetched for the lifetime of one
// request, and joins concurrent lookups for the same key into a single
// upstream call. It must not be reused across requests.
type Connector struct {
	client *Client
	token  string
	cache  *cache.Cache
	group  singleflight.Group
}

// NewConnector builds a fresh connector for one request. The cache has no
// janitor goroutine; it is collected together with the connector at request
// end.
func NewConnector(client *Client, token string) *Connector {
	return &Connector{
		client: client,
		token:  token,
		cache:  cache.New(cache.NoExpiration, 0),
	}
}

// GetRepository returns repository metadata, served from the request cache
// when already fetched. Failed lookups are not cached.
func (c *Connector) GetRepository(ctx context.Context, fullName string) (githunt.Repository, error) {
	key := "repo:" + fullName
	if x, found := c.cache.Get(key); found {
		return x.(githunt.Repository), nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		repo, err := c.client.GetRepository(ctx, c.token, fullName)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, repo, cache.NoExpiration)
		return repo, nil
	})
	if err != nil {
		return githunt.Repository{}, err
	}

	return v.(githunt.Repository), nil
}

// GetUser returns a user's public profile, served from the request cache when
// already fetched.
func (c *Connector) GetUser(ctx context.Context, login string) (githunt.User, error) {
	key := "user:" + login
	if x, found := c.cache.Get(key); found {
		return x.(githunt.User), nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		user, err := c.client.GetUser(ctx, c.token, login)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, user, cache.NoExpiration)
		return user, nil
	})
	if err != nil {
		return githunt.User{}, err
	}

	return v.(githunt.User), nil
}
