package domain

import (
	"context"

	"github.com/githunt/githunt"
)

// RemoteConnector fetches remote entity data on behalf of one request.
// Implementations cache per key for the request's lifetime and join
// concurrent identical lookups.
type RemoteConnector interface {
	GetRepository(ctx context.Context, fullName string) (githunt.Repository, error)
	GetUser(ctx context.Context, login string) (githunt.User, error)
}

// FeedCursor is a decoded keyset-pagination position: the rank value of the
// last seen entry (score for HOT, createdAt unix nanos for NEW) plus its id
// as tiebreaker.
type FeedCursor struct {
	Rank int64
	ID   int64
}

// EngagementStore owns the persisted entries, votes and comments.
// All mutations are transactional: derived counters commit together with the
// underlying rows or not at all.
type EngagementStore interface {
	GetEntry(ctx context.Context, fullName string) (githunt.Entry, error)
	ListEntries(ctx context.Context, feed githunt.FeedType, after *FeedCursor, limit int) ([]githunt.Entry, error)
	CreateEntry(ctx context.Context, fullName, postedBy string) (githunt.Entry, error)
	// ApplyVote upserts the voter's row with the given direction (+1/-1) and
	// recomputes the entry score from the full vote set. Direction 0 removes
	// the voter's row.
	ApplyVote(ctx context.Context, fullName, voter string, direction int) (githunt.Entry, error)
	AddComment(ctx context.Context, fullName, postedBy, content string) (githunt.Entry, error)
	ListComments(ctx context.Context, fullName string) ([]githunt.Comment, error)
}

// RequestContext is the per-request execution context: the caller's identity
// (nil when anonymous) and fresh data-access handles. It is built once per
// request and never shared across requests.
type RequestContext struct {
	User       *githunt.User
	Connector  RemoteConnector
	Engagement EngagementStore
}

const requestCtxKey = "githunt-requestContext"

// WithRequestContext attaches a RequestContext to ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestCtxKey, rc)
}

// RequestContextFrom extracts the RequestContext, or an empty anonymous one
// if none was attached.
func RequestContextFrom(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestCtxKey).(*RequestContext); ok && rc != nil {
		return rc
	}
	return &RequestContext{}
}
