package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/githunt/githunt"
	"github.com/githunt/githunt/internal/domain"
)

var tracer = otel.Tracer("service")

// Session lookup must never stall a request; past this bound the caller
// proceeds anonymously.
const resolveTimeout = 500 * time.Millisecond

// SessionRepository is the session backend contract.
type SessionRepository interface {
	Save(ctx context.Context, id string, creds githunt.Credentials) error
	Load(ctx context.Context, id string) (githunt.Credentials, error)
	Delete(ctx context.Context, id string) error
}

type SessionService struct {
	sessions SessionRepository
	logger   *slog.Logger
}

func NewSessionService(sessions SessionRepository, logger *slog.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		logger:   logger,
	}
}

// Resolve turns a session id into credentials. Any failure — unknown id,
// expired session, slow or unreachable backend — yields nil (anonymous)
// rather than an error; operations that need identity reject later.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) *githunt.Credentials {
	ctx, span := tracer.Start(ctx, "Session.Service.Resolve")
	defer span.End()

	if sessionID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	creds, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			span.RecordError(errors.Wrap(err, "session lookup failed"))
			s.logger.Warn("session lookup failed, proceeding as anonymous",
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	return &creds
}

// Establish mints a new session id for the credentials and persists it.
func (s *SessionService) Establish(ctx context.Context, creds githunt.Credentials) (string, error) {
	ctx, span := tracer.Start(ctx, "Session.Service.Establish")
	defer span.End()

	id := newToken()
	if err := s.sessions.Save(ctx, id, creds); err != nil {
		span.RecordError(err)
		return "", err
	}
	return id, nil
}

// Destroy removes the session.
func (s *SessionService) Destroy(ctx context.Context, sessionID string) error {
	ctx, span := tracer.Start(ctx, "Session.Service.Destroy")
	defer span.End()

	return s.sessions.Delete(ctx, sessionID)
}

func newToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
