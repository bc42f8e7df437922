package middleware

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/githunt/githunt"
	"github.com/githunt/githunt/client"
	"github.com/githunt/githunt/internal/domain"
	"github.com/githunt/githunt/internal/service"
)

var tracer = otel.Tracer("session")

// SessionCookieName carries the opaque session id.
const SessionCookieName = "githunt_session"

// SessionMiddleware is the session context builder: it turns an inbound
// request into a RequestContext holding the caller's identity (nil when
// anonymous) plus fresh data-access handles, one connector per request.
type SessionMiddleware struct {
	sessions *service.SessionService
	gh       *client.Client
	store    domain.EngagementStore
}

func NewSessionMiddleware(
	sessions *service.SessionService,
	gh *client.Client,
	store domain.EngagementStore,
) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
		gh:       gh,
		store:    store,
	}
}

func (m *SessionMiddleware) BuildRequestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Session.Middleware.BuildRequestContext")
		defer span.End()

		var creds *githunt.Credentials
		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			creds = m.sessions.Resolve(ctx, cookie.Value)
		}

		rc := &domain.RequestContext{Engagement: m.store}
		token := ""
		if creds != nil {
			user := creds.User
			rc.User = &user
			token = creds.Token
			span.SetAttributes(attribute.String("login", user.Login))
		}
		rc.Connector = client.NewConnector(m.gh, token)

		c.SetRequest(c.Request().WithContext(domain.WithRequestContext(ctx, rc)))
		return next(c)
	}
}
