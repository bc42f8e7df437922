package rest

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/githunt/githunt/internal/present/graph"
	"github.com/githunt/githunt/internal/present/rest/middleware"
	"github.com/githunt/githunt/internal/present/rest/presenter"
	"github.com/githunt/githunt/internal/service"
)

const sessionCookieMaxAge = 30 * 24 * time.Hour

// Handler wires the HTTP surface: the OAuth login routes and the GraphQL
// endpoint. Only /graphql gets the session context builder; the login routes
// manage the session themselves.
type Handler struct {
	oauth    *service.OAuthService
	sessions *service.SessionService
	graph    *graph.Handler
}

func NewHandler(
	oauth *service.OAuthService,
	sessions *service.SessionService,
	graph *graph.Handler,
) *Handler {
	return &Handler{
		oauth:    oauth,
		sessions: sessions,
		graph:    graph,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, session *middleware.SessionMiddleware) {
	e.GET("/health", h.handleHealth)

	e.GET("/login/github", h.handleLogin)
	e.GET("/login/github/callback", h.handleCallback)
	e.GET("/logout", h.handleLogout)

	e.POST("/graphql", h.graph.HandleGraphQL, session.BuildRequestContext)
	e.GET("/graphql", h.graph.HandleGraphQL, session.BuildRequestContext)
	e.GET("/graphiql", h.graph.HandleGraphiQL)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, map[string]string{"status": "ok"})
}

func (h *Handler) handleLogin(c echo.Context) error {
	url, err := h.oauth.AuthURL(c.Request().Context())
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return c.Redirect(http.StatusFound, url)
}

func (h *Handler) handleCallback(c echo.Context) error {
	ctx := c.Request().Context()

	code := c.QueryParam("code")
	if code == "" {
		return presenter.BadRequestMessage(c, "missing authorization code")
	}

	creds, err := h.oauth.Exchange(ctx, c.QueryParam("state"), code)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	id, err := h.sessions.Establish(ctx, creds)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) handleLogout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(c.Request().Context(), cookie.Value); err != nil {
			return presenter.InternalError(c, err)
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, "/")
}
