package service

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/githunt/githunt"
	"github.com/githunt/githunt/client"
	"github.com/githunt/githunt/internal/domain"
)

// StateRepository stores short-lived OAuth state nonces.
type StateRepository interface {
	SaveState(ctx context.Context, state string) error
	ConsumeState(ctx context.Context, state string) (bool, error)
}

// OAuthService drives the GitHub authorization-code flow: hand out an
// authorize URL with a single-use state nonce, then trade the callback code
// for the caller's profile and token.
type OAuthService struct {
	config *oauth2.Config
	gh     *client.Client
	states StateRepository
}

func NewOAuthService(clientID, clientSecret, callbackURL string, gh *client.Client, states StateRepository) *OAuthService {
	return &OAuthService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user"},
			Endpoint:     github.Endpoint,
		},
		gh:     gh,
		states: states,
	}
}

// AuthURL mints a state nonce and returns the GitHub authorize URL to
// redirect the user to.
func (s *OAuthService) AuthURL(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "OAuth.Service.AuthURL")
	defer span.End()

	state := newToken()
	if err := s.states.SaveState(ctx, state); err != nil {
		span.RecordError(err)
		return "", err
	}

	return s.config.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Exchange completes the flow: verifies and burns the state nonce, exchanges
// the code for a token, and fetches the caller's profile with it.
func (s *OAuthService) Exchange(ctx context.Context, state, code string) (githunt.Credentials, error) {
	ctx, span := tracer.Start(ctx, "OAuth.Service.Exchange")
	defer span.End()

	ok, err := s.states.ConsumeState(ctx, state)
	if err != nil {
		span.RecordError(err)
		return githunt.Credentials{}, err
	}
	if !ok {
		return githunt.Credentials{}, domain.Validationf("unknown or expired oauth state")
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		span.RecordError(err)
		return githunt.Credentials{}, domain.RemoteUnavailablef("github: oauth code exchange failed: %v", err)
	}

	user, err := s.gh.GetViewer(ctx, token.AccessToken)
	if err != nil {
		span.RecordError(err)
		return githunt.Credentials{}, err
	}

	return githunt.Credentials{User: user, Token: token.AccessToken}, nil
}
