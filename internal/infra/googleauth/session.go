package googleauth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"office_presence_bot/internal/domain/user"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// firebaseMessagingScope lets the session's access token authorize push sends.
const firebaseMessagingScope = "https://www.googleapis.com/auth/firebase.messaging"

var errSignedOut = errors.New("googleauth: no active session")

// Session implements user.Session on top of a Google OIDC provider. Identity
// claims are resolved once at construction; the access token is minted from
// the token source on every request so it stays fresh until sign-out.
type Session struct {
	mu     sync.RWMutex
	user   *user.User
	source oauth2.TokenSource
}

type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// NewSession discovers the OIDC provider, builds a refresh-token-backed token
// source and resolves the signed-in user's name and email from the userinfo
// endpoint.
func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover OIDC provider: %w", err)
	}

	oauthCfg := oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email", firebaseMessagingScope},
	}
	source := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	info, err := provider.UserInfo(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	var claims struct {
		Name      string `json:"name"`
		GivenName string `json:"given_name"`
		Email     string `json:"email"`
	}
	if err := info.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode userinfo claims: %w", err)
	}
	name := claims.GivenName
	if name == "" {
		name = claims.Name
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("userinfo claims carry no email")
	}

	return &Session{
		user:   &user.User{Name: name, Email: claims.Email},
		source: oauth2.ReuseTokenSource(nil, source),
	}, nil
}

// CurrentUser returns a copy of the signed-in user, or nil after SignOut.
func (s *Session) CurrentUser() *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// AccessToken returns a live bearer token, refreshing through the token
// source when the cached one expired.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	source := s.source
	s.mu.RUnlock()
	if source == nil {
		return "", errSignedOut
	}
	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	return token.AccessToken, nil
}

// SignOut drops the identity and the token source. Subsequent AccessToken
// calls fail; crossings observed afterwards produce no notifications.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.source = nil
}
