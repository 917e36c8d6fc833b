package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	ErrNotConfigured   = errors.New("google sign-in is not configured")
	ErrExchange        = errors.New("authorization code exchange failed")
	ErrProfile         = errors.New("could not read google profile")
	ErrEmailUnverified = errors.New("google email is not verified")
)

// GoogleProfile is the subset of the userinfo response staff sign-in needs
type GoogleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleConfig holds the OAuth client settings
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Google drives the authorization-code flow against Google
type Google struct {
	conf        *oauth2.Config
	userInfoURL string
}

// NewGoogle creates a Google OAuth client
func NewGoogle(cfg GoogleConfig) *Google {
	return &Google{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// Enabled reports whether client credentials are set
func (g *Google) Enabled() bool {
	return g.conf.ClientID != "" && g.conf.ClientSecret != ""
}

// AuthURL returns the consent URL for the given state
func (g *Google) AuthURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Profile exchanges an authorization code and fetches the verified profile
func (g *Google) Profile(ctx context.Context, code string) (*GoogleProfile, error) {
	if !g.Enabled() {
		return nil, ErrNotConfigured
	}

	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.conf.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfile, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProfile, resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfile, err)
	}
	if !profile.VerifiedEmail {
		return nil, ErrEmailUnverified
	}
	return &profile, nil
}

// NewState returns a random value for the OAuth state parameter
func NewState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
