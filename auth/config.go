package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	platformconfig "github.com/gunplahub/api/internal/platform/config"
)

// PKCEParams holds the per-login PKCE material and CSRF state.
type PKCEParams struct {
	CodeVerifier  string
	CodeChallenge string
	State         string
}

// NewGoogleOAuthConfig builds the Google OAuth client configuration.
func NewGoogleOAuthConfig(cfg platformconfig.OAuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"openid", "profile", "email"},
	}
}

// GeneratePKCEParams generates PKCE parameters for secure OAuth flow
func GeneratePKCEParams() (*PKCEParams, error) {
	verifierBytes := make([]byte, 32)
	if _, err := rand.Read(verifierBytes); err != nil {
		return nil, fmt.Errorf("failed to generate code verifier: %w", err)
	}
	codeVerifier := base64.URLEncoding.EncodeToString(verifierBytes)

	challenge := sha256.Sum256([]byte(codeVerifier))
	codeChallenge := base64.URLEncoding.EncodeToString(challenge[:])

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	state := base64.URLEncoding.EncodeToString(stateBytes)

	return &PKCEParams{
		CodeVerifier:  codeVerifier,
		CodeChallenge: codeChallenge,
		State:         state,
	}, nil
}

// AuthCodeURL builds the Google authorization URL with PKCE and state.
func AuthCodeURL(config *oauth2.Config, pkce *PKCEParams) string {
	return config.AuthCodeURL(pkce.State,
		oauth2.SetAuthURLParam("code_challenge", pkce.CodeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}
