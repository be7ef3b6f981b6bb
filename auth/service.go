// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	platformconfig "github.com/gunplahub/api/internal/platform/config"
	"github.com/gunplahub/api/internal/types"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUserInfo is the subset of the Google userinfo response we consume.
type GoogleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Service implements the Google-OAuth admin login flow and session
// issuance/validation.
type Service struct {
	oauth    *oauth2.Config
	admin    platformconfig.AdminConfig
	session  platformconfig.SessionConfig
	sessions *SessionStore
}

// NewService creates the auth service.
func NewService(oauth *oauth2.Config, admin platformconfig.AdminConfig, session platformconfig.SessionConfig, sessions *SessionStore) *Service {
	return &Service{
		oauth:    oauth,
		admin:    admin,
		session:  session,
		sessions: sessions,
	}
}

// ExchangeCodeForToken exchanges authorization code for access token
func (s *Service) ExchangeCodeForToken(ctx context.Context, code, codeVerifier string) (*oauth2.Token, error) {
	token, err := s.oauth.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// GetUserInfo fetches user information from Google
func (s *Service) GetUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info: %w", err)
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	return &userInfo, nil
}

// IssueSession checks the admin allowlist and, if the email is allowed,
// creates a cached session entry and signs the session JWT.
func (s *Service) IssueSession(ctx context.Context, userInfo *GoogleUserInfo) (string, types.AdminPrincipal, error) {
	var principal types.AdminPrincipal

	if !s.admin.IsAdminEmail(userInfo.Email) {
		return "", principal, fmt.Errorf("%w: %s", ErrNotAdmin, userInfo.Email)
	}

	sessionID := uuid.Must(uuid.NewV4()).String()
	principal = types.AdminPrincipal{
		Email:     userInfo.Email,
		Name:      userInfo.Name,
		AvatarURL: userInfo.Picture,
		SessionID: sessionID,
	}

	if err := s.sessions.Put(ctx, sessionID, principal); err != nil {
		return "", principal, err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    principal.Email,
		"name":   principal.Name,
		"avatar": principal.AvatarURL,
		"jti":    sessionID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.session.TTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.session.Secret))
	if err != nil {
		return "", principal, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, principal, nil
}

// ValidateSession parses and verifies a session token and resolves its
// principal from the session store. The cached entry is authoritative:
// a signed token whose session was invalidated is rejected (fail-closed).
func (s *Service) ValidateSession(ctx context.Context, tokenString string) (types.AdminPrincipal, error) {
	var principal types.AdminPrincipal

	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return principal, err
	}

	sessionID, _ := claims["jti"].(string)
	if sessionID == "" {
		return principal, fmt.Errorf("%w: missing session id", ErrInvalidSession)
	}

	principal, err = s.sessions.Get(ctx, sessionID)
	if err != nil {
		return principal, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if !s.admin.IsAdminEmail(principal.Email) {
		return types.AdminPrincipal{}, fmt.Errorf("%w: %s", ErrNotAdmin, principal.Email)
	}
	return principal, nil
}

// Logout invalidates the session behind a token. An unparsable token is
// not an error for logout purposes.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return nil
	}
	sessionID, _ := claims["jti"].(string)
	if sessionID == "" {
		return nil
	}
	return s.sessions.Invalidate(ctx, sessionID)
}

func (s *Service) parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.session.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid claims", ErrInvalidSession)
	}

	if exp, ok := claims["exp"].(float64); ok {
		if int64(exp) < time.Now().Unix() {
			return nil, fmt.Errorf("%w: token has expired", ErrInvalidSession)
		}
	}
	return claims, nil
}
