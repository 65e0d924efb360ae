// Package services contains application services of the portal client.
// This file defines the authentication service: login, logout and the
// locally known session.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/OkiljonDadakhanov/icho-platform/internal/client/apiclient"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/repositories/metadata"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/tokenstore"
	"github.com/OkiljonDadakhanov/icho-platform/internal/logging"
)

const userKey = "user"

var ErrEmptyCredentials = errors.New("email and password are required")

// APIClient is the part of *apiclient.Client the service depends on.
type APIClient interface {
	Post(ctx context.Context, path string, in, out any) error
	SetTokens(ctx context.Context, access, refresh string) error
	Logout(ctx context.Context) error
	AccessToken() string
	IsAuthenticated() bool
}

var _ APIClient = (*apiclient.Client)(nil)

// User is the profile returned by the login endpoint.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Country   string `json:"country,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user"`
}

// Session describes what the client knows about the current login without
// contacting the server.
type Session struct {
	Authenticated bool
	User          *User
	// UserID and ExpiresAt come from the access token claims. The signature
	// is not verified: the server remains the authority.
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the access token is past its exp claim.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a token pair and cache the user profile.
//   - Logout: end the session on the server (best effort) and locally.
//   - Session: describe the current session from local state only.
//   - Stored: list the locally persisted keys with credentials redacted.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*User, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (Session, error)
	Stored(ctx context.Context) (map[string]string, error)
}

type authService struct {
	client APIClient
	repo   metadata.Repository
}

func NewAuthService(client APIClient, repo metadata.Repository) AuthService {
	return &authService{client: client, repo: repo}
}

func (a *authService) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	var resp loginResponse
	if err := a.client.Post(ctx, apiclient.LoginPath, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if resp.Access == "" {
		return nil, errors.New("login error: response carries no access token")
	}

	if err := a.client.SetTokens(ctx, resp.Access, resp.Refresh); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	if resp.User == nil {
		if err := a.repo.Delete(ctx, userKey); err != nil {
			return nil, fmt.Errorf("user cache error: %w", err)
		}
		return nil, nil
	}

	data, err := json.Marshal(resp.User)
	if err != nil {
		return nil, fmt.Errorf("user cache error: %w", err)
	}
	if err := a.repo.Set(ctx, userKey, string(data)); err != nil {
		return nil, fmt.Errorf("user cache error: %w", err)
	}
	return resp.User, nil
}

func (a *authService) Logout(ctx context.Context) error {
	err := a.client.Logout(ctx)
	if derr := a.repo.Delete(context.WithoutCancel(ctx), userKey); derr != nil {
		err = errors.Join(err, fmt.Errorf("user cache error: %w", derr))
	}
	return err
}

func (a *authService) Session(ctx context.Context) (Session, error) {
	s := Session{Authenticated: a.client.IsAuthenticated()}
	if !s.Authenticated {
		// The pair can be dropped by a failed refresh, leaving the profile behind.
		if err := a.repo.Delete(ctx, userKey); err != nil {
			return s, fmt.Errorf("user cache error: %w", err)
		}
		return s, nil
	}

	raw, ok, err := a.repo.Get(ctx, userKey)
	if err != nil {
		return s, fmt.Errorf("user cache error: %w", err)
	}
	if ok {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			s.User = &u
		}
	}

	s.UserID, s.ExpiresAt = tokenClaims(a.client.AccessToken())
	return s, nil
}

func (a *authService) Stored(ctx context.Context) (map[string]string, error) {
	m, err := a.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("local state error: %w", err)
	}
	for _, k := range []string{tokenstore.AccessTokenKey, tokenstore.RefreshTokenKey} {
		if v, ok := m[k]; ok {
			m[k] = logging.RedactToken(v)
		}
	}
	return m, nil
}

// tokenClaims reads user_id and exp from a JWT. Opaque tokens yield zero
// values.
func tokenClaims(token string) (string, time.Time) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", time.Time{}
	}

	var userID string
	switch v := claims["user_id"].(type) {
	case string:
		userID = v
	case float64:
		userID = fmt.Sprintf("%.0f", v)
	}

	var exp time.Time
	if t, err := claims.GetExpirationTime(); err == nil && t != nil {
		exp = t.Time
	}
	return userID, exp
}
