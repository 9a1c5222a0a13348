// Package session carries the caller identity and credential into every engine
// operation. Nothing in the engine reads identity from ambient state.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
	RoleAdmin   Role = "admin"
)

// TokenSource is implemented by the auth collaborator. The engine never refreshes
// or stores credentials itself.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

type Session struct {
	UserID      uuid.UUID
	Role        Role
	Credentials TokenSource
}

func New(userID uuid.UUID, role Role, creds TokenSource) Session {
	return Session{UserID: userID, Role: role, Credentials: creds}
}

// BearerToken returns the credential for the Authorization header. A missing token or
// a JWT whose exp has passed is an auth error; no request is attempted.
func (s Session) BearerToken(ctx context.Context) (string, error) {
	if s.Credentials == nil {
		return "", apierr.Auth("no credential for session")
	}
	tok, err := s.Credentials.Token(ctx)
	if err != nil {
		return "", apierr.Wrap(apierr.KindAuth, "credential unavailable", err)
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", apierr.Auth("no credential for session")
	}
	if exp, ok := jwtExpiry(tok); ok && !exp.After(time.Now()) {
		return "", apierr.Auth("credential expired")
	}
	return tok, nil
}

func (s Session) IsMentor() bool { return s.Role == RoleMentor || s.Role == RoleAdmin }

// jwtExpiry reads exp without verifying the signature; verification is the backend's job.
func jwtExpiry(tok string) (time.Time, bool) {
	if strings.Count(tok, ".") != 2 {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
