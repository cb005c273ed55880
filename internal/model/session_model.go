package model

import (
	"context"
	"time"
)

// Session is the credential handed back to the browser. Nothing about it is
// stored server side.
type Session struct {
	Value     string
	ExpiresAt time.Time
	MaxAge    time.Duration
}

type SessionClaims struct {
	UID       string
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionKey struct{}

func ContextWithSession(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, sessionKey{}, claims)
}

func SessionFromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(sessionKey{}).(*SessionClaims)
	return claims, ok && claims != nil
}
