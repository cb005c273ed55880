package config

import (
	"os"
	"sync"
	"time"
)

// SessionCookieName is the cookie carrying the session credential.
const SessionCookieName = "codealchemist-session"

const (
	DefaultSessionExpiresIn = 5 * 24 * time.Hour
	MinSessionExpiresIn     = 5 * time.Minute
	MaxSessionExpiresIn     = 14 * 24 * time.Hour
)

type SessionConfig struct {
	ExpiresIn time.Duration
	Secret    string
	Issuer    string
	Audience  string

	// IdentityPublicKey is a PEM block or a path to one.
	IdentityPublicKey string
	IdentityIssuer    string
	IdentityAudience  string
	MaxAuthAge        time.Duration
}

var (
	sessionConfig *SessionConfig
	sessionOnce   sync.Once
)

func LoadSessionConfig() *SessionConfig {
	sessionOnce.Do(func() {
		expiresIn := durationEnv("SESSION_EXPIRES_IN", DefaultSessionExpiresIn)
		if expiresIn < MinSessionExpiresIn || expiresIn > MaxSessionExpiresIn {
			expiresIn = DefaultSessionExpiresIn
		}
		sessionConfig = &SessionConfig{
			ExpiresIn:         expiresIn,
			Secret:            os.Getenv("SESSION_SECRET"),
			Issuer:            stringEnv("SESSION_ISSUER", "codealchemist"),
			Audience:          stringEnv("SESSION_AUDIENCE", "codealchemist-dashboard"),
			IdentityPublicKey: os.Getenv("IDENTITY_PUBLIC_KEY"),
			IdentityIssuer:    os.Getenv("IDENTITY_ISSUER"),
			IdentityAudience:  os.Getenv("IDENTITY_AUDIENCE"),
			MaxAuthAge:        durationEnv("IDENTITY_MAX_AUTH_AGE", 5*time.Minute),
		}
	})
	return sessionConfig
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
