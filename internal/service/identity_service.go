package service

import (
	"context"
	"crypto"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/codealchemist/recruiter-dashboard/internal/config"
	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidIDToken         = errors.New("invalid ID token")
	ErrRecentSignInRequired   = errors.New("recent sign in required")
	ErrInvalidSessionDuration = errors.New("session duration out of range")
	ErrInvalidSession         = errors.New("invalid session")
	ErrInvalidKey             = errors.New("invalid identity public key")
)

type IdentityServiceInterface interface {
	VerifyIDToken(ctx context.Context, idToken string) (*IdentityClaims, error)
	CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, time.Time, error)
	VerifySessionCookie(ctx context.Context, value string) (*model.SessionClaims, error)
}

type IdentityClaims struct {
	UID      string
	Email    string
	Name     string
	AuthTime time.Time
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Name     string `json:"name"`
	AuthTime int64  `json:"auth_time"`
}

type sessionTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// IdentityService checks ID tokens from the identity provider and exchanges
// them for signed, longer lived session credentials.
type IdentityService struct {
	identityKey      crypto.PublicKey
	identityIssuer   string
	identityAudience string
	maxAuthAge       time.Duration

	secret   []byte
	issuer   string
	audience string

	now func() time.Time
}

func NewIdentityService(cfg *config.SessionConfig) (*IdentityService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET not set")
	}
	key, err := ParseIdentityPublicKey(cfg.IdentityPublicKey)
	if err != nil {
		return nil, err
	}
	return &IdentityService{
		identityKey:      key,
		identityIssuer:   cfg.IdentityIssuer,
		identityAudience: cfg.IdentityAudience,
		maxAuthAge:       cfg.MaxAuthAge,
		secret:           []byte(cfg.Secret),
		issuer:           cfg.Issuer,
		audience:         cfg.Audience,
		now:              time.Now,
	}, nil
}

// ParseIdentityPublicKey accepts an inline PEM block or a path to one, RSA or ECDSA.
func ParseIdentityPublicKey(s string) (crypto.PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidKey
	}
	pemBytes := []byte(s)
	if !strings.HasPrefix(s, "-----BEGIN") {
		b, err := os.ReadFile(s)
		if err != nil {
			return nil, fmt.Errorf("read identity public key: %w", err)
		}
		pemBytes = b
	}
	if key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes); err == nil {
		return key, nil
	}
	if key, err := jwt.ParseECPublicKeyFromPEM(pemBytes); err == nil {
		return key, nil
	}
	return nil, ErrInvalidKey
}

func (s *IdentityService) VerifyIDToken(ctx context.Context, idToken string) (*IdentityClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.identityIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.identityIssuer))
	}
	if s.identityAudience != "" {
		opts = append(opts, jwt.WithAudience(s.identityAudience))
	}

	token, err := jwt.ParseWithClaims(idToken, &idTokenClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.identityKey, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidIDToken
	}
	claims, ok := token.Claims.(*idTokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidIDToken
	}

	out := &IdentityClaims{UID: claims.Subject, Email: claims.Email, Name: claims.Name}
	if claims.AuthTime > 0 {
		out.AuthTime = time.Unix(claims.AuthTime, 0)
	}
	return out, nil
}

func (s *IdentityService) CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, time.Time, error) {
	if expiresIn < config.MinSessionExpiresIn || expiresIn > config.MaxSessionExpiresIn {
		return "", time.Time{}, ErrInvalidSessionDuration
	}
	identity, err := s.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	if identity.AuthTime.IsZero() || now.Sub(identity.AuthTime) > s.maxAuthAge {
		return "", time.Time{}, ErrRecentSignInRequired
	}

	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := now.Add(expiresIn)
	claims := sessionTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   identity.UID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: identity.Email,
		Name:  identity.Name,
	}
	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return value, expiresAt, nil
}

func (s *IdentityService) VerifySessionCookie(ctx context.Context, value string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(value, &sessionTokenClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidSession
	}
	claims, ok := token.Claims.(*sessionTokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}

	out := &model.SessionClaims{
		UID:       claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
