package service

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Throwaway signing key for tests. Do not use outside of tests.
var (
	testIdentityKey     *rsa.PrivateKey
	testIdentityKeyErr  error
	testIdentityKeyOnce sync.Once
)

const (
	testIdentityIssuer   = "https://securetoken.example.com/codealchemist"
	testIdentityAudience = "codealchemist"
)

func testKey() (*rsa.PrivateKey, error) {
	testIdentityKeyOnce.Do(func() {
		testIdentityKey, testIdentityKeyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	return testIdentityKey, testIdentityKeyErr
}

// NewTestIdentityService returns an IdentityService trusting the test signing key.
// For unit tests only.
func NewTestIdentityService() (*IdentityService, error) {
	key, err := testKey()
	if err != nil {
		return nil, err
	}
	return &IdentityService{
		identityKey:      &key.PublicKey,
		identityIssuer:   testIdentityIssuer,
		identityAudience: testIdentityAudience,
		maxAuthAge:       5 * time.Minute,
		secret:           []byte("test-session-secret"),
		issuer:           "codealchemist",
		audience:         "codealchemist-dashboard",
		now:              time.Now,
	}, nil
}

// SignTestIDToken mints an ID token the way the identity provider would after a fresh sign in.
func SignTestIDToken(uid, email, name string, authTime time.Time) (string, error) {
	key, err := testKey()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := idTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    testIdentityIssuer,
			Audience:  jwt.ClaimStrings{testIdentityAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:    email,
		Name:     name,
		AuthTime: authTime.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}
