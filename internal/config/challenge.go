package config

import (
	"os"
	"strings"
	"sync"
	"time"
)

type ChallengeConfig struct {
	BackendURL string
	Timeout    time.Duration
}

var (
	challengeConfig *ChallengeConfig
	challengeOnce   sync.Once
)

// LoadChallengeConfig resolves the generation backend. The dashboard used to carry
// two variables for the same service, both are still honored as fallbacks.
func LoadChallengeConfig() *ChallengeConfig {
	challengeOnce.Do(func() {
		challengeConfig = &ChallengeConfig{
			BackendURL: strings.TrimRight(firstEnv("BACKEND_URL", "NEXT_PUBLIC_BACKEND_URL", "NEXT_PUBLIC_API_URL"), "/"),
			Timeout:    durationEnv("CHALLENGE_TIMEOUT", 2*time.Minute),
		}
	})
	return challengeConfig
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
