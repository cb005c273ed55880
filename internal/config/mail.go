package config

import (
	"os"
	"strconv"
	"sync"
)

type MailConfig struct {
	APIURL     string
	APIKey     string
	From       string
	MaxRetries int
}

var (
	mailConfig *MailConfig
	mailOnce   sync.Once
)

func LoadMailConfig() *MailConfig {
	mailOnce.Do(func() {
		retries, err := strconv.Atoi(os.Getenv("MAIL_MAX_RETRIES"))
		if err != nil || retries < 0 {
			retries = 2
		}
		mailConfig = &MailConfig{
			APIURL:     os.Getenv("MAIL_API_URL"),
			APIKey:     os.Getenv("MAIL_API_KEY"),
			From:       stringEnv("MAIL_FROM", "CodeAlchemist <no-reply@codealchemist.dev>"),
			MaxRetries: retries,
		}
	})
	return mailConfig
}
