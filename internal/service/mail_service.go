package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/codealchemist/recruiter-dashboard/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const approvalSubject = "Your CodeAlchemist account has been approved"

var ErrMailNotConfigured = errors.New("mail: API URL not configured")

type MailServiceInterface interface {
	SendApprovalConfirmation(ctx context.Context, email, name string) error
}

type MailService struct {
	Client *resty.Client
	APIURL string
	APIKey string
	From   string
}

func NewMailService() *MailService {
	cfg := config.LoadMailConfig()
	return NewMailServiceWithConfig(cfg)
}

func NewMailServiceWithConfig(cfg *config.MailConfig) *MailService {
	client := resty.New().
		SetTimeout(15*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(10*time.Second).
		AddRetryCondition(isRetryableMailResponse)
	return &MailService{
		Client: client,
		APIURL: cfg.APIURL,
		APIKey: cfg.APIKey,
		From:   cfg.From,
	}
}

func isRetryableMailResponse(resp *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= 500
}

func (s *MailService) SendApprovalConfirmation(ctx context.Context, email, name string) error {
	if s.APIURL == "" {
		return ErrMailNotConfigured
	}
	if email == "" {
		return fmt.Errorf("mail: recipient address is empty")
	}

	req := s.Client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"from":    s.From,
			"to":      []string{email},
			"subject": approvalSubject,
			"html":    approvalBody(name),
		})
	if s.APIKey != "" {
		req.SetAuthToken(s.APIKey)
	}

	resp, err := req.Post(s.APIURL)
	if err != nil {
		return fmt.Errorf("mail: send failed: %w", err)
	}
	if !resp.IsSuccess() {
		detail := gjson.GetBytes(resp.Body(), "message").String()
		if detail == "" {
			detail = gjson.GetBytes(resp.Body(), "error").String()
		}
		return fmt.Errorf("mail: request failed status=%d message=%s", resp.StatusCode(), detail)
	}
	return nil
}

func approvalBody(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>Your CodeAlchemist account has been approved. You can now sign in and start creating coding challenges for your candidates.</p>
<p>The CodeAlchemist team</p>`, html.EscapeString(name))
}
