package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codealchemist/recruiter-dashboard/internal/config"
	"github.com/codealchemist/recruiter-dashboard/internal/dto"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const generateChallengePath = "/generate-challenge"

type ChallengeServiceInterface interface {
	Generate(ctx context.Context, req dto.ChallengeRequest) (*dto.ChallengeResult, error)
}

// GenerationError means no challenge exists: the call failed, the service
// refused, or it answered with something we could not read.
type GenerationError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

type ChallengeService struct {
	Client   *resty.Client
	Endpoint string
}

func NewChallengeService() *ChallengeService {
	cfg := config.LoadChallengeConfig()
	return NewChallengeServiceWithURL(cfg.BackendURL, cfg.Timeout)
}

func NewChallengeServiceWithURL(baseURL string, timeout time.Duration) *ChallengeService {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	return &ChallengeService{
		Client:   client,
		Endpoint: strings.TrimRight(baseURL, "/") + generateChallengePath,
	}
}

// Generate sends only the two text bodies; candidate details never leave this service.
func (s *ChallengeService) Generate(ctx context.Context, req dto.ChallengeRequest) (*dto.ChallengeResult, error) {
	resp, err := s.Client.R().
		SetContext(ctx).
		SetMultipartFields(
			&resty.MultipartField{
				Param:       "resume",
				FileName:    "resume.txt",
				ContentType: "text/plain",
				Reader:      strings.NewReader(req.Resume),
			},
			&resty.MultipartField{
				Param:       "job_description",
				FileName:    "job_description.txt",
				ContentType: "text/plain",
				Reader:      strings.NewReader(req.JobDescription),
			},
		).
		Post(s.Endpoint)
	if err != nil {
		return nil, &GenerationError{
			Message: fmt.Sprintf("challenge service unreachable: %v", err),
			Err:     err,
		}
	}

	body := resp.Body()
	if !resp.IsSuccess() {
		msg := gjson.GetBytes(body, "error")
		if gjson.ValidBytes(body) && msg.Type == gjson.String && msg.String() != "" {
			return nil, &GenerationError{StatusCode: resp.StatusCode(), Message: msg.String()}
		}
		return nil, &GenerationError{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("challenge service error: %d %s", resp.StatusCode(), http.StatusText(resp.StatusCode())),
		}
	}

	result, err := decodeChallengeResult(body)
	if err != nil {
		log.Printf("Malformed challenge service response: %v", err)
		return nil, &GenerationError{
			StatusCode: resp.StatusCode(),
			Message:    "challenge service returned a malformed response",
			Err:        err,
		}
	}
	return result, nil
}

func decodeChallengeResult(body []byte) (*dto.ChallengeResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	fields := gjson.GetManyBytes(body, "challengeLink", "githubRepo")
	names := []string{"challengeLink", "githubRepo"}
	values := make([]string, len(fields))
	for i, f := range fields {
		if f.Type != gjson.String {
			return nil, fmt.Errorf("%s is missing or not a string", names[i])
		}
		if err := checkAbsoluteURL(f.String()); err != nil {
			return nil, fmt.Errorf("%s: %w", names[i], err)
		}
		values[i] = f.String()
	}
	return &dto.ChallengeResult{ChallengeLink: values[0], GithubRepo: values[1]}, nil
}

func checkAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	return nil
}
