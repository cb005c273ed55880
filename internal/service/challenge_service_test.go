package service

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codealchemist/recruiter-dashboard/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedPart struct {
	name        string
	fileName    string
	contentType string
	body        string
}

func testChallengeRequest() dto.ChallengeRequest {
	return dto.ChallengeRequest{
		CandidateName:  "Jo Ann",
		CandidateEmail: "jo@x.com",
		JobTitle:       "QA",
		Resume:         strings.Repeat("resume ", 20),
		JobDescription: strings.Repeat("job ", 40),
	}
}

func readParts(t *testing.T, r *http.Request) []capturedPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	var parts []capturedPart
	mr := multipart.NewReader(r.Body, params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, capturedPart{
			name:        p.FormName(),
			fileName:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			body:        string(b),
		})
	}
	return parts
}

func TestChallengeService_GenerateSendsOnlyTheTwoTexts(t *testing.T) {
	var calls int32
	var parts []capturedPart
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate-challenge", r.URL.Path)
		parts = readParts(t, r)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"challengeLink":"https://vscode.dev/x","githubRepo":"https://github.com/org/x"}`)
	}))
	defer srv.Close()

	req := testChallengeRequest()
	svc := NewChallengeServiceWithURL(srv.URL+"/", 5*time.Second)
	result, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "https://vscode.dev/x", result.ChallengeLink)
	assert.Equal(t, "https://github.com/org/x", result.GithubRepo)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	require.Len(t, parts, 2)
	assert.Equal(t, "resume", parts[0].name)
	assert.Equal(t, "resume.txt", parts[0].fileName)
	assert.Equal(t, "text/plain", parts[0].contentType)
	assert.Equal(t, req.Resume, parts[0].body)
	assert.Equal(t, "job_description", parts[1].name)
	assert.Equal(t, "text/plain", parts[1].contentType)
	assert.Equal(t, req.JobDescription, parts[1].body)
	for _, p := range parts {
		assert.NotContains(t, p.body, req.CandidateEmail)
	}
}

func TestChallengeService_ErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"json error field", http.StatusInternalServerError, `{"error":"quota exceeded"}`, 500, "quota exceeded"},
		{"non json body", http.StatusBadGateway, `upstream down`, 502, "challenge service error: 502 Bad Gateway"},
		{"json without error", http.StatusBadRequest, `{"detail":"nope"}`, 400, "challenge service error: 400 Bad Request"},
		{"error not a string", http.StatusTooManyRequests, `{"error":{"code":1}}`, 429, "challenge service error: 429 Too Many Requests"},
		{"missing githubRepo", http.StatusOK, `{"challengeLink":"https://vscode.dev/x"}`, 200, "challenge service returned a malformed response"},
		{"link not a url", http.StatusOK, `{"challengeLink":"nope","githubRepo":"https://github.com/org/x"}`, 200, "challenge service returned a malformed response"},
		{"not json", http.StatusOK, `<html></html>`, 200, "challenge service returned a malformed response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewChallengeServiceWithURL(srv.URL, 5*time.Second).Generate(context.Background(), testChallengeRequest())
			var gerr *GenerationError
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, tt.wantStatus, gerr.StatusCode)
			assert.Equal(t, tt.wantMsg, gerr.Error())
			assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "no retry")
		})
	}
}

func TestChallengeService_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewChallengeServiceWithURL(url, time.Second).Generate(context.Background(), testChallengeRequest())
	var gerr *GenerationError
	require.True(t, errors.As(err, &gerr))
	assert.Zero(t, gerr.StatusCode)
	assert.Error(t, gerr.Unwrap())
}

func TestChallengeService_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewChallengeServiceWithURL(srv.URL, 50*time.Millisecond).Generate(context.Background(), testChallengeRequest())
	var gerr *GenerationError
	assert.True(t, errors.As(err, &gerr))
}
