package dto

import (
	"time"

	"github.com/google/uuid"
)

// ChallengeRequest is the raw create-challenge form. It lives for one submission.
type ChallengeRequest struct {
	CandidateName  string `json:"candidateName" form:"candidateName"`
	CandidateEmail string `json:"candidateEmail" form:"candidateEmail"`
	JobTitle       string `json:"jobTitle" form:"jobTitle"`
	Resume         string `json:"resume" form:"resume"`
	JobDescription string `json:"jobDescription" form:"jobDescription"`
}

type ChallengeResult struct {
	ChallengeLink string `json:"challengeLink"`
	GithubRepo    string `json:"githubRepo"`
}

type ChallengeDTO struct {
	ID             uuid.UUID `json:"id"`
	CandidateName  string    `json:"candidateName"`
	CandidateEmail string    `json:"candidateEmail"`
	JobTitle       string    `json:"jobTitle"`
	ChallengeLink  string    `json:"challengeLink"`
	GithubRepo     string    `json:"githubRepo"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}
