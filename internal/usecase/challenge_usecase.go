package usecase

import (
	"context"
	"log"
	"time"

	"github.com/codealchemist/recruiter-dashboard/internal/dto"
	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"github.com/codealchemist/recruiter-dashboard/internal/repository"
	"github.com/codealchemist/recruiter-dashboard/internal/service"
	"github.com/codealchemist/recruiter-dashboard/internal/validation"
	"github.com/google/uuid"
)

type ChallengeUsecase struct {
	challengeRepo *repository.ChallengeRepository
	generator     service.ChallengeServiceInterface
	now           func() time.Time
}

func NewChallengeUsecase(challengeRepo *repository.ChallengeRepository, generator service.ChallengeServiceInterface) *ChallengeUsecase {
	return &ChallengeUsecase{challengeRepo: challengeRepo, generator: generator, now: time.Now}
}

// CreateChallenge validates, generates, then records. The steps run strictly in
// that order and a failed step stops the rest. When only recording fails the
// generated result is returned together with a *PersistenceError.
func (uc *ChallengeUsecase) CreateChallenge(ctx context.Context, input dto.ChallengeRequest) (*dto.ChallengeResult, error) {
	req, err := validation.ValidateChallengeRequest(input)
	if err != nil {
		return nil, err
	}

	result, err := uc.generator.Generate(ctx, req)
	if err != nil {
		log.Printf("Challenge generation failed for %s: %v", req.CandidateEmail, err)
		return nil, err
	}

	if err := uc.Persist(ctx, req.CandidateName, req.CandidateEmail, req.JobTitle, *result); err != nil {
		log.Printf("Error adding challenge document for %s: %v", req.CandidateEmail, err)
		return result, &PersistenceError{Result: *result, Err: err}
	}
	return result, nil
}

func (uc *ChallengeUsecase) Persist(ctx context.Context, candidateName, candidateEmail, jobTitle string, result dto.ChallengeResult) error {
	return uc.challengeRepo.CreateChallenge(ctx, &model.Challenge{
		CandidateName:  candidateName,
		CandidateEmail: candidateEmail,
		JobTitle:       jobTitle,
		ChallengeLink:  result.ChallengeLink,
		GithubRepo:     result.GithubRepo,
		Status:         model.ChallengeStatusPending,
		CreatedAt:      uc.now(),
	})
}

func (uc *ChallengeUsecase) ListChallenges(ctx context.Context, page, pageSize int) ([]model.Challenge, int64, error) {
	return uc.challengeRepo.GetChallenges(ctx, (page-1)*pageSize, pageSize)
}

// GetChallenge looks up one record. Malformed ids are reported as not found.
func (uc *ChallengeUsecase) GetChallenge(ctx context.Context, id string) (*model.Challenge, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrChallengeNotFound
	}
	return uc.challengeRepo.FindChallengeByID(ctx, id)
}
