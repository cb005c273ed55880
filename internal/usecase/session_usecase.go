package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"github.com/codealchemist/recruiter-dashboard/internal/repository"
	"github.com/codealchemist/recruiter-dashboard/internal/service"
)

type SessionUsecase struct {
	identity  service.IdentityServiceInterface
	userRepo  *repository.UserRepository
	expiresIn time.Duration
	now       func() time.Time
}

func NewSessionUsecase(identity service.IdentityServiceInterface, userRepo *repository.UserRepository, expiresIn time.Duration) *SessionUsecase {
	return &SessionUsecase{identity: identity, userRepo: userRepo, expiresIn: expiresIn, now: time.Now}
}

// SetSession exchanges a fresh ID token for a session credential and makes sure
// the signed in uid has a profile, pending approval when it is new.
func (uc *SessionUsecase) SetSession(ctx context.Context, idToken string) (*model.Session, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, &SessionError{Err: service.ErrInvalidIDToken}
	}

	value, expiresAt, err := uc.identity.CreateSessionCookie(ctx, idToken, uc.expiresIn)
	if err != nil {
		return nil, &SessionError{Err: err}
	}

	claims, err := uc.identity.VerifySessionCookie(ctx, value)
	if err != nil {
		return nil, &SessionError{Err: err}
	}
	inserted, err := uc.userRepo.CreateUserIfMissing(ctx, &model.User{
		UID:       claims.UID,
		Email:     claims.Email,
		Name:      claims.Name,
		Status:    model.UserStatusPending,
		Role:      model.UserRoleUnassigned,
		CreatedAt: uc.now(),
	})
	if err != nil {
		return nil, &SessionError{Err: err}
	}
	if inserted {
		log.Printf("Registered pending user %s", claims.UID)
	}

	return &model.Session{Value: value, ExpiresAt: expiresAt, MaxAge: uc.expiresIn}, nil
}

func (uc *SessionUsecase) VerifySession(ctx context.Context, value string) (*model.SessionClaims, error) {
	if value == "" {
		return nil, service.ErrInvalidSession
	}
	return uc.identity.VerifySessionCookie(ctx, value)
}

func (uc *SessionUsecase) CurrentUser(ctx context.Context, claims *model.SessionClaims) (*model.User, error) {
	return uc.userRepo.FindUserByUID(ctx, claims.UID)
}
