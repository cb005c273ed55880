package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"github.com/codealchemist/recruiter-dashboard/internal/repository"
	"github.com/codealchemist/recruiter-dashboard/internal/service"
)

type UserUsecase struct {
	userRepo *repository.UserRepository
	mailer   service.MailServiceInterface
}

func NewUserUsecase(userRepo *repository.UserRepository, mailer service.MailServiceInterface) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, mailer: mailer}
}

func (uc *UserUsecase) GetAllUsers(ctx context.Context, page, pageSize int) ([]model.User, int64, error) {
	return uc.userRepo.GetUsers(ctx, (page-1)*pageSize, pageSize)
}

// ApproveUser moves a user to active/user and mails them. Approving an active
// user writes the same values again and mails again, so a failed mail can be
// retried. A mail failure does not undo the status change.
func (uc *UserUsecase) ApproveUser(ctx context.Context, uid string) error {
	user, err := uc.userRepo.FindUserByUID(ctx, uid)
	if errors.Is(err, repository.ErrUserNotFound) {
		return &ApprovalError{Kind: ApprovalNotFound, Err: err}
	}
	if err != nil {
		log.Printf("Error approving user %s: %v", uid, err)
		return &ApprovalError{Kind: ApprovalUnexpected, Err: err}
	}

	err = uc.userRepo.UpdateStatusRole(ctx, uid, model.UserStatusActive, model.UserRoleUser)
	if errors.Is(err, repository.ErrUserNotFound) {
		return &ApprovalError{Kind: ApprovalNotFound, Err: err}
	}
	if err != nil {
		log.Printf("Error approving user %s: %v", uid, err)
		return &ApprovalError{Kind: ApprovalUnexpected, Err: err}
	}

	if err := uc.mailer.SendApprovalConfirmation(ctx, user.Email, user.Name); err != nil {
		log.Printf("User %s approved but confirmation email failed: %v", uid, err)
		return &ApprovalError{Kind: ApprovalUnexpected, Committed: true, Err: err}
	}
	return nil
}
