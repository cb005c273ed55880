package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/codealchemist/recruiter-dashboard/internal/dto"
	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"github.com/codealchemist/recruiter-dashboard/internal/repository"
	"github.com/codealchemist/recruiter-dashboard/internal/service"
	"github.com/codealchemist/recruiter-dashboard/internal/validation"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "open sqlite memory db")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models...), "automigrate")
	return db
}

type fakeGenerator struct {
	calls  int
	got    dto.ChallengeRequest
	result *dto.ChallengeResult
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, req dto.ChallengeRequest) (*dto.ChallengeResult, error) {
	f.calls++
	f.got = req
	return f.result, f.err
}

type sentMail struct {
	email string
	name  string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendApprovalConfirmation(ctx context.Context, email, name string) error {
	f.sent = append(f.sent, sentMail{email, name})
	return f.err
}

func validChallengeRequest() dto.ChallengeRequest {
	return dto.ChallengeRequest{
		CandidateName:  "Jo Ann",
		CandidateEmail: "jo@x.com",
		JobTitle:       "QA",
		Resume:         strings.Repeat("r", 120),
		JobDescription: strings.Repeat("j", 150),
	}
}

func TestCreateChallenge_PersistsPendingRecordMatchingResult(t *testing.T) {
	db := newTestDB(t, &model.Challenge{})
	gen := &fakeGenerator{result: &dto.ChallengeResult{ChallengeLink: "https://vscode.dev/x", GithubRepo: "https://github.com/org/x"}}
	uc := NewChallengeUsecase(repository.NewChallengeRepository(db), gen)

	result, err := uc.CreateChallenge(context.Background(), validChallengeRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)

	records, total, err := uc.ListChallenges(context.Background(), 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	rec := records[0]
	assert.Equal(t, result.ChallengeLink, rec.ChallengeLink)
	assert.Equal(t, result.GithubRepo, rec.GithubRepo)
	assert.Equal(t, model.ChallengeStatusPending, rec.Status)
	assert.Equal(t, "Jo Ann", rec.CandidateName)
	assert.Equal(t, "jo@x.com", rec.CandidateEmail)
	assert.Equal(t, "QA", rec.JobTitle)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestCreateChallenge_InvalidInputNeverCallsGenerator(t *testing.T) {
	db := newTestDB(t, &model.Challenge{})
	gen := &fakeGenerator{}
	uc := NewChallengeUsecase(repository.NewChallengeRepository(db), gen)

	in := validChallengeRequest()
	in.Resume = "too short"
	_, err := uc.CreateChallenge(context.Background(), in)

	var verr *validation.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 0, gen.calls)
}

func TestCreateChallenge_GenerationFailureSkipsPersist(t *testing.T) {
	db := newTestDB(t, &model.Challenge{})
	gen := &fakeGenerator{err: &service.GenerationError{StatusCode: 500, Message: "quota exceeded"}}
	uc := NewChallengeUsecase(repository.NewChallengeRepository(db), gen)

	result, err := uc.CreateChallenge(context.Background(), validChallengeRequest())
	assert.Nil(t, result)
	require.EqualError(t, err, "quota exceeded")

	var count int64
	require.NoError(t, db.Model(&model.Challenge{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateChallenge_PersistFailureKeepsResult(t *testing.T) {
	// no challenges table, so the insert fails
	db := newTestDB(t, &model.User{})
	gen := &fakeGenerator{result: &dto.ChallengeResult{ChallengeLink: "https://vscode.dev/x", GithubRepo: "https://github.com/org/x"}}
	uc := NewChallengeUsecase(repository.NewChallengeRepository(db), gen)

	result, err := uc.CreateChallenge(context.Background(), validChallengeRequest())
	require.Error(t, err)

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	var gerr *service.GenerationError
	assert.False(t, errors.As(err, &gerr))
	require.NotNil(t, result)
	assert.Equal(t, "https://vscode.dev/x", perr.Result.ChallengeLink)
	assert.Equal(t, *result, perr.Result)
	assert.Equal(t, 1, gen.calls)
}

func seedUser(t *testing.T, repo *repository.UserRepository, u model.User) {
	t.Helper()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := repo.CreateUserIfMissing(context.Background(), &u)
	require.NoError(t, err)
}

func TestApproveUser_PendingBecomesActive(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t, &model.User{}))
	seedUser(t, repo, model.User{UID: "u1", Email: "u1@x.com", Name: "User One", Status: model.UserStatusPending, Role: model.UserRoleUnassigned})
	mailer := &fakeMailer{}
	uc := NewUserUsecase(repo, mailer)

	require.NoError(t, uc.ApproveUser(context.Background(), "u1"))

	u, err := repo.FindUserByUID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, u.Status)
	assert.Equal(t, model.UserRoleUser, u.Role)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, sentMail{"u1@x.com", "User One"}, mailer.sent[0])
}

func TestApproveUser_NotFound(t *testing.T) {
	db := newTestDB(t, &model.User{})
	repo := repository.NewUserRepository(db)
	seedUser(t, repo, model.User{UID: "u2", Status: model.UserStatusPending, Role: model.UserRoleUnassigned})
	mailer := &fakeMailer{}
	uc := NewUserUsecase(repo, mailer)

	err := uc.ApproveUser(context.Background(), "missing")
	var aerr *ApprovalError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, ApprovalNotFound, aerr.Kind)
	assert.False(t, aerr.Committed)
	assert.Empty(t, mailer.sent)

	u, err := repo.FindUserByUID(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusPending, u.Status)
	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApproveUser_IsIdempotent(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t, &model.User{}))
	seedUser(t, repo, model.User{UID: "u1", Email: "u1@x.com", Status: model.UserStatusPending, Role: model.UserRoleUnassigned})
	uc := NewUserUsecase(repo, &fakeMailer{})

	require.NoError(t, uc.ApproveUser(context.Background(), "u1"))
	require.NoError(t, uc.ApproveUser(context.Background(), "u1"))

	u, err := repo.FindUserByUID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, u.Status)
	assert.Equal(t, model.UserRoleUser, u.Role)
}

func TestApproveUser_MailFailureKeepsApproval(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t, &model.User{}))
	seedUser(t, repo, model.User{UID: "u1", Email: "u1@x.com", Status: model.UserStatusPending, Role: model.UserRoleUnassigned})
	uc := NewUserUsecase(repo, &fakeMailer{err: errors.New("smtp down")})

	err := uc.ApproveUser(context.Background(), "u1")
	var aerr *ApprovalError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, ApprovalUnexpected, aerr.Kind)
	assert.True(t, aerr.Committed)
	assert.Equal(t, "An unexpected error occurred during approval.", aerr.Error())

	u, err := repo.FindUserByUID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, u.Status)
}

func TestGetAllUsers_NewestFirst(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t, &model.User{}))
	now := time.Now()
	seedUser(t, repo, model.User{UID: "old", Status: model.UserStatusActive, CreatedAt: now.Add(-time.Hour)})
	seedUser(t, repo, model.User{UID: "new", Status: model.UserStatusPending, CreatedAt: now})
	uc := NewUserUsecase(repo, &fakeMailer{})

	users, total, err := uc.GetAllUsers(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "new", users[0].UID)
	assert.Equal(t, "old", users[1].UID)
}

func TestSetSession_RegistersPendingProfile(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t, &model.User{}))
	identity, err := service.NewTestIdentityService()
	require.NoError(t, err)
	uc := NewSessionUsecase(identity, repo, 5*24*time.Hour)

	idToken, err := service.SignTestIDToken("u9", "u9@x.com", "Nine", time.Now())
	require.NoError(t, err)

	sess, err := uc.SetSession(context.Background(), idToken)
	require.NoError(t, err)
	assert.Equal(t, 5*24*time.Hour, sess.MaxAge)
	assert.NotEmpty(t, sess.Value)

	claims, err := uc.VerifySession(context.Background(), sess.Value)
	require.NoError(t, err)
	assert.Equal(t, "u9", claims.UID)

	u, err := uc.CurrentUser(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusPending, u.Status)
	assert.Equal(t, model.UserRoleUnassigned, u.Role)
	assert.Equal(t, "u9@x.com", u.Email)
}

func TestSetSession_BadTokenSetsNothing(t *testing.T) {
	db := newTestDB(t, &model.User{})
	identity, err := service.NewTestIdentityService()
	require.NoError(t, err)
	uc := NewSessionUsecase(identity, repository.NewUserRepository(db), time.Hour)

	for _, tok := range []string{"", "garbage"} {
		sess, err := uc.SetSession(context.Background(), tok)
		assert.Nil(t, sess)
		var serr *SessionError
		assert.True(t, errors.As(err, &serr))
	}

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
