package handler

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codealchemist/recruiter-dashboard/internal/dto"
	"github.com/codealchemist/recruiter-dashboard/internal/middleware"
	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"github.com/codealchemist/recruiter-dashboard/internal/repository"
	"github.com/codealchemist/recruiter-dashboard/internal/response"
	"github.com/codealchemist/recruiter-dashboard/internal/service"
	"github.com/codealchemist/recruiter-dashboard/internal/usecase"
	"github.com/codealchemist/recruiter-dashboard/internal/util"
	"github.com/codealchemist/recruiter-dashboard/internal/validation"
	"github.com/gofiber/fiber/v2"
)

const maxUploadSize = 5 * 1024 * 1024

type ChallengeHandler struct {
	uc *usecase.ChallengeUsecase
}

func NewChallengeHandler(uc *usecase.ChallengeUsecase) *ChallengeHandler {
	return &ChallengeHandler{uc: uc}
}

func (h *ChallengeHandler) RegisterRoutes(router fiber.Router, auth ...fiber.Handler) {
	group := router.Group("/challenges", auth...)
	group.Post("/", middleware.RateLimiter(5, time.Minute), h.CreateChallenge)
	group.Get("/", h.ListChallenges)
	group.Get("/:id", h.GetChallenge)
}

func (h *ChallengeHandler) CreateChallenge(c *fiber.Ctx) error {
	var req dto.ChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid form data.",
		}, err)
	}

	if isMultipart(c) {
		if err := h.readUploads(c, &req); err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: err.Error(),
			}, err)
		}
	}

	result, err := h.uc.CreateChallenge(c.UserContext(), req)
	if err != nil {
		return challengeErrorResponse(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Challenge generated successfully",
		Data:    result,
	})
}

func challengeErrorResponse(c *fiber.Ctx, err error) error {
	var (
		verr *validation.ValidationError
		gerr *service.GenerationError
		perr *usecase.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnprocessableEntity,
			Message: "Invalid form data.",
			Details: verr.Errors,
		})
	case errors.As(err, &gerr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadGateway,
			Message: gerr.Message,
		}, err)
	case errors.As(err, &perr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusInternalServerError,
			Message: "Could not save challenge to database.",
			Details: perr.Result,
		}, err)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to create challenge",
		}, err)
	}
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// readUploads lets resume_file / job_description_file stand in for the text fields.
func (h *ChallengeHandler) readUploads(c *fiber.Ctx, req *dto.ChallengeRequest) error {
	resume, err := h.processFile(c, "resume_file")
	if err != nil {
		return err
	}
	if resume != "" {
		req.Resume = resume
	}

	jd, err := h.processFile(c, "job_description_file")
	if err != nil {
		return err
	}
	if jd != "" {
		req.JobDescription = jd
	}
	return nil
}

// processFile returns "" when the field was not uploaded.
func (h *ChallengeHandler) processFile(c *fiber.Ctx, fieldName string) (string, error) {
	file, err := c.FormFile(fieldName)
	if err != nil {
		return "", nil
	}
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("%s file size is too large (max 5MB)", fieldName)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" && ext != ".txt" {
		return "", fmt.Errorf("unsupported %s file type", fieldName)
	}

	dir, err := os.MkdirTemp("", "challenge-upload-*")
	if err != nil {
		return "", fmt.Errorf("cannot save %s file", fieldName)
	}
	defer os.RemoveAll(dir)

	savePath := filepath.Join(dir, fieldName+ext)
	if err := c.SaveFile(file, savePath); err != nil {
		return "", fmt.Errorf("cannot save %s file", fieldName)
	}

	content, err := util.ExtractText(savePath)
	if err != nil {
		log.Printf("Failed to extract %s: %v", fieldName, err)
		return "", fmt.Errorf("failed to extract %s text", fieldName)
	}
	return content, nil
}

func (h *ChallengeHandler) ListChallenges(c *fiber.Ctx) error {
	page, pageSize := util.PageParams(c)
	challenges, total, err := h.uc.ListChallenges(c.UserContext(), page, pageSize)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list challenges",
		}, err)
	}

	data := make([]dto.ChallengeDTO, len(challenges))
	for i, ch := range challenges {
		data[i] = toChallengeDTO(ch)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get challenges",
		Data:       data,
		Pagination: response.NewPagination(page, pageSize, total, len(data)),
	})
}

func (h *ChallengeHandler) GetChallenge(c *fiber.Ctx) error {
	ch, err := h.uc.GetChallenge(c.UserContext(), c.Params("id"))
	if errors.Is(err, repository.ErrChallengeNotFound) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "Challenge not found.",
		})
	}
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to get challenge",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get challenge",
		Data:    toChallengeDTO(*ch),
	})
}

func toChallengeDTO(ch model.Challenge) dto.ChallengeDTO {
	return dto.ChallengeDTO{
		ID:             ch.ID,
		CandidateName:  ch.CandidateName,
		CandidateEmail: ch.CandidateEmail,
		JobTitle:       ch.JobTitle,
		ChallengeLink:  ch.ChallengeLink,
		GithubRepo:     ch.GithubRepo,
		Status:         string(ch.Status),
		CreatedAt:      ch.CreatedAt,
	}
}
