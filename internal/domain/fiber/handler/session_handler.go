package handler

import (
	"errors"
	"log"

	"github.com/codealchemist/recruiter-dashboard/internal/dto"
	"github.com/codealchemist/recruiter-dashboard/internal/middleware"
	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"github.com/codealchemist/recruiter-dashboard/internal/repository"
	"github.com/codealchemist/recruiter-dashboard/internal/service"
	"github.com/codealchemist/recruiter-dashboard/internal/usecase"
	"github.com/codealchemist/recruiter-dashboard/internal/util"
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	uc     *usecase.SessionUsecase
	secure bool
}

func NewSessionHandler(uc *usecase.SessionUsecase, secure bool) *SessionHandler {
	return &SessionHandler{uc: uc, secure: secure}
}

func (h *SessionHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/session", h.SetSession)
	router.Delete("/session", h.ClearSession)
	router.Get("/session", middleware.RequireSession(h.uc), h.GetSession)
}

func (h *SessionHandler) SetSession(c *fiber.Ctx) error {
	var req dto.SetSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "idToken is required",
		}, err)
	}

	session, err := h.uc.SetSession(c.UserContext(), req.IDToken)
	if err != nil {
		var serr *usecase.SessionError
		if errors.As(err, &serr) && !isIdentityFailure(serr.Err) {
			log.Printf("Failed to set session: %v", err)
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Message: "failed to create session",
			}, err)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnauthorized,
			Message: sessionFailureMessage(err),
		}, err)
	}

	middleware.SetSessionCookie(c, session, h.secure)
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Session created",
		Data:    fiber.Map{"expiresAt": session.ExpiresAt},
	})
}

func isIdentityFailure(err error) bool {
	return errors.Is(err, service.ErrInvalidIDToken) ||
		errors.Is(err, service.ErrRecentSignInRequired) ||
		errors.Is(err, service.ErrInvalidSessionDuration) ||
		errors.Is(err, service.ErrInvalidSession)
}

func sessionFailureMessage(err error) string {
	if errors.Is(err, service.ErrRecentSignInRequired) {
		return "recent sign in required"
	}
	return "invalid ID token"
}

// ClearSession always succeeds, with or without a cookie on the request.
func (h *SessionHandler) ClearSession(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c, h.secure)
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Session cleared",
	})
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	claims, _ := model.SessionFromContext(c.UserContext())
	data := dto.SessionDTO{
		UID:       claims.UID,
		Email:     claims.Email,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt,
	}

	user, err := h.uc.CurrentUser(c.UserContext(), claims)
	switch {
	case err == nil:
		u := toUserDTO(*user)
		data.User = &u
	case !errors.Is(err, repository.ErrUserNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load profile",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get session",
		Data:    data,
	})
}
