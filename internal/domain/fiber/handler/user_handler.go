package handler

import (
	"errors"
	"log"

	"github.com/codealchemist/recruiter-dashboard/internal/dto"
	"github.com/codealchemist/recruiter-dashboard/internal/middleware"
	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"github.com/codealchemist/recruiter-dashboard/internal/response"
	"github.com/codealchemist/recruiter-dashboard/internal/usecase"
	"github.com/codealchemist/recruiter-dashboard/internal/util"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(router fiber.Router, auth ...fiber.Handler) {
	group := router.Group("/users", auth...)
	group.Get("/", h.GetAllUsers)
	group.Post("/:uid/approve", h.ApproveUser)
}

func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	page, pageSize := util.PageParams(c)
	users, total, err := h.uc.GetAllUsers(c.UserContext(), page, pageSize)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list users",
		}, err)
	}

	data := make([]dto.UserDTO, len(users))
	for i, u := range users {
		data[i] = toUserDTO(u)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get users",
		Data:       data,
		Pagination: response.NewPagination(page, pageSize, total, len(data)),
	})
}

func (h *UserHandler) ApproveUser(c *fiber.Ctx) error {
	uid := c.Params("uid")
	err := h.uc.ApproveUser(c.UserContext(), uid)
	if approver, ok := middleware.CurrentUser(c); ok {
		log.Printf("Approval of %s requested by %s: err=%v", uid, approver.UID, err)
	}
	if err == nil {
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Message: "User approved",
			Data:    fiber.Map{"uid": uid, "approved": true},
		})
	}

	var aerr *usecase.ApprovalError
	if errors.As(err, &aerr) && aerr.Kind == usecase.ApprovalNotFound {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: aerr.Error(),
		})
	}
	committed := aerr != nil && aerr.Committed
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    fiber.StatusInternalServerError,
		Message: "An unexpected error occurred during approval.",
		Details: fiber.Map{"uid": uid, "approved": committed},
	}, err)
}

func toUserDTO(u model.User) dto.UserDTO {
	return dto.UserDTO{
		UID:       u.UID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    string(u.Status),
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
