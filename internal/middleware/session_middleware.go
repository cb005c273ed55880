package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/codealchemist/recruiter-dashboard/internal/config"
	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"github.com/codealchemist/recruiter-dashboard/internal/repository"
	"github.com/codealchemist/recruiter-dashboard/internal/util"
	"github.com/gofiber/fiber/v2"
)

type SessionVerifier interface {
	VerifySession(ctx context.Context, value string) (*model.SessionClaims, error)
	CurrentUser(ctx context.Context, claims *model.SessionClaims) (*model.User, error)
}

const userLocalsKey = "currentUser"

// SetSessionCookie writes the credential as an http-only cookie.
func SetSessionCookie(c *fiber.Ctx, s *model.Session, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     config.SessionCookieName,
		Value:    s.Value,
		Path:     "/",
		MaxAge:   int(s.MaxAge / time.Second),
		Expires:  s.ExpiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie expires the cookie whether or not one was sent.
func ClearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     config.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// RequireSession verifies the session cookie and puts its claims on the request context.
func RequireSession(verifier SessionVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value := c.Cookies(config.SessionCookieName)
		if value == "" {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "authentication required",
			})
		}
		claims, err := verifier.VerifySession(c.UserContext(), value)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "session is invalid or expired",
			}, err)
		}
		c.SetUserContext(model.ContextWithSession(c.UserContext(), claims))
		return c.Next()
	}
}

// RequireActiveUser lets through only sessions whose profile has been approved.
// It must run after RequireSession.
func RequireActiveUser(verifier SessionVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := model.SessionFromContext(c.UserContext())
		if !ok {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "authentication required",
			})
		}
		user, err := verifier.CurrentUser(c.UserContext(), claims)
		if errors.Is(err, repository.ErrUserNotFound) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusForbidden,
				Message: "no profile for this account",
			})
		}
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Message: "failed to load profile",
			}, err)
		}
		if !user.IsActive() {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusForbidden,
				Message: "account is awaiting approval",
			})
		}
		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) (*model.User, bool) {
	u, ok := c.Locals(userLocalsKey).(*model.User)
	return u, ok
}
