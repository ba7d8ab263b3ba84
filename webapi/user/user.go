// Package user exposes user registration and lookup over HTTP.
package user

import (
	"github.com/amirasaad/donation/pkg/config"
	"github.com/amirasaad/donation/pkg/middleware"
	authsvc "github.com/amirasaad/donation/pkg/service/auth"
	usersvc "github.com/amirasaad/donation/pkg/service/user"
	"github.com/amirasaad/donation/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func Routes(app *fiber.App, userSvc *usersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Get("/user/:id", middleware.JwtProtected(cfg.Auth.Jwt), GetUser(userSvc, authSvc))
	app.Post("/user", CreateUser(userSvc))
}

// GetUser returns the caller's own user record.
func GetUser(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", nil, "User ID must be a valid UUID", fiber.StatusBadRequest)
		}
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing user context", fiber.StatusUnauthorized)
		}
		callerID, err := authSvc.GetCurrentUserId(token)
		if err != nil || callerID != id {
			// Generic error to prevent user enumeration
			return common.ProblemDetailsJSON(c, "Invalid credentials", nil, fiber.StatusUnauthorized)
		}
		u, err := userSvc.GetUser(c.UserContext(), id)
		if err != nil || u == nil {
			return common.ProblemDetailsJSON(c, "Invalid credentials", nil, fiber.StatusUnauthorized)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", u)
	}
}

// CreateUser creates a new user account.
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[NewUser](c)
		if input == nil {
			return err // error response already written
		}
		u, err := userSvc.CreateUser(c.UserContext(), input.Username, input.Email, input.Password)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't create user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Created user", u)
	}
}
