// Package donation exposes donation settlement and donation queries over HTTP.
package donation

import (
	"errors"
	"fmt"

	"github.com/amirasaad/donation/pkg/config"
	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/amirasaad/donation/pkg/middleware"
	authsvc "github.com/amirasaad/donation/pkg/service/auth"
	donationsvc "github.com/amirasaad/donation/pkg/service/donation"
	"github.com/amirasaad/donation/pkg/service/settlement"
	usersvc "github.com/amirasaad/donation/pkg/service/user"
	"github.com/amirasaad/donation/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Routes registers the donation endpoints.
func Routes(
	app *fiber.App,
	settleSvc *settlement.Service,
	donationSvc *donationsvc.Service,
	authSvc *authsvc.Service,
	userSvc *usersvc.Service,
	cfg *config.App,
) {
	app.Post("/donations/settle", middleware.OptionalJwt(cfg.Auth.Jwt), Settle(settleSvc, authSvc, userSvc))
	app.Get("/donations", middleware.JwtProtected(cfg.Auth.Jwt), List(donationSvc))
	app.Get("/donations/:transactionId", middleware.JwtProtected(cfg.Auth.Jwt), Get(donationSvc))
	app.Get("/payments/:transactionId", middleware.JwtProtected(cfg.Auth.Jwt), GetPayment(donationSvc))
}

// Settle records a verified payment as a donation to the active fund.
// A new settlement answers 201; a repeated transaction identifier answers 200
// with the records stored the first time. A token naming a user that no
// longer exists is refused before anything is written.
func Settle(settleSvc *settlement.Service, authSvc *authsvc.Service, userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SettleInput](c)
		if input == nil {
			return err
		}
		if input.Amount == nil {
			return common.ProblemDetailsJSON(c, "Invalid donation",
				fmt.Errorf("%w: amount is required", domain.ErrInvalidInput))
		}

		var userID *uuid.UUID
		if token, ok := c.Locals("user").(*jwt.Token); ok {
			id, err := authSvc.GetCurrentUserId(token)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Unauthorized", nil, "invalid user in token", fiber.StatusUnauthorized)
			}
			if _, err := userSvc.GetUser(c.UserContext(), id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return common.ProblemDetailsJSON(c, "Unauthorized", nil, "user in token does not exist", fiber.StatusUnauthorized)
				}
				return common.ProblemDetailsJSON(c, "Settlement failed", err)
			}
			userID = &id
		}

		res, err := settleSvc.Settle(c.UserContext(), settlement.Request{
			Amount:        *input.Amount,
			TransactionID: input.TransactionID,
			DonorName:     input.DonorName,
			Email:         input.Email,
			Phone:         input.Phone,
			Purpose:       input.Purpose,
			UserID:        userID,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Settlement failed", err)
		}
		if res.Replayed {
			return common.SuccessResponseJSON(c, fiber.StatusOK, "Donation already settled", res)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Donation settled", res)
	}
}

// List returns donations newest first, filtered by ?fundId= and ?purpose=.
func List(donationSvc *donationsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := dto.DonationFilter{
			Purpose:  c.Query("purpose"),
			Page:     c.QueryInt("page", 1),
			PageSize: c.QueryInt("pageSize", 20),
		}
		if raw := c.Query("fundId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid fund ID", nil, "fundId must be a valid UUID", fiber.StatusBadRequest)
			}
			filter.FundID = &id
		}
		page, err := donationSvc.List(c.UserContext(), filter)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list donations", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Donations fetched", page)
	}
}

// Get returns the donation and payment of one transaction.
func Get(donationSvc *donationsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		detail, err := donationSvc.Get(c.UserContext(), c.Params("transactionId"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Donation not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Donation fetched", detail)
	}
}

// GetPayment returns the payment of one transaction.
func GetPayment(donationSvc *donationsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := donationSvc.Payment(c.UserContext(), c.Params("transactionId"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Payment not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment fetched", p)
	}
}
