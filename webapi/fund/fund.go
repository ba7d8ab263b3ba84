// Package fund exposes fund administration and progress over HTTP.
package fund

import (
	"github.com/amirasaad/donation/pkg/config"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/amirasaad/donation/pkg/middleware"
	fundsvc "github.com/amirasaad/donation/pkg/service/fund"
	"github.com/amirasaad/donation/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the fund endpoints. Only the active fund progress is public.
func Routes(app *fiber.App, fundSvc *fundsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/funds/active", Active(fundSvc))
	app.Get("/funds", protected, List(fundSvc))
	app.Get("/funds/:id", protected, Get(fundSvc))
	app.Post("/funds", protected, Create(fundSvc))
	app.Patch("/funds/:id", protected, Update(fundSvc))
	app.Post("/funds/:id/activate", protected, Activate(fundSvc))
	app.Delete("/funds/:id", protected, Delete(fundSvc))
}

// parseID reports false after writing the error response.
func parseID(c *fiber.Ctx) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false, common.ProblemDetailsJSON(c, "Invalid fund ID", nil, "Fund ID must be a valid UUID", fiber.StatusBadRequest)
	}
	return id, true, nil
}

// Active returns the progress of the fund currently accepting donations.
func Active(fundSvc *fundsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := fundSvc.Active(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "No active fund", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Active fund", p)
	}
}

func List(fundSvc *fundsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		funds, err := fundSvc.List(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list funds", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Funds fetched", funds)
	}
}

func Get(fundSvc *fundsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		f, err := fundSvc.Get(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Fund not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Fund fetched", f)
	}
}

// Create opens a pending fund.
func Create(fundSvc *fundsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[dto.FundCreate](c)
		if input == nil {
			return err
		}
		f, err := fundSvc.Create(c.UserContext(), *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't create fund", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Fund created", f)
	}
}

// Update changes the administrative fields of a fund. The amount and status
// cannot be set here.
func Update(fundSvc *fundsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[dto.FundUpdate](c)
		if input == nil {
			return err
		}
		f, err := fundSvc.Update(c.UserContext(), id, *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't update fund", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Fund updated", f)
	}
}

// Activate makes the fund the one receiving donations.
func Activate(fundSvc *fundsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		f, err := fundSvc.Activate(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't activate fund", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Fund activated", f)
	}
}

// Delete removes a fund that never received money.
func Delete(fundSvc *fundsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		if err := fundSvc.Delete(c.UserContext(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't delete fund", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Fund deleted", nil)
	}
}
