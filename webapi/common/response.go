// Package common holds the response helpers shared by the HTTP routes.
package common

import (
	"errors"
	"reflect"
	"strings"

	"github.com/amirasaad/donation/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProblemContentType is the media type of error responses.
const ProblemContentType = "application/problem+json"

// internalDetail replaces the message of internal errors so storage details
// never reach the caller.
const internalDetail = "An unexpected error occurred. Please try again later."

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Kind is the error classification, e.g. invalid_input or no_active_fund.
	Kind   domain.Kind `json:"kind,omitempty"`
	Errors any         `json:"errors,omitempty"`
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// SuccessResponseJSON writes a Response envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemDetailsJSON writes an RFC 9457 error response. The optional args are
// a string detail and an int status; without a status, err is classified with
// ErrorToStatusCode. Internal errors are reported with a generic detail.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	status := 0
	detail := ""
	var extra any
	for _, arg := range args {
		switch v := arg.(type) {
		case int:
			status = v
		case string:
			detail = v
		default:
			extra = v
		}
	}

	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Instance: c.OriginalURL(),
		Errors:   extra,
	}
	if err != nil {
		pd.Kind = domain.KindOf(err)
		if status == 0 {
			status = ErrorToStatusCode(err)
		}
		if detail == "" {
			if pd.Kind == domain.KindInternal {
				detail = internalDetail
			} else {
				detail = err.Error()
			}
		}
	}
	if status == 0 {
		status = fiber.StatusBadRequest
	}
	pd.Status = status
	pd.Detail = detail
	return c.Status(status).JSON(pd, ProblemContentType)
}

// ErrorToStatusCode maps error kinds to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidInput, domain.KindNoActiveFund:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", nil, err.Error(), fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return nil, ProblemDetailsJSON(c, "Validation failed", nil, err.Error(), fields, fiber.StatusBadRequest)
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", nil, err.Error(), fiber.StatusBadRequest)
	}
	return &input, nil
}
