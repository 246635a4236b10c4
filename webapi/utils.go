package webapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sgbank/account-ledger/pkg/domain"
)

// Response is the envelope for success responses.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

var validate = validator.New()

// SuccessResponseJSON writes a success envelope with the given status.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemJSON writes an RFC 9457 body with the given status.
func ProblemJSON(c *fiber.Ctx, status int, title, detail string) error {
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(status).JSON(ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
	})
}

// DomainProblemJSON maps a domain error to its status code and writes the
// problem body.
func DomainProblemJSON(c *fiber.Ctx, title string, err error) error {
	return ProblemJSON(c, ErrorToStatusCode(err), title, err.Error())
}

// ErrorToStatusCode maps the domain error taxonomy to HTTP status codes.
// This is the only place protocol codes are decided; the core never sees
// them.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body into T and validates it. On
// failure the error response is already written and nil is returned.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := validate.Struct(input); err != nil {
		return nil, ProblemJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}
