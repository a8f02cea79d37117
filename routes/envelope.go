package routes

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried in the response envelope.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeBadRequest = "bad_request"
	CodeInternal   = "internal_error"
)

// APIError is the one error type handlers return. ErrorHandler reshapes it
// into the {success:false, error:{...}} envelope.
type APIError struct {
	Status  int      `json:"-"`
	Code    string   `json:"code,omitempty"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NotFound(message string) *APIError {
	return &APIError{Status: fiber.StatusNotFound, Code: CodeNotFound, Message: message}
}

func ValidationError(message string, details []string) *APIError {
	return &APIError{Status: fiber.StatusBadRequest, Code: CodeValidation, Message: message, Details: details}
}

func Conflict(message string) *APIError {
	return &APIError{Status: fiber.StatusConflict, Code: CodeConflict, Message: message}
}

func BadRequest(message string) *APIError {
	return &APIError{Status: fiber.StatusBadRequest, Code: CodeBadRequest, Message: message}
}

// ErrorHandler is the single error boundary: it logs the failure and answers
// with the fixed error envelope. Anything that is not an APIError becomes a
// 500 internal_error without leaking the cause to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			apiErr = &APIError{Status: fiberErr.Code, Code: CodeBadRequest, Message: fiberErr.Message}
			switch {
			case fiberErr.Code == fiber.StatusNotFound:
				apiErr.Code = CodeNotFound
			case fiberErr.Code >= fiber.StatusInternalServerError:
				apiErr.Code = CodeInternal
			}
		} else {
			log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
			apiErr = &APIError{
				Status:  fiber.StatusInternalServerError,
				Code:    CodeInternal,
				Message: "Internal server error",
			}
		}
	}

	return c.Status(apiErr.Status).JSON(fiber.Map{
		"success": false,
		"error":   apiErr,
	})
}

// respond writes the success envelope.
func respond(c *fiber.Ctx, status int, data interface{}, message string) error {
	body := fiber.Map{
		"success": true,
		"data":    data,
	}
	if message != "" {
		body["message"] = message
	}
	return c.Status(status).JSON(body)
}
