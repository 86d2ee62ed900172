// Package response writes the JSON envelope every API route answers with.
package response

import (
	"github.com/gofiber/fiber/v2"
)

// SuccessBody wraps a successful payload.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody wraps a failure.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details,omitempty"`
}

// Page is the metadata attached to paginated list responses.
type Page struct {
	Total int64 `json:"total"`
	Take  int   `json:"take,omitempty"`
	Skip  int   `json:"skip,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Success answers 200 with data.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return success(c, fiber.StatusOK, message, data, metadata)
}

// SuccessCreated answers 201 with the created resource.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return success(c, fiber.StatusCreated, message, data, metadata)
}

// List answers 200 with one page of results and its Page metadata.
func List(c *fiber.Ctx, message string, data interface{}, page Page) error {
	return success(c, fiber.StatusOK, message, data, page)
}

// Error answers statusCode with the error envelope.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	if details == nil {
		details = fiber.Map{}
	}
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: statusCode,
			Details:    details,
		},
	})
}

func success(c *fiber.Ctx, status int, message string, data, metadata interface{}) error {
	if metadata == nil {
		metadata = fiber.Map{}
	}
	return c.Status(status).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}
