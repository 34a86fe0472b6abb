package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saralopezbz/iris-predictor/internal/usecase"
)

// Fixed client-facing messages
const (
	MessageInternalError    = "internal server error"
	MessageNotFound         = "endpoint not found"
	MessageMethodNotAllowed = "method not allowed for this endpoint"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Message    string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// Client errors carry their own message; anything else becomes an opaque 500.
func MapUsecaseError(err error) ErrorResponse {
	var vErr *usecase.ValidationError
	switch {
	case errors.As(err, &vErr):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    vErr.Message,
		}
	case errors.Is(err, usecase.ErrUnsupportedContentType):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    usecase.ErrUnsupportedContentType.Error(),
		}
	case errors.Is(err, usecase.ErrInvalidBody):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    usecase.ErrInvalidBody.Error(),
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Message:    MessageInternalError,
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
// The full error is attached to the context for the access log.
func HandleUsecaseError(c *gin.Context, err error) {
	_ = c.Error(err)
	errResp := MapUsecaseError(err)
	respondError(c, errResp.StatusCode, errResp.Message)
}

// NotFound handles requests to unknown routes
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorBody{
		Error:              MessageNotFound,
		AvailableEndpoints: AvailableEndpoints,
	})
}

// MethodNotAllowed handles known routes called with the wrong method
func MethodNotAllowed(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, MessageMethodNotAllowed)
}
