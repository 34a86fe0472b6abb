package handler

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
)

// AvailableEndpoints lists the public API advertised on unknown routes
var AvailableEndpoints = []string{"/", "/predict"}

// ErrorBody represents the error response structure
type ErrorBody struct {
	Error              string   `json:"error"`
	AvailableEndpoints []string `json:"available_endpoints,omitempty"`
}

// respondSuccess encodes data before committing the status, so an encoding
// failure leaves the response unwritten for the caller to report.
func respondSuccess(c *gin.Context, status int, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	c.Data(status, "application/json; charset=utf-8", payload)
	return nil
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}
