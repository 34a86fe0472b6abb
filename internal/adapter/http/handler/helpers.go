package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saralopezbz/iris-predictor/internal/usecase"
)

// MaxBodyBytes bounds the size of a prediction request body
const MaxBodyBytes = 1 << 20

// IsJSONContentType reports whether a Content-Type header declares JSON:
// application/json or any application/*+json type, parameters allowed.
func IsJSONContentType(header string) bool {
	if header == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	if mediaType == "application/json" {
		return true
	}
	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")
}

// ParseJSONBody checks the content type and decodes the request body
func ParseJSONBody(c *gin.Context) (map[string]interface{}, error) {
	if !IsJSONContentType(c.GetHeader("Content-Type")) {
		return nil, usecase.ErrUnsupportedContentType
	}

	if c.Request.Body == nil {
		return nil, usecase.ErrInvalidBody
	}

	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", usecase.ErrInvalidBody, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidBody, err)
	}

	return usecase.ParseBody(raw)
}
