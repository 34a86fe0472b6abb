package usecase

import "errors"

// Error definitions for prediction usecase
var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrInvalidBody            = errors.New("invalid or empty body")
	ErrUnsupportedContentType = errors.New("Content-Type must be application/json")
	ErrInference              = errors.New("inference failed")
	ErrModelNotLoaded         = errors.New("model not loaded")
)
