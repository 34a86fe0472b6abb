package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saralopezbz/iris-predictor/internal/domain/entity"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 1 << 20

// PredictRequest represents a request to the prediction endpoint
type PredictRequest struct {
	Features []float64 `json:"features"`
}

// PredictResponse represents a successful prediction
type PredictResponse struct {
	Prediction    string               `json:"prediction"`
	PredictionID  int                  `json:"prediction_id"`
	Confidence    float64              `json:"confidence"`
	Probabilities entity.Probabilities `json:"probabilities"`
}

// InfoResponse represents the service index
type InfoResponse struct {
	Message   string           `json:"message"`
	Status    string           `json:"status"`
	ModelInfo entity.ModelInfo `json:"model_info"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// APIError is returned for any non-2xx answer
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("predictor returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("predictor returned status %d: %s", e.StatusCode, e.Message)
}

// PredictorClient is an HTTP client for the prediction service
type PredictorClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPredictorClient creates a new prediction service client
func NewPredictorClient(baseURL string, timeout time.Duration) *PredictorClient {
	return &PredictorClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Info fetches the model metadata from the index endpoint
func (c *PredictorClient) Info(ctx context.Context) (*InfoResponse, error) {
	var result InfoResponse
	if err := c.getJSON(ctx, "/", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Predict sends a feature vector for classification
func (c *PredictorClient) Predict(ctx context.Context, features []float64) (*PredictResponse, error) {
	body, err := json.Marshal(PredictRequest{Features: features})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	status, respBody, err := c.PredictRaw(ctx, body, "application/json")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, newAPIError(status, respBody)
	}

	var result PredictResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// PredictRaw posts an arbitrary body to the prediction endpoint and returns
// the status and body as received. Non-2xx statuses are not errors here.
func (c *PredictorClient) PredictRaw(ctx context.Context, body []byte, contentType string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// Health checks the service health
func (c *PredictorClient) Health(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	if err := c.getJSON(ctx, "/health", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ready checks if the service is ready
func (c *PredictorClient) Ready(ctx context.Context) error {
	return c.getJSON(ctx, "/ready", nil)
}

func (c *PredictorClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// newAPIError prefers the service's {"error": ...} message over the raw body
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error  string `json:"error"`
		Reason string `json:"reason"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case payload.Reason != "":
			msg = payload.Reason
		}
	}
	return &APIError{StatusCode: status, Message: msg}
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
