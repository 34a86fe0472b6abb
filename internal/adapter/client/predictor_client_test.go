package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saralopezbz/iris-predictor/internal/adapter/http/router"
	"github.com/saralopezbz/iris-predictor/internal/infrastructure/model"
	"github.com/saralopezbz/iris-predictor/internal/usecase"
)

func TestPredictorClient_Predict(t *testing.T) {
	t.Run("successful prediction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/predict", r.URL.Path)
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req PredictRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			require.NoError(t, err)
			assert.Equal(t, []float64{5.1, 3.5, 1.4, 0.2}, req.Features)

			w.Header().Set("Content-Type", "application/json")
			_, err = w.Write([]byte(`{"prediction":"setosa","prediction_id":0,"confidence":0.97,` +
				`"probabilities":{"setosa":0.97,"versicolor":0.02,"virginica":0.01}}`))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewPredictorClient(server.URL, 5*time.Second)
		result, err := client.Predict(context.Background(), []float64{5.1, 3.5, 1.4, 0.2})

		require.NoError(t, err)
		assert.Equal(t, "setosa", result.Prediction)
		assert.Equal(t, 0, result.PredictionID)
		assert.Equal(t, 0.97, result.Confidence)
		assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, result.Probabilities.Labels())
	})

	t.Run("validation error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, err := w.Write([]byte(`{"error":"expected 4 features, received 3"}`))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewPredictorClient(server.URL, 5*time.Second)
		_, err := client.Predict(context.Background(), []float64{1, 2, 3})

		require.Error(t, err)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "expected 4 features, received 3", apiErr.Message)
		assert.True(t, IsStatus(err, http.StatusBadRequest))
	})

	t.Run("server error with plain body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, err := w.Write([]byte("internal error"))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewPredictorClient(server.URL, 5*time.Second)
		_, err := client.Predict(context.Background(), []float64{1, 2, 3, 4})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
		assert.Contains(t, err.Error(), "internal error")
	})

	t.Run("connection error", func(t *testing.T) {
		client := NewPredictorClient("http://localhost:99999", 1*time.Second)
		_, err := client.Predict(context.Background(), []float64{1, 2, 3, 4})

		assert.Error(t, err)
		assert.False(t, IsStatus(err, http.StatusBadRequest))
	})
}

func TestPredictorClient_PredictRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusBadRequest)
		_, err := w.Write([]byte(`{"error":"Content-Type must be application/json"}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewPredictorClient(server.URL+"/", 5*time.Second)
	status, body, err := client.PredictRaw(context.Background(), []byte("hello"), "text/plain")

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Content-Type must be application/json"}`, string(body))
}

func TestPredictorClient_Info(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		_, err := w.Write([]byte(`{"message":"API ready","status":"operational",` +
			`"model_info":{"target_classes":["setosa","versicolor","virginica"],"feature_count":4}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewPredictorClient(server.URL, 5*time.Second)
	result, err := client.Info(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "operational", result.Status)
	assert.Equal(t, 4, result.ModelInfo.FeatureCount)
	assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, result.ModelInfo.TargetClasses)
}

func TestPredictorClient_Health(t *testing.T) {
	t.Run("healthy service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			_, err := w.Write([]byte(`{"status":"healthy","components":{"model":"ok","model_type":"random_forest"}}`))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewPredictorClient(server.URL, 5*time.Second)
		result, err := client.Health(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "healthy", result.Status)
		assert.Equal(t, "random_forest", result.Components["model_type"])
	})

	t.Run("unhealthy service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := w.Write([]byte(`{"status":"unhealthy","components":{"model":"not loaded"}}`))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewPredictorClient(server.URL, 5*time.Second)
		_, err := client.Health(context.Background())

		assert.True(t, IsStatus(err, http.StatusServiceUnavailable))
	})
}

func TestPredictorClient_Ready(t *testing.T) {
	t.Run("ready service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ready", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewPredictorClient(server.URL, 5*time.Second)
		err := client.Ready(context.Background())

		assert.NoError(t, err)
	})

	t.Run("not ready service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := w.Write([]byte(`{"status":"not ready","reason":"model not loaded"}`))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewPredictorClient(server.URL, 5*time.Second)
		err := client.Ready(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "model not loaded")
	})
}

func TestPredictorClient_AgainstService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handle, err := model.Load(filepath.Join("..", "..", "..", "models", "iris.json"))
	require.NoError(t, err)
	uc, err := usecase.NewPredictUsecase(handle, usecase.WithCache(16))
	require.NoError(t, err)
	server := httptest.NewServer(router.Setup(handle, uc, nil, zap.NewNop()))
	defer server.Close()

	client := NewPredictorClient(server.URL, 5*time.Second)
	ctx := context.Background()

	require.NoError(t, client.Ready(ctx))

	result, err := client.Predict(ctx, []float64{6.3, 3.3, 6.0, 2.5})
	require.NoError(t, err)
	assert.Equal(t, "virginica", result.Prediction)
	assert.InDelta(t, 1.0, result.Probabilities.Sum(), 1e-6)

	_, err = client.Predict(ctx, []float64{1, 2, 3})
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "expected 4 features, received 3")
}
