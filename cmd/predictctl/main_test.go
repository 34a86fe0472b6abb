package main

import (
	"bytes"
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

	"github.com/saralopezbz/iris-predictor/internal/adapter/client"
	"github.com/saralopezbz/iris-predictor/internal/adapter/http/router"
	"github.com/saralopezbz/iris-predictor/internal/infrastructure/model"
	"github.com/saralopezbz/iris-predictor/internal/usecase"
)

func newIrisServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handle, err := model.Load(filepath.Join("..", "..", "models", "iris.json"))
	require.NoError(t, err)
	uc, err := usecase.NewPredictUsecase(handle)
	require.NoError(t, err)
	server := httptest.NewServer(router.Setup(handle, uc, nil, zap.NewNop()))
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunSmoke(t *testing.T) {
	t.Run("all checks pass against the service", func(t *testing.T) {
		server := newIrisServer(t)
		var out bytes.Buffer

		report := runSmoke(context.Background(), client.NewPredictorClient(server.URL, 5*time.Second), &out)

		assert.Equal(t, 9, report.Passed)
		assert.Equal(t, 0, report.Failed)
		assert.Equal(t, 0, report.Warnings)
		assert.Contains(t, out.String(), "9/9 checks passed")
	})

	t.Run("label mismatch is only a warning", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				_, _ = w.Write([]byte(`{"message":"API ready","status":"operational","model_info":{"target_classes":["x"],"feature_count":4}}`))
				return
			}
			var req map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if features, ok := req["features"].([]interface{}); ok && len(features) == 4 {
				if _, isNum := features[0].(float64); isNum {
					_, _ = w.Write([]byte(`{"prediction":"x","prediction_id":0,"confidence":1,"probabilities":{"x":1}}`))
					return
				}
			}
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad"}`))
		}))
		defer server.Close()
		var out bytes.Buffer

		report := runSmoke(context.Background(), client.NewPredictorClient(server.URL, 5*time.Second), &out)

		assert.Equal(t, 0, report.Failed)
		assert.Equal(t, 3, report.Warnings)
		assert.Contains(t, out.String(), "WARN  typical setosa: predicted x, expected setosa")
	})

	t.Run("accepting invalid bodies fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				_, _ = w.Write([]byte(`{"message":"API ready"}`))
				return
			}
			_, _ = w.Write([]byte(`{"prediction":"setosa","prediction_id":0,"confidence":1,"probabilities":{"setosa":1}}`))
		}))
		defer server.Close()
		var out bytes.Buffer

		report := runSmoke(context.Background(), client.NewPredictorClient(server.URL, 5*time.Second), &out)

		assert.Equal(t, 5, report.Failed)
		assert.Contains(t, out.String(), "FAIL  empty list: expected status 400, got 200")
	})
}

func TestCommands(t *testing.T) {
	server := newIrisServer(t)

	t.Run("info", func(t *testing.T) {
		out, err := execute(t, "--url", server.URL, "info")

		require.NoError(t, err)
		assert.Contains(t, out, `"feature_count": 4`)
		assert.Contains(t, out, "versicolor")
	})

	t.Run("predict", func(t *testing.T) {
		out, err := execute(t, "--url", server.URL, "predict", "5.1", "3.5", "1.4", "0.2")

		require.NoError(t, err)
		assert.Contains(t, out, `"prediction": "setosa"`)
	})

	t.Run("predict rejects non-numeric argument", func(t *testing.T) {
		_, err := execute(t, "--url", server.URL, "predict", "5.1", "abc")

		require.Error(t, err)
		assert.Contains(t, err.Error(), `"abc" is not a number`)
	})

	t.Run("predict surfaces validation errors", func(t *testing.T) {
		_, err := execute(t, "--url", server.URL, "predict", "1", "2", "3")

		require.Error(t, err)
		assert.True(t, client.IsStatus(err, http.StatusBadRequest))
	})

	t.Run("smoke", func(t *testing.T) {
		out, err := execute(t, "--url", server.URL, "smoke")

		require.NoError(t, err)
		assert.Contains(t, out, "9/9 checks passed")
	})
}
