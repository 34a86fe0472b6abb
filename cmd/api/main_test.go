package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saralopezbz/iris-predictor/internal/infrastructure/model"
)

func TestRun_FailsWithoutModel(t *testing.T) {
	t.Run("missing artifact", func(t *testing.T) {
		t.Setenv("PREDICTOR_MODEL_PATH", filepath.Join(t.TempDir(), "absent.json"))
		t.Setenv("PREDICTOR_LOG_LEVEL", "error")

		err := run()

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrArtifactNotFound)
		assert.Contains(t, err.Error(), "failed to load model")
	})

	t.Run("corrupt artifact", func(t *testing.T) {
		t.Setenv("PREDICTOR_MODEL_PATH", filepath.Join("..", "..", "internal", "infrastructure", "model", "testdata", "truncated.json"))
		t.Setenv("PREDICTOR_LOG_LEVEL", "error")

		err := run()

		require.Error(t, err)
		var loadErr *model.LoadError
		assert.ErrorAs(t, err, &loadErr)
	})
}
