package usecase

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/saralopezbz/iris-predictor/internal/domain/entity"
	"github.com/saralopezbz/iris-predictor/internal/domain/service"
)

// Outcome labels reported to a Recorder
const (
	OutcomeSuccess          = "success"
	OutcomeValidationFailed = "validation_failed"
	OutcomeInternalFailure  = "internal_failure"
)

// Recorder receives prediction telemetry
type Recorder interface {
	ObserveOutcome(outcome string)
	ObserveValidationFailure(reason string)
	ObservePrediction(label string, cached bool)
	ObserveInferenceDuration(d time.Duration)
}

// PredictUsecase defines the interface for prediction operations
type PredictUsecase interface {
	Info() *entity.ModelInfo
	Predict(ctx context.Context, body map[string]interface{}) (*PredictionOutput, error)
}

type predictUsecase struct {
	handle   *service.ModelHandle
	cache    *lru.Cache[string, PredictionOutput]
	recorder Recorder
}

// Option configures a PredictUsecase
type Option func(*predictUsecase) error

// WithCache keeps up to size recent responses in memory. A size of zero disables caching.
func WithCache(size int) Option {
	return func(uc *predictUsecase) error {
		if size <= 0 {
			return nil
		}
		cache, err := lru.New[string, PredictionOutput](size)
		if err != nil {
			return err
		}
		uc.cache = cache
		return nil
	}
}

// WithRecorder reports prediction telemetry to r
func WithRecorder(r Recorder) Option {
	return func(uc *predictUsecase) error {
		uc.recorder = r
		return nil
	}
}

// NewPredictUsecase creates a new prediction usecase over a loaded model
func NewPredictUsecase(handle *service.ModelHandle, opts ...Option) (PredictUsecase, error) {
	uc := &predictUsecase{handle: handle}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, err
		}
	}
	return uc, nil
}

// Info returns the model metadata, empty if no model is loaded
func (uc *predictUsecase) Info() *entity.ModelInfo {
	if uc.handle == nil {
		return &entity.ModelInfo{TargetClasses: []string{}, FeatureCount: 0}
	}
	return &entity.ModelInfo{
		TargetClasses: uc.handle.ClassLabels(),
		FeatureCount:  uc.handle.FeatureCount(),
	}
}

// Predict validates a parsed request body and runs inference on it
func (uc *predictUsecase) Predict(ctx context.Context, body map[string]interface{}) (*PredictionOutput, error) {
	if uc.handle == nil {
		uc.observeOutcome(OutcomeInternalFailure)
		return nil, ErrModelNotLoaded
	}

	features, err := Validate(body, uc.handle.FeatureCount())
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) && uc.recorder != nil {
			uc.recorder.ObserveValidationFailure(string(vErr.Reason))
		}
		uc.observeOutcome(OutcomeValidationFailed)
		return nil, err
	}

	key := cacheKey(features)
	if uc.cache != nil {
		if cached, ok := uc.cache.Get(key); ok {
			if uc.recorder != nil {
				uc.recorder.ObservePrediction(cached.Prediction, true)
			}
			uc.observeOutcome(OutcomeSuccess)
			return cloneOutput(&cached), nil
		}
	}

	start := time.Now()
	output, err := Respond(features, uc.handle)
	if uc.recorder != nil {
		uc.recorder.ObserveInferenceDuration(time.Since(start))
	}
	if err != nil {
		uc.observeOutcome(OutcomeInternalFailure)
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Add(key, *cloneOutput(output))
	}
	if uc.recorder != nil {
		uc.recorder.ObservePrediction(output.Prediction, false)
	}
	uc.observeOutcome(OutcomeSuccess)
	return output, nil
}

func (uc *predictUsecase) observeOutcome(outcome string) {
	if uc.recorder != nil {
		uc.recorder.ObserveOutcome(outcome)
	}
}

// cacheKey identifies a vector by the exact bits of its values
func cacheKey(features []float64) string {
	var sb strings.Builder
	for i, v := range features {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
	}
	return sb.String()
}

func cloneOutput(o *PredictionOutput) *PredictionOutput {
	c := *o
	c.Probabilities = append(entity.Probabilities(nil), o.Probabilities...)
	return &c
}
