package usecase

import (
	"fmt"
	"math"

	"github.com/saralopezbz/iris-predictor/internal/domain/entity"
	"github.com/saralopezbz/iris-predictor/internal/domain/service"
)

// PredictionOutput represents the output of a single prediction
type PredictionOutput struct {
	Prediction    string               `json:"prediction"`
	PredictionID  int                  `json:"prediction_id"`
	Confidence    float64              `json:"confidence"`
	Probabilities entity.Probabilities `json:"probabilities"`
}

// Respond runs inference on an already validated feature vector and shapes
// the result. Any failure is an internal fault wrapped in ErrInference.
func Respond(features []float64, handle *service.ModelHandle) (*PredictionOutput, error) {
	if handle == nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, ErrModelNotLoaded)
	}
	classifier := handle.Classifier()

	index, err := classifier.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("%w: predict: %w", ErrInference, err)
	}
	distribution, err := classifier.PredictProba(features)
	if err != nil {
		return nil, fmt.Errorf("%w: predict_proba: %w", ErrInference, err)
	}

	label, ok := handle.Label(index)
	if !ok {
		return nil, fmt.Errorf("%w: class index %d out of range", ErrInference, index)
	}
	labels := handle.ClassLabels()
	if len(distribution) != len(labels) {
		return nil, fmt.Errorf("%w: got %d probabilities for %d classes", ErrInference, len(distribution), len(labels))
	}

	for i, p := range distribution {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("%w: probability %v for class %d is not in [0, 1]", ErrInference, p, i)
		}
	}

	probabilities := make(entity.Probabilities, len(labels))
	confidence := distribution[0]
	for i, l := range labels {
		probabilities[i] = entity.ClassProbability{Label: l, Probability: distribution[i]}
		if distribution[i] > confidence {
			confidence = distribution[i]
		}
	}

	return &PredictionOutput{
		Prediction:    label,
		PredictionID:  index,
		Confidence:    confidence,
		Probabilities: probabilities,
	}, nil
}
