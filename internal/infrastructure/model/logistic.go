package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ModelTypeLogisticRegression identifies a multinomial logistic regression
const ModelTypeLogisticRegression = "logistic_regression"

// LogisticRegression scores each class linearly and applies softmax
type LogisticRegression struct {
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
}

func decodeLogisticRegression(raw json.RawMessage, featureCount, classCount int) (*LogisticRegression, error) {
	var lr LogisticRegression
	if err := json.Unmarshal(raw, &lr); err != nil {
		return nil, err
	}
	if len(lr.Coefficients) != classCount {
		return nil, fmt.Errorf("expected %d coefficient rows, got %d", classCount, len(lr.Coefficients))
	}
	for c, row := range lr.Coefficients {
		if len(row) != featureCount {
			return nil, fmt.Errorf("coefficient row %d has %d values, expected %d", c, len(row), featureCount)
		}
	}
	if lr.Intercepts == nil {
		lr.Intercepts = make([]float64, classCount)
	}
	if len(lr.Intercepts) != classCount {
		return nil, fmt.Errorf("expected %d intercepts, got %d", classCount, len(lr.Intercepts))
	}
	return &lr, nil
}

// NumClasses implements service.Classifier
func (lr *LogisticRegression) NumClasses() int {
	return len(lr.Coefficients)
}

// PredictProba implements service.Classifier
func (lr *LogisticRegression) PredictProba(features []float64) ([]float64, error) {
	scores := make([]float64, len(lr.Coefficients))
	for c, row := range lr.Coefficients {
		if len(features) != len(row) {
			return nil, errors.New("feature vector length does not match coefficients")
		}
		score := lr.Intercepts[c]
		for i, w := range row {
			score += w * features[i]
		}
		if math.IsNaN(score) {
			return nil, fmt.Errorf("score for class %d is not a number", c)
		}
		scores[c] = score
	}
	return softmax(scores), nil
}

// Predict implements service.Classifier
func (lr *LogisticRegression) Predict(features []float64) (int, error) {
	proba, err := lr.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return argMax(proba), nil
}

func softmax(scores []float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}

	out := make([]float64, len(scores))
	if math.IsInf(maxScore, 0) {
		// overflowed scores: the classes tied at the infinite maximum share all the mass
		var tied float64
		for i, s := range scores {
			if s == maxScore {
				out[i] = 1
				tied++
			}
		}
		for i := range out {
			out[i] /= tied
		}
		return out
	}

	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
