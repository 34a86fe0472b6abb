package service

import (
	"errors"
	"fmt"
)

// Error definitions for model handle construction
var (
	ErrNilClassifier       = errors.New("classifier is nil")
	ErrInvalidFeatureCount = errors.New("feature count must be positive")
	ErrNoClassLabels       = errors.New("at least one class label is required")
	ErrClassCountMismatch  = errors.New("class labels do not match classifier classes")
)

// ModelHandle is a loaded classifier together with its metadata.
// It is immutable after construction and shared by all requests.
type ModelHandle struct {
	classifier   Classifier
	classLabels  []string
	featureCount int
	featureNames []string
	modelType    string
}

// NewModelHandle creates a model handle, checking that the labels line up
// with the classes the classifier produces.
func NewModelHandle(classifier Classifier, classLabels []string, featureCount int, featureNames []string, modelType string) (*ModelHandle, error) {
	if classifier == nil {
		return nil, ErrNilClassifier
	}
	if featureCount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFeatureCount, featureCount)
	}
	if len(classLabels) == 0 {
		return nil, ErrNoClassLabels
	}

	seen := make(map[string]struct{}, len(classLabels))
	for i, label := range classLabels {
		if label == "" {
			return nil, fmt.Errorf("class label %d is empty", i)
		}
		if _, ok := seen[label]; ok {
			return nil, fmt.Errorf("duplicate class label %q", label)
		}
		seen[label] = struct{}{}
	}

	if n := classifier.NumClasses(); n != len(classLabels) {
		return nil, fmt.Errorf("%w: %d labels, classifier has %d classes", ErrClassCountMismatch, len(classLabels), n)
	}
	if len(featureNames) > 0 && len(featureNames) != featureCount {
		return nil, fmt.Errorf("expected %d feature names, got %d", featureCount, len(featureNames))
	}

	return &ModelHandle{
		classifier:   classifier,
		classLabels:  append([]string(nil), classLabels...),
		featureCount: featureCount,
		featureNames: append([]string(nil), featureNames...),
		modelType:    modelType,
	}, nil
}

// Classifier returns the underlying classifier
func (h *ModelHandle) Classifier() Classifier {
	return h.classifier
}

// ClassLabels returns a copy of the class labels in declared order
func (h *ModelHandle) ClassLabels() []string {
	return append([]string(nil), h.classLabels...)
}

// NumClasses returns the number of class labels
func (h *ModelHandle) NumClasses() int {
	return len(h.classLabels)
}

// Label returns the label for a class index
func (h *ModelHandle) Label(index int) (string, bool) {
	if index < 0 || index >= len(h.classLabels) {
		return "", false
	}
	return h.classLabels[index], true
}

// FeatureCount returns the expected length of a feature vector
func (h *ModelHandle) FeatureCount() int {
	return h.featureCount
}

// FeatureNames returns a copy of the feature names, if the artifact had any
func (h *ModelHandle) FeatureNames() []string {
	return append([]string(nil), h.featureNames...)
}

// ModelType returns the artifact's model type
func (h *ModelHandle) ModelType() string {
	return h.modelType
}
