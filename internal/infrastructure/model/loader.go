package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/saralopezbz/iris-predictor/internal/domain/service"
)

// FormatVersion is the artifact format this loader understands
const FormatVersion = 1

// ErrArtifactNotFound is matched by a LoadError when the artifact file does not exist
var ErrArtifactNotFound = errors.New("model artifact not found")

// LoadError reports why a model artifact could not be turned into a handle
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load model from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Artifact is the on-disk representation of a trained model and its metadata
type Artifact struct {
	FormatVersion int             `json:"format_version"`
	ModelType     string          `json:"model_type"`
	ClassLabels   []string        `json:"class_labels"`
	FeatureCount  int             `json:"feature_count"`
	FeatureNames  []string        `json:"feature_names,omitempty"`
	Model         json.RawMessage `json:"model"`
}

// Decoder builds a classifier from the model section of an artifact
type Decoder func(raw json.RawMessage, featureCount, classCount int) (service.Classifier, error)

var decoders = map[string]Decoder{
	ModelTypeRandomForest: func(raw json.RawMessage, featureCount, classCount int) (service.Classifier, error) {
		return decodeRandomForest(raw, featureCount, classCount)
	},
	ModelTypeLogisticRegression: func(raw json.RawMessage, featureCount, classCount int) (service.Classifier, error) {
		return decodeLogisticRegression(raw, featureCount, classCount)
	},
}

// Load reads the artifact at path and returns a ready-to-serve model handle
func Load(path string) (*service.ModelHandle, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %w", ErrArtifactNotFound, err)}
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	handle, err := Decode(payload)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return handle, nil
}

// Decode turns a serialized artifact into a model handle
func Decode(payload []byte) (*service.ModelHandle, error) {
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("invalid artifact: %w", err)
	}

	if artifact.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("unsupported format version %d", artifact.FormatVersion)
	}
	if artifact.FeatureCount <= 0 {
		return nil, fmt.Errorf("feature_count must be positive, got %d", artifact.FeatureCount)
	}
	if len(artifact.ClassLabels) == 0 {
		return nil, errors.New("class_labels is empty")
	}
	if len(artifact.Model) == 0 || string(artifact.Model) == "null" {
		return nil, errors.New("model section is missing")
	}

	decode, ok := decoders[artifact.ModelType]
	if !ok {
		return nil, fmt.Errorf("unsupported model type %q", artifact.ModelType)
	}

	classifier, err := decode(artifact.Model, artifact.FeatureCount, len(artifact.ClassLabels))
	if err != nil {
		return nil, fmt.Errorf("invalid %s model: %w", artifact.ModelType, err)
	}

	return service.NewModelHandle(classifier, artifact.ClassLabels, artifact.FeatureCount, artifact.FeatureNames, artifact.ModelType)
}
