package service

// Classifier defines the interface for a trained multi-class classifier.
// Implementations must be safe for concurrent use and deterministic.
type Classifier interface {
	// Predict returns the index of the predicted class for a single vector
	Predict(features []float64) (int, error)

	// PredictProba returns the probability of every class, index-aligned
	// with the classifier's class indices
	PredictProba(features []float64) ([]float64, error)

	// NumClasses returns the number of classes the classifier produces
	NumClasses() int
}
