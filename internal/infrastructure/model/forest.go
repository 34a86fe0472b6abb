package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ModelTypeRandomForest identifies an ensemble of probability trees
const ModelTypeRandomForest = "random_forest"

// TreeNode is one node of a decision tree stored in pre-order
type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	IsLeaf     bool      `json:"is_leaf"`
	Value      []float64 `json:"value,omitempty"`
}

// DecisionTree routes a vector to a leaf and returns the leaf's class distribution
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`

	// normalised leaf distributions, indexed like Nodes
	dist [][]float64
}

// RandomForest averages the class distributions of its trees
type RandomForest struct {
	Trees []*DecisionTree `json:"trees"`

	classes int
}

func decodeRandomForest(raw json.RawMessage, featureCount, classCount int) (*RandomForest, error) {
	var forest RandomForest
	if err := json.Unmarshal(raw, &forest); err != nil {
		return nil, err
	}
	if len(forest.Trees) == 0 {
		return nil, errors.New("forest has no trees")
	}

	for i, tree := range forest.Trees {
		if tree == nil {
			return nil, fmt.Errorf("tree %d is null", i)
		}
		if err := tree.compile(featureCount, classCount); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	forest.classes = classCount
	return &forest, nil
}

// compile checks the tree structure and precomputes leaf distributions.
// Children must come after their parent, so every walk terminates.
func (dt *DecisionTree) compile(featureCount, classCount int) error {
	if len(dt.Nodes) == 0 {
		return errors.New("tree has no nodes")
	}

	dt.dist = make([][]float64, len(dt.Nodes))
	for idx, node := range dt.Nodes {
		if node.IsLeaf {
			if len(node.Value) != classCount {
				return fmt.Errorf("leaf %d has %d values, expected %d", idx, len(node.Value), classCount)
			}
			var total float64
			for _, v := range node.Value {
				if v < 0 {
					return fmt.Errorf("leaf %d has a negative value", idx)
				}
				total += v
			}
			if total <= 0 {
				return fmt.Errorf("leaf %d has no weight", idx)
			}
			dist := make([]float64, classCount)
			for c, v := range node.Value {
				dist[c] = v / total
			}
			dt.dist[idx] = dist
			continue
		}

		if node.FeatureIdx < 0 || node.FeatureIdx >= featureCount {
			return fmt.Errorf("node %d: feature index %d out of range", idx, node.FeatureIdx)
		}
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= idx || child >= len(dt.Nodes) {
				return fmt.Errorf("node %d: invalid child %d", idx, child)
			}
		}
	}
	return nil
}

func (dt *DecisionTree) leaf(features []float64) (int, error) {
	idx := 0
	for {
		node := dt.Nodes[idx]
		if node.IsLeaf {
			return idx, nil
		}
		if node.FeatureIdx >= len(features) {
			return 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

// NumClasses implements service.Classifier
func (f *RandomForest) NumClasses() int {
	return f.classes
}

// PredictProba implements service.Classifier
func (f *RandomForest) PredictProba(features []float64) ([]float64, error) {
	proba := make([]float64, f.classes)
	for i, tree := range f.Trees {
		leaf, err := tree.leaf(features)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		for c, p := range tree.dist[leaf] {
			proba[c] += p
		}
	}

	n := float64(len(f.Trees))
	for c := range proba {
		proba[c] /= n
	}
	return proba, nil
}

// Predict implements service.Classifier
func (f *RandomForest) Predict(features []float64) (int, error) {
	proba, err := f.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return argMax(proba), nil
}

func argMax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
