package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ClassProbability is the probability assigned to one class label
type ClassProbability struct {
	Label       string
	Probability float64
}

// Probabilities is an ordered label to probability mapping.
// It encodes as a JSON object whose keys keep the declared label order.
type Probabilities []ClassProbability

// Get returns the probability for a label
func (p Probabilities) Get(label string) (float64, bool) {
	for _, cp := range p {
		if cp.Label == label {
			return cp.Probability, true
		}
	}
	return 0, false
}

// Labels returns the labels in order
func (p Probabilities) Labels() []string {
	labels := make([]string, len(p))
	for i, cp := range p {
		labels[i] = cp.Label
	}
	return labels
}

// Sum returns the total probability mass
func (p Probabilities) Sum() float64 {
	var sum float64
	for _, cp := range p {
		sum += cp.Probability
	}
	return sum
}

// ArgMax returns the label with the highest probability, first one on ties
func (p Probabilities) ArgMax() (string, float64) {
	best := -1
	bestProb := math.Inf(-1)
	for i, cp := range p {
		if cp.Probability > bestProb {
			best = i
			bestProb = cp.Probability
		}
	}
	if best < 0 {
		return "", 0
	}
	return p[best].Label, bestProb
}

// MarshalJSON implements json.Marshaler
func (p Probabilities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cp := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cp.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(cp.Probability)
		if err != nil {
			return nil, fmt.Errorf("probability for %q: %w", cp.Label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping the key order of the input
func (p *Probabilities) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("probabilities must be a JSON object")
	}

	out := Probabilities{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return errors.New("probabilities key must be a string")
		}
		var prob float64
		if err := dec.Decode(&prob); err != nil {
			return fmt.Errorf("probability for %q: %w", label, err)
		}
		out = append(out, ClassProbability{Label: label, Probability: prob})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*p = out
	return nil
}

// ModelInfo describes the loaded model to clients
type ModelInfo struct {
	TargetClasses []string `json:"target_classes"`
	FeatureCount  int      `json:"feature_count"`
}
