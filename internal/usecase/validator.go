package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// FeaturesField is the request body key holding the feature vector
const FeaturesField = "features"

// ValidationReason identifies why a request was rejected
type ValidationReason string

const (
	ReasonMissingFeatures ValidationReason = "missing_features"
	ReasonNotAList        ValidationReason = "not_a_list"
	ReasonWrongLength     ValidationReason = "wrong_length"
	ReasonNotNumeric      ValidationReason = "not_numeric"
	ReasonNotFinite       ValidationReason = "not_finite"
)

// ValidationError describes exactly one reason a request was rejected
type ValidationError struct {
	Reason   ValidationReason
	Message  string
	Expected int
	Actual   int
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrInvalidRequest) hold for every validation error
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func newValidationError(reason ValidationReason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

// ParseBody decodes a request body holding exactly one JSON value.
// Numbers are kept as json.Number so that Validate does the conversion.
func ParseBody(raw []byte) (map[string]interface{}, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrInvalidBody
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidBody)
	}

	switch v := value.(type) {
	case nil:
		return nil, ErrInvalidBody
	case map[string]interface{}:
		return v, nil
	default:
		// well-formed but not an object, so there is no features field
		return map[string]interface{}{}, nil
	}
}

// Validate checks a parsed request body against the expected feature count
// and returns the feature vector. Checks run in a fixed order and the first
// failure wins.
func Validate(body map[string]interface{}, expected int) ([]float64, error) {
	raw, ok := body[FeaturesField]
	if !ok {
		return nil, newValidationError(ReasonMissingFeatures, "missing features field")
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, newValidationError(ReasonNotAList, "features must be a list")
	}

	if len(items) != expected {
		return nil, &ValidationError{
			Reason:   ReasonWrongLength,
			Message:  fmt.Sprintf("expected %d features, received %d", expected, len(items)),
			Expected: expected,
			Actual:   len(items),
		}
	}

	features := make([]float64, len(items))
	for i, item := range items {
		v, ok := toFloat(item)
		if !ok {
			return nil, newValidationError(ReasonNotNumeric, "features must be numeric")
		}
		features[i] = v
	}

	for _, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, newValidationError(ReasonNotFinite, "features must be finite")
		}
	}

	return features, nil
}

// toFloat converts a decoded JSON value the way a lenient float cast would:
// numbers, numeric strings and booleans convert; everything else does not.
// Out-of-range values convert to an infinity.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		return parseFloat(n.String())
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		return parseFloat(strings.TrimSpace(n))
	default:
		return 0, false
	}
}

func parseFloat(s string) (float64, bool) {
	// hex floats are valid for strconv but not for a decimal cast
	if s == "" || strings.ContainsAny(s, "xX") {
		return 0, false
	}
	if strings.Contains(s, "_") {
		var ok bool
		if s, ok = stripDigitSeparators(s); !ok {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// stripDigitSeparators removes single underscores that sit between two
// digits, as in "1_000.5". Any other underscore makes the string invalid.
func stripDigitSeparators(s string) (string, bool) {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			sb.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return sb.String(), true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
