package errors

import "math"

// ValidateQuality checks that a node quality is a finite, non-negative number.
func ValidateQuality(id int, q float64) error {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return New(ErrCodeInvalidQuality, "node %d: quality must be finite, got %v", id, q)
	}
	if q < 0 {
		return New(ErrCodeInvalidQuality, "node %d: quality must be non-negative, got %v", id, q)
	}
	return nil
}

// ValidateProbability checks that an arc probability lies in [0, 1].
func ValidateProbability(id int, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return New(ErrCodeInvalidProbability, "arc %d: probability must be within [0, 1], got %v", id, p)
	}
	return nil
}

// ValidateRestoration checks that a restored probability is a probability
// and improves on the arc's baseline.
func ValidateRestoration(option, arc int, baseline, restored float64) error {
	if math.IsNaN(restored) || restored < 0 || restored > 1 {
		return New(ErrCodeInvalidRestoration,
			"option %d: restored probability of arc %d must be within [0, 1], got %v", option, arc, restored)
	}
	if restored <= baseline {
		return New(ErrCodeInvalidRestoration,
			"option %d: restored probability of arc %d must exceed %v, got %v", option, arc, baseline, restored)
	}
	return nil
}

// ValidateGain checks that a quality gain is finite and strictly positive.
func ValidateGain(option, node int, gain float64) error {
	if math.IsNaN(gain) || math.IsInf(gain, 0) || gain <= 0 {
		return New(ErrCodeInvalidRestoration,
			"option %d: quality gain of node %d must be positive, got %v", option, node, gain)
	}
	return nil
}

// ValidateCost checks that an option cost is finite and non-negative.
func ValidateCost(option int, cost float64) error {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return New(ErrCodeInvalidRestoration, "option %d: cost must be non-negative, got %v", option, cost)
	}
	return nil
}

// ValidateActivation checks that one activation coefficient lies in [0, 1].
func ValidateActivation(option int, c float64) error {
	if math.IsNaN(c) || c < 0 || c > 1 {
		return New(ErrCodeInvalidActivation, "option %d: activation must be within [0, 1], got %v", option, c)
	}
	return nil
}
