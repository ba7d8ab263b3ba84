package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxAmount is the largest value the NUMERIC(14,2) money columns can hold.
const MaxAmount = 999999999999.99

// ValidateAmount checks that amount is a finite, strictly positive number with
// at most two decimal places that fits the money columns.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: amount must be a finite number", ErrInvalidInput)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if amount > MaxAmount {
		return fmt.Errorf("%w: amount exceeds %.2f", ErrInvalidInput, MaxAmount)
	}
	// The shortest round-trip form is what the caller sent.
	if _, frac, ok := strings.Cut(strconv.FormatFloat(amount, 'f', -1, 64), "."); ok && len(frac) > 2 {
		return fmt.Errorf("%w: amount must have at most two decimal places", ErrInvalidInput)
	}
	return nil
}
