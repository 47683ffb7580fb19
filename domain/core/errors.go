package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Distribution parameter errors
	ErrInvalidProbability = errors.New("probability outside [0, 1]")
	ErrInvalidScale       = errors.New("scale parameter must be positive")
	ErrInvalidSampleSize  = errors.New("sample size must be positive")

	// Dataset errors
	ErrEmptyDataset      = errors.New("dataset has no observations")
	ErrDegenerateDataset = errors.New("dataset is degenerate")
	ErrNegativeRevenue   = errors.New("revenue must be non-negative")
	ErrUnknownGroup      = errors.New("unknown experiment group")

	// Inference errors
	ErrInsufficientDraws = errors.New("not enough posterior draws")
	ErrFitFailed         = errors.New("model fit failed")

	// Decision errors
	ErrInvalidMass       = errors.New("interval mass outside (0, 1)")
	ErrEmptyDistribution = errors.New("cost distribution is empty")
)

// Error constructors with context
func NewProbabilityError(name string, value float64) error {
	return fmt.Errorf("%w: %s = %g", ErrInvalidProbability, name, value)
}

func NewScaleError(name string, value float64) error {
	return fmt.Errorf("%w: %s = %g", ErrInvalidScale, name, value)
}

func NewDegenerateDatasetError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateDataset, reason)
}

// Error checking helpers
func IsParameterError(err error) bool {
	return errors.Is(err, ErrInvalidProbability) ||
		errors.Is(err, ErrInvalidScale) ||
		errors.Is(err, ErrInvalidSampleSize)
}

func IsDatasetError(err error) bool {
	return errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrDegenerateDataset) ||
		errors.Is(err, ErrNegativeRevenue) ||
		errors.Is(err, ErrUnknownGroup)
}
