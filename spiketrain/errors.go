package spiketrain

import "errors"

var (
	// Parameter validation errors
	ErrInvalidParameter = errors.New("spiketrain: invalid parameter")

	// Statistics errors
	ErrInsufficientData = errors.New("spiketrain: insufficient data")

	// Data integrity errors (imported recordings, external trains)
	ErrMalformedTrain = errors.New("spiketrain: malformed train")
)
