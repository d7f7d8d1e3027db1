package ledger

import (
	"errors"
)

var (
	// ErrValidation wraps every input problem detected before a write.
	ErrValidation = errors.New("invalid workout")
	// ErrModeConflict is returned when a submission names a tracking mode
	// that differs from the one its stored exercise definition uses.
	ErrModeConflict = errors.New("tracking mode conflicts with existing exercise")
)
