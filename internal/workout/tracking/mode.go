package tracking

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownMode = errors.New("unknown tracking mode")

// Mode describes which measurements apply to an exercise performance.
type Mode uint8

const (
	WeightReps Mode = iota + 1
	Duration
	RepsOnly
	RepsPerSide
	DistanceTime
	RepsDuration
	DistanceOnly
	AMRAP
)

var modeNames = [...]string{
	WeightReps:   "weight-reps",
	Duration:     "duration",
	RepsOnly:     "reps-only",
	RepsPerSide:  "reps-per-side",
	DistanceTime: "distance-time",
	RepsDuration: "reps-duration",
	DistanceOnly: "distance-only",
	AMRAP:        "amrap",
}

// All returns every mode in declaration order.
func All() []Mode {
	return []Mode{
		WeightReps,
		Duration,
		RepsOnly,
		RepsPerSide,
		DistanceTime,
		RepsDuration,
		DistanceOnly,
		AMRAP,
	}
}

func (m Mode) Valid() bool {
	return m >= WeightReps && m <= AMRAP
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", m)
	}
	return modeNames[m]
}

func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range All() {
		if modeNames[m] == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, m)
	}
	return []byte(modeNames[m]), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Visitor has one method per mode. Every consumer of Mode implements it, so
// adding a mode breaks compilation until each consumer handles it.
type Visitor[T any] interface {
	WeightReps() T
	Duration() T
	RepsOnly() T
	RepsPerSide() T
	DistanceTime() T
	RepsDuration() T
	DistanceOnly() T
	AMRAP() T
}

// Match dispatches m to the visitor method of the same name.
// It panics on a mode outside All, which ParseMode never produces.
func Match[T any](m Mode, v Visitor[T]) T {
	switch m {
	case WeightReps:
		return v.WeightReps()
	case Duration:
		return v.Duration()
	case RepsOnly:
		return v.RepsOnly()
	case RepsPerSide:
		return v.RepsPerSide()
	case DistanceTime:
		return v.DistanceTime()
	case RepsDuration:
		return v.RepsDuration()
	case DistanceOnly:
		return v.DistanceOnly()
	case AMRAP:
		return v.AMRAP()
	}
	panic(fmt.Sprintf("tracking: unmatched %s", m))
}
