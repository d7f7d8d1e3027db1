package tracking

// Fields holds the raw measurements of a single set. A nil field was not
// recorded.
type Fields struct {
	Reps            *int     `json:"reps,omitempty"`
	WeightKg        *float64 `json:"weightKg,omitempty"`
	DurationSeconds *int     `json:"durationSeconds,omitempty"`
	DistanceMeters  *float64 `json:"distanceMeters,omitempty"`
}

func (f Fields) reps() int {
	if f.Reps == nil {
		return 0
	}
	return *f.Reps
}

func (f Fields) weight() float64 {
	if f.WeightKg == nil {
		return 0
	}
	return *f.WeightKg
}

func (f Fields) duration() int {
	if f.DurationSeconds == nil {
		return 0
	}
	return *f.DurationSeconds
}

func (f Fields) distance() float64 {
	if f.DistanceMeters == nil {
		return 0
	}
	return *f.DistanceMeters
}

func IntPtr(v int) *int {
	return &v
}

func FloatPtr(v float64) *float64 {
	return &v
}
