package workout

import (
	"time"

	"github.com/2beens/liftledger/internal/workout/tracking"
)

// Metric is one dimension a personal record is kept for.
type Metric uint8

const (
	MetricWeight Metric = iota + 1
	MetricReps
	MetricVolume
	MetricDuration
	MetricDistance
)

func AllMetrics() []Metric {
	return []Metric{MetricWeight, MetricReps, MetricVolume, MetricDuration, MetricDistance}
}

func (m Metric) String() string {
	switch m {
	case MetricWeight:
		return "weight"
	case MetricReps:
		return "reps"
	case MetricVolume:
		return "volume"
	case MetricDuration:
		return "duration"
	case MetricDistance:
		return "distance"
	}
	return "unknown"
}

func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// PRFlags marks the metrics a set was the best at when it was logged.
type PRFlags struct {
	Weight   bool `json:"weight"`
	Reps     bool `json:"reps"`
	Volume   bool `json:"volume"`
	Duration bool `json:"duration"`
	Distance bool `json:"distance"`
}

func (f PRFlags) Get(m Metric) bool {
	switch m {
	case MetricWeight:
		return f.Weight
	case MetricReps:
		return f.Reps
	case MetricVolume:
		return f.Volume
	case MetricDuration:
		return f.Duration
	case MetricDistance:
		return f.Distance
	}
	return false
}

func (f *PRFlags) Set(m Metric, v bool) {
	switch m {
	case MetricWeight:
		f.Weight = v
	case MetricReps:
		f.Reps = v
	case MetricVolume:
		f.Volume = v
	case MetricDuration:
		f.Duration = v
	case MetricDistance:
		f.Distance = v
	}
}

func (f PRFlags) Any() bool {
	return f.Weight || f.Reps || f.Volume || f.Duration || f.Distance
}

// RecordEntry is the best value of one metric and the set that achieved it.
// SetID is a back-reference only; the set may be deleted later.
type RecordEntry struct {
	Value      float64   `json:"value"`
	AchievedOn time.Time `json:"achievedOn"`
	SetID      string    `json:"setId"`
	SessionID  string    `json:"sessionId"`
}

// PersonalRecord is the single record row of a (user, exercise) pair.
type PersonalRecord struct {
	UserID     string        `json:"userId"`
	ExerciseID string        `json:"exerciseId"`
	Mode       tracking.Mode `json:"mode"`
	Weight     *RecordEntry  `json:"weight,omitempty"`
	Reps       *RecordEntry  `json:"reps,omitempty"`
	Volume     *RecordEntry  `json:"volume,omitempty"`
	Duration   *RecordEntry  `json:"duration,omitempty"`
	Distance   *RecordEntry  `json:"distance,omitempty"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func (r *PersonalRecord) Get(m Metric) *RecordEntry {
	if r == nil {
		return nil
	}
	switch m {
	case MetricWeight:
		return r.Weight
	case MetricReps:
		return r.Reps
	case MetricVolume:
		return r.Volume
	case MetricDuration:
		return r.Duration
	case MetricDistance:
		return r.Distance
	}
	return nil
}

func (r *PersonalRecord) Set(m Metric, e *RecordEntry) {
	switch m {
	case MetricWeight:
		r.Weight = e
	case MetricReps:
		r.Reps = e
	case MetricVolume:
		r.Volume = e
	case MetricDuration:
		r.Duration = e
	case MetricDistance:
		r.Distance = e
	}
}

// Empty reports whether no metric holds a value.
func (r *PersonalRecord) Empty() bool {
	if r == nil {
		return true
	}
	for _, m := range AllMetrics() {
		if r.Get(m) != nil {
			return false
		}
	}
	return true
}

func (r *PersonalRecord) Clone() *PersonalRecord {
	if r == nil {
		return nil
	}
	c := *r
	for _, m := range AllMetrics() {
		if e := r.Get(m); e != nil {
			ec := *e
			c.Set(m, &ec)
		}
	}
	return &c
}
