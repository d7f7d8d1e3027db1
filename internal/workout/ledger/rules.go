package ledger

import (
	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/tracking"
)

// Rule describes how one record metric is read from a set and compared.
type Rule struct {
	Metric        workout.Metric
	LowerIsBetter bool
	value         func(tracking.Fields) float64
}

// Value returns the metric value of f, or false when f carries none.
// Zero and negative values never count towards a record.
func (r Rule) Value(f tracking.Fields) (float64, bool) {
	v := r.value(f)
	return v, v > 0
}

// Better reports whether candidate strictly beats current.
func (r Rule) Better(candidate, current float64) bool {
	if r.LowerIsBetter {
		return candidate < current
	}
	return candidate > current
}

// RulesFor lists the record metrics a mode declares.
func RulesFor(m tracking.Mode) []Rule {
	return tracking.Match[[]Rule](m, rulesVisitor{mode: m})
}

type rulesVisitor struct {
	mode tracking.Mode
}

func (v rulesVisitor) volume() Rule {
	mode := v.mode
	return Rule{
		Metric: workout.MetricVolume,
		value:  func(f tracking.Fields) float64 { return tracking.Work(mode, f) },
	}
}

func (v rulesVisitor) WeightReps() []Rule {
	return []Rule{weightRule, repsRule, v.volume()}
}

func (v rulesVisitor) Duration() []Rule {
	return []Rule{durationRule, v.volume()}
}

func (v rulesVisitor) RepsOnly() []Rule {
	return []Rule{repsRule, v.volume()}
}

func (v rulesVisitor) RepsPerSide() []Rule {
	return []Rule{repsRule, v.volume()}
}

// DistanceTime keeps the longest distance and the fastest time.
func (v rulesVisitor) DistanceTime() []Rule {
	fastest := durationRule
	fastest.LowerIsBetter = true
	return []Rule{distanceRule, fastest, v.volume()}
}

func (v rulesVisitor) RepsDuration() []Rule {
	return []Rule{repsRule, durationRule, v.volume()}
}

func (v rulesVisitor) DistanceOnly() []Rule {
	return []Rule{distanceRule, v.volume()}
}

func (v rulesVisitor) AMRAP() []Rule {
	return []Rule{repsRule, durationRule, v.volume()}
}

var (
	weightRule = Rule{
		Metric: workout.MetricWeight,
		value: func(f tracking.Fields) float64 {
			if f.WeightKg == nil {
				return 0
			}
			return *f.WeightKg
		},
	}
	repsRule = Rule{
		Metric: workout.MetricReps,
		value: func(f tracking.Fields) float64 {
			if f.Reps == nil {
				return 0
			}
			return float64(*f.Reps)
		},
	}
	durationRule = Rule{
		Metric: workout.MetricDuration,
		value: func(f tracking.Fields) float64 {
			if f.DurationSeconds == nil {
				return 0
			}
			return float64(*f.DurationSeconds)
		},
	}
	distanceRule = Rule{
		Metric: workout.MetricDistance,
		value: func(f tracking.Fields) float64 {
			if f.DistanceMeters == nil {
				return 0
			}
			return *f.DistanceMeters
		},
	}
)
