package tracking

import (
	"fmt"
	"strconv"
)

// Placeholder is rendered for values that were not recorded.
const Placeholder = "—"

// FormatSet renders a set for history and summary views.
func FormatSet(m Mode, f Fields) string {
	return Match[string](m, formatVisitor{f: f})
}

type formatVisitor struct {
	f Fields
}

func (v formatVisitor) WeightReps() string {
	if v.f.weight() > 0 {
		return fmt.Sprintf("%d × %s kg", v.f.reps(), number(v.f.weight()))
	}
	return fmt.Sprintf("%d reps", v.f.reps())
}

func (v formatVisitor) Duration() string {
	d := v.f.duration()
	if d == 0 {
		return Placeholder
	}
	if d >= 60 {
		return clock(d) + " min"
	}
	return fmt.Sprintf("%d s", d)
}

func (v formatVisitor) RepsOnly() string {
	return fmt.Sprintf("%d reps", v.f.reps())
}

func (v formatVisitor) RepsPerSide() string {
	return fmt.Sprintf("%d each side", v.f.reps())
}

func (v formatVisitor) DistanceTime() string {
	return fmt.Sprintf("%s m in %s", number(v.f.distance()), clockOrPlaceholder(v.f.duration()))
}

func (v formatVisitor) RepsDuration() string {
	return fmt.Sprintf("%d reps in %d s", v.f.reps(), v.f.duration())
}

func (v formatVisitor) DistanceOnly() string {
	return number(v.f.distance()) + " m"
}

func (v formatVisitor) AMRAP() string {
	return fmt.Sprintf("%d reps in %s", v.f.reps(), clockOrPlaceholder(v.f.duration()))
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// clock renders seconds as m:ss.
func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func clockOrPlaceholder(seconds int) string {
	if seconds <= 0 {
		return Placeholder
	}
	return clock(seconds)
}
