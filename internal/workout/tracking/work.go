package tracking

// RepsDurationSecondsPerRep is the number of seconds counted as one rep when
// blending reps and duration into a single work value. It is a heuristic,
// not a physical quantity; do not compare reps-duration work across modes.
const RepsDurationSecondsPerRep = 10

// Work is the only place a set's work (volume) value is derived. It is used
// for session totals and as the volume record metric.
func Work(m Mode, f Fields) float64 {
	return Match[float64](m, workVisitor{f: f})
}

type workVisitor struct {
	f Fields
}

func (v workVisitor) WeightReps() float64 {
	return float64(v.f.reps()) * v.f.weight()
}

func (v workVisitor) Duration() float64 {
	return float64(v.f.duration())
}

func (v workVisitor) RepsOnly() float64 {
	return float64(v.f.reps())
}

func (v workVisitor) RepsPerSide() float64 {
	return float64(v.f.reps())
}

func (v workVisitor) DistanceTime() float64 {
	return v.f.distance()
}

func (v workVisitor) RepsDuration() float64 {
	return float64(v.f.reps()) + float64(v.f.duration())/RepsDurationSecondsPerRep
}

func (v workVisitor) DistanceOnly() float64 {
	return v.f.distance()
}

// AMRAP is a max-effort-in-time mode, counted by its time window rather than
// its reps. Under a fixed time cap its volume record therefore moves with the
// duration record; reps are tracked by the reps record.
func (v workVisitor) AMRAP() float64 {
	return float64(v.f.duration())
}
