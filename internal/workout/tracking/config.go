package tracking

// Applicability lists which inputs are meaningful for a mode.
type Applicability struct {
	Sets     bool `json:"sets"`
	Reps     bool `json:"reps"`
	Weight   bool `json:"weight"`
	Duration bool `json:"duration"`
	Distance bool `json:"distance"`
	PerSide  bool `json:"perSide"`
}

type Labels struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
	Unit      string `json:"unit"`
}

type Defaults struct {
	Sets            int      `json:"sets"`
	Reps            *int     `json:"reps,omitempty"`
	WeightKg        *float64 `json:"weightKg,omitempty"`
	DurationSeconds *int     `json:"durationSeconds,omitempty"`
	DistanceMeters  *float64 `json:"distanceMeters,omitempty"`
}

type ModeConfig struct {
	Mode     Mode          `json:"mode"`
	Fields   Applicability `json:"fields"`
	Labels   Labels        `json:"labels"`
	Defaults Defaults      `json:"defaults"`
}

// ConfigFor is total over Mode.
func ConfigFor(m Mode) ModeConfig {
	c := Match[ModeConfig](m, configVisitor{})
	c.Mode = m
	return c
}

type configVisitor struct{}

func (configVisitor) WeightReps() ModeConfig {
	return ModeConfig{
		Fields:   Applicability{Sets: true, Reps: true, Weight: true},
		Labels:   Labels{Primary: "Weight", Secondary: "Reps", Unit: "kg"},
		Defaults: Defaults{Sets: 3, Reps: IntPtr(10), WeightKg: FloatPtr(20)},
	}
}

func (configVisitor) Duration() ModeConfig {
	return ModeConfig{
		Fields:   Applicability{Sets: true, Duration: true},
		Labels:   Labels{Primary: "Duration", Unit: "seconds"},
		Defaults: Defaults{Sets: 3, DurationSeconds: IntPtr(30)},
	}
}

func (configVisitor) RepsOnly() ModeConfig {
	return ModeConfig{
		Fields:   Applicability{Sets: true, Reps: true},
		Labels:   Labels{Primary: "Reps", Unit: "reps"},
		Defaults: Defaults{Sets: 3, Reps: IntPtr(10)},
	}
}

func (configVisitor) RepsPerSide() ModeConfig {
	return ModeConfig{
		Fields:   Applicability{Sets: true, Reps: true, PerSide: true},
		Labels:   Labels{Primary: "Reps", Secondary: "Each Side", Unit: "reps"},
		Defaults: Defaults{Sets: 3, Reps: IntPtr(15)},
	}
}

func (configVisitor) DistanceTime() ModeConfig {
	return ModeConfig{
		Fields:   Applicability{Sets: true, Duration: true, Distance: true},
		Labels:   Labels{Primary: "Distance", Secondary: "Time", Unit: "meters"},
		Defaults: Defaults{Sets: 1, DistanceMeters: FloatPtr(1000), DurationSeconds: IntPtr(300)},
	}
}

func (configVisitor) RepsDuration() ModeConfig {
	return ModeConfig{
		Fields:   Applicability{Sets: true, Reps: true, Duration: true},
		Labels:   Labels{Primary: "Reps", Secondary: "Duration", Unit: "reps"},
		Defaults: Defaults{Sets: 3, Reps: IntPtr(100), DurationSeconds: IntPtr(60)},
	}
}

func (configVisitor) DistanceOnly() ModeConfig {
	return ModeConfig{
		Fields:   Applicability{Sets: true, Distance: true},
		Labels:   Labels{Primary: "Distance", Unit: "meters"},
		Defaults: Defaults{Sets: 1, DistanceMeters: FloatPtr(1000)},
	}
}

func (configVisitor) AMRAP() ModeConfig {
	return ModeConfig{
		Fields:   Applicability{Sets: true, Reps: true, Duration: true},
		Labels:   Labels{Primary: "Reps", Secondary: "in Time", Unit: "reps"},
		Defaults: Defaults{Sets: 1, Reps: IntPtr(0), DurationSeconds: IntPtr(60)},
	}
}
