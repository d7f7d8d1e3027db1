package tracking

import (
	"strings"
)

var (
	weightedEquipment = []string{"barbell", "dumbbell", "kettlebell", "machine", "cable", "plate", "weighted vest"}
	weightedKeywords  = []string{"weighted", "press", "squat", "deadlift", "curl", "row"}
	holdKeywords      = []string{"plank", "wall sit", "hold", "static"}
	unilateralKeywords = []string{
		"russian twist", "side plank", "single leg", "one leg",
		"single arm", "one arm", "lunge", "step up",
	}
	cardioKeywords     = []string{"run", "cycle", "swim", "row"}
	hybridKeywords     = []string{"jump rope", "skipping", "mountain climber"}
	bodyweightKeywords = []string{
		"push up", "push-up", "pull up", "pull-up", "chin up",
		"dip", "sit up", "crunch", "burpee",
	}
)

// SuggestMode guesses a mode for a newly created exercise. The result only
// pre-fills a default and falls back to RepsOnly.
func SuggestMode(category, name string, equipment ...string) Mode {
	name = strings.ToLower(name)
	category = strings.ToLower(strings.TrimSpace(category))
	equip := make([]string, 0, len(equipment))
	for _, e := range equipment {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			equip = append(equip, e)
		}
	}

	if containsAny(equip, weightedEquipment) || hasAnyKeyword(name, weightedKeywords) {
		return WeightReps
	}
	if hasAnyKeyword(name, holdKeywords) {
		return Duration
	}
	if hasAnyKeyword(name, unilateralKeywords) {
		return RepsPerSide
	}
	if category == "cardio" || hasAnyKeyword(name, cardioKeywords) {
		return DistanceTime
	}
	if hasAnyKeyword(name, hybridKeywords) {
		return RepsDuration
	}
	if containsAny(equip, []string{"body weight"}) || hasAnyKeyword(name, bodyweightKeywords) {
		return RepsOnly
	}
	if category == "strength" {
		return WeightReps
	}
	return RepsOnly
}

func hasAnyKeyword(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func containsAny(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
