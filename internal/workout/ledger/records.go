package ledger

import (
	"sort"

	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/tracking"
)

// Compute builds the personal record of one exercise from scratch, using only
// the given sets. It is the single place a record is derived; every write
// path goes through it. It returns nil when no set carries a value for any
// metric of the mode.
func Compute(userID, exerciseID string, mode tracking.Mode, sets []workout.ExerciseSet) *workout.PersonalRecord {
	ordered := make([]workout.ExerciseSet, len(sets))
	copy(ordered, sets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Before(ordered[j])
	})

	rec := &workout.PersonalRecord{
		UserID:     userID,
		ExerciseID: exerciseID,
		Mode:       mode,
	}
	for _, rule := range RulesFor(mode) {
		var best *workout.RecordEntry
		for _, s := range ordered {
			v, ok := rule.Value(s.Fields)
			if !ok {
				continue
			}
			if best == nil || rule.Better(v, best.Value) {
				best = &workout.RecordEntry{
					Value:      v,
					AchievedOn: s.SessionDate,
					SetID:      s.ID,
					SessionID:  s.SessionID,
				}
			}
		}
		rec.Set(rule.Metric, best)
	}

	if rec.Empty() {
		return nil
	}
	return rec
}

// Improvements compares a candidate record against the current one and
// returns a record holding only the metrics where candidate strictly wins,
// plus the list of those metrics. A nil current record loses every metric.
func Improvements(current, candidate *workout.PersonalRecord) (*workout.PersonalRecord, []workout.Metric) {
	if candidate == nil {
		return nil, nil
	}

	staged := &workout.PersonalRecord{
		UserID:     candidate.UserID,
		ExerciseID: candidate.ExerciseID,
		Mode:       candidate.Mode,
	}
	var improved []workout.Metric
	for _, rule := range RulesFor(candidate.Mode) {
		c := candidate.Get(rule.Metric)
		if c == nil {
			continue
		}
		if old := current.Get(rule.Metric); old != nil && !rule.Better(c.Value, old.Value) {
			continue
		}
		e := *c
		staged.Set(rule.Metric, &e)
		improved = append(improved, rule.Metric)
	}

	if len(improved) == 0 {
		return nil, nil
	}
	return staged, improved
}

// MergeBetter overlays every metric of staged that beats current.
// It never regresses a metric of current.
func MergeBetter(current, staged *workout.PersonalRecord) *workout.PersonalRecord {
	if staged == nil {
		return current.Clone()
	}
	if current == nil {
		return staged.Clone()
	}

	merged := current.Clone()
	merged.Mode = staged.Mode
	for _, rule := range RulesFor(staged.Mode) {
		s := staged.Get(rule.Metric)
		if s == nil {
			continue
		}
		if old := merged.Get(rule.Metric); old == nil || rule.Better(s.Value, old.Value) {
			e := *s
			merged.Set(rule.Metric, &e)
		}
	}
	return merged
}

// FlagSets marks every set whose value equals an improved metric of
// candidate. Ties within the submission are all flagged.
func FlagSets(sets []workout.ExerciseSet, candidate *workout.PersonalRecord, improved []workout.Metric) {
	if candidate == nil || len(improved) == 0 {
		return
	}

	rules := map[workout.Metric]Rule{}
	for _, r := range RulesFor(candidate.Mode) {
		rules[r.Metric] = r
	}

	for i := range sets {
		for _, m := range improved {
			best := candidate.Get(m)
			rule, ok := rules[m]
			if best == nil || !ok {
				continue
			}
			if v, has := rule.Value(sets[i].Fields); has && v == best.Value {
				sets[i].PR.Set(m, true)
			}
		}
	}
}

// RecordFlags re-derives the PR flags of a set against a recomputed record:
// a metric is flagged iff the set's value equals the record's best. Ties are
// all flagged, as at log time.
func RecordFlags(rec *workout.PersonalRecord, s workout.ExerciseSet) workout.PRFlags {
	var flags workout.PRFlags
	if rec == nil {
		return flags
	}
	for _, rule := range RulesFor(rec.Mode) {
		best := rec.Get(rule.Metric)
		if best == nil {
			continue
		}
		if v, ok := rule.Value(s.Fields); ok && v == best.Value {
			flags.Set(rule.Metric, true)
		}
	}
	return flags
}
