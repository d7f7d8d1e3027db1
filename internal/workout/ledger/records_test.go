package ledger_test

import (
	"testing"
	"time"

	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/ledger"
	"github.com/2beens/liftledger/internal/workout/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(id string, date time.Time, index int, f tracking.Fields) workout.ExerciseSet {
	return workout.ExerciseSet{
		ID:          id,
		SessionID:   "s-" + date.Format(time.DateOnly),
		SetIndex:    index,
		Fields:      f,
		SessionDate: date,
		PerformedAt: date.Add(8 * time.Hour),
	}
}

func TestRulesFor(t *testing.T) {
	expected := map[tracking.Mode][]workout.Metric{
		tracking.WeightReps:   {workout.MetricWeight, workout.MetricReps, workout.MetricVolume},
		tracking.Duration:     {workout.MetricDuration, workout.MetricVolume},
		tracking.RepsOnly:     {workout.MetricReps, workout.MetricVolume},
		tracking.RepsPerSide:  {workout.MetricReps, workout.MetricVolume},
		tracking.DistanceTime: {workout.MetricDistance, workout.MetricDuration, workout.MetricVolume},
		tracking.RepsDuration: {workout.MetricReps, workout.MetricDuration, workout.MetricVolume},
		tracking.DistanceOnly: {workout.MetricDistance, workout.MetricVolume},
		tracking.AMRAP:        {workout.MetricReps, workout.MetricDuration, workout.MetricVolume},
	}
	for _, m := range tracking.All() {
		var got []workout.Metric
		for _, r := range ledger.RulesFor(m) {
			got = append(got, r.Metric)
			lower := m == tracking.DistanceTime && r.Metric == workout.MetricDuration
			assert.Equal(t, lower, r.LowerIsBetter, "%s %s", m, r.Metric)
		}
		assert.Equal(t, expected[m], got, m.String())
	}
}

func TestRule_ValueIgnoresMissingAndZero(t *testing.T) {
	rules := ledger.RulesFor(tracking.WeightReps)
	weight := rules[0]

	_, ok := weight.Value(tracking.Fields{})
	assert.False(t, ok)
	_, ok = weight.Value(tracking.Fields{WeightKg: tracking.FloatPtr(0)})
	assert.False(t, ok)
	v, ok := weight.Value(tracking.Fields{WeightKg: tracking.FloatPtr(42.5)})
	assert.True(t, ok)
	assert.Equal(t, 42.5, v)
}

func TestCompute_EarliestSetOwnsTies(t *testing.T) {
	f := tracking.Fields{Reps: tracking.IntPtr(5), WeightKg: tracking.FloatPtr(100)}
	later := set("later", day(3), 1, f)
	earlierIdx2 := set("early-2", day(1), 2, f)
	earlierIdx1 := set("early-1", day(1), 1, f)

	rec := ledger.Compute("u", "e", tracking.WeightReps, []workout.ExerciseSet{later, earlierIdx2, earlierIdx1})
	require.NotNil(t, rec)
	assert.Equal(t, "early-1", rec.Weight.SetID)
	assert.Equal(t, day(1), rec.Weight.AchievedOn)
	assert.Equal(t, 500.0, rec.Volume.Value)
	assert.Nil(t, rec.Duration)
	assert.Nil(t, rec.Distance)
}

func TestCompute_NoValues(t *testing.T) {
	assert.Nil(t, ledger.Compute("u", "e", tracking.Duration, nil))
	assert.Nil(t, ledger.Compute("u", "e", tracking.Duration, []workout.ExerciseSet{
		set("a", day(1), 1, tracking.Fields{Reps: tracking.IntPtr(10)}),
	}))
}

func TestCompute_FastestTime(t *testing.T) {
	rec := ledger.Compute("u", "run", tracking.DistanceTime, []workout.ExerciseSet{
		set("a", day(1), 1, tracking.Fields{DistanceMeters: tracking.FloatPtr(5000), DurationSeconds: tracking.IntPtr(1500)}),
		set("b", day(2), 1, tracking.Fields{DistanceMeters: tracking.FloatPtr(3000), DurationSeconds: tracking.IntPtr(900)}),
		set("c", day(3), 1, tracking.Fields{DistanceMeters: tracking.FloatPtr(2000)}),
	})
	require.NotNil(t, rec)
	assert.Equal(t, 5000.0, rec.Distance.Value)
	assert.Equal(t, "a", rec.Distance.SetID)
	assert.Equal(t, 900.0, rec.Duration.Value)
	assert.Equal(t, "b", rec.Duration.SetID)
}

func TestImprovementsAndMerge(t *testing.T) {
	current := &workout.PersonalRecord{
		UserID: "u", ExerciseID: "e", Mode: tracking.WeightReps,
		Weight: &workout.RecordEntry{Value: 100, SetID: "old-w"},
		Reps:   &workout.RecordEntry{Value: 10, SetID: "old-r"},
		Volume: &workout.RecordEntry{Value: 800, SetID: "old-v"},
	}
	candidate := &workout.PersonalRecord{
		UserID: "u", ExerciseID: "e", Mode: tracking.WeightReps,
		Weight: &workout.RecordEntry{Value: 100, SetID: "new-w"},
		Reps:   &workout.RecordEntry{Value: 12, SetID: "new-r"},
		Volume: &workout.RecordEntry{Value: 700, SetID: "new-v"},
	}

	staged, improved := ledger.Improvements(current, candidate)
	require.NotNil(t, staged)
	assert.Equal(t, []workout.Metric{workout.MetricReps}, improved)
	assert.Nil(t, staged.Weight)
	assert.Nil(t, staged.Volume)
	assert.Equal(t, "new-r", staged.Reps.SetID)

	merged := ledger.MergeBetter(current, staged)
	assert.Equal(t, "old-w", merged.Weight.SetID)
	assert.Equal(t, "new-r", merged.Reps.SetID)
	assert.Equal(t, 800.0, merged.Volume.Value)
	// inputs untouched
	assert.Equal(t, 10.0, current.Reps.Value)

	staged, improved = ledger.Improvements(merged, candidate)
	assert.Nil(t, staged)
	assert.Empty(t, improved)

	staged, improved = ledger.Improvements(nil, candidate)
	require.NotNil(t, staged)
	assert.Len(t, improved, 3)

	regress := &workout.PersonalRecord{Mode: tracking.WeightReps, Weight: &workout.RecordEntry{Value: 1}}
	assert.Equal(t, 100.0, ledger.MergeBetter(current, regress).Weight.Value)
}

func TestFlagSets_TiesAllFlagged(t *testing.T) {
	sets := []workout.ExerciseSet{
		set("a", day(1), 1, tracking.Fields{Reps: tracking.IntPtr(10), WeightKg: tracking.FloatPtr(50)}),
		set("b", day(1), 2, tracking.Fields{Reps: tracking.IntPtr(10), WeightKg: tracking.FloatPtr(50)}),
		set("c", day(1), 3, tracking.Fields{Reps: tracking.IntPtr(6), WeightKg: tracking.FloatPtr(50)}),
	}
	candidate := ledger.Compute("u", "e", tracking.WeightReps, sets)
	_, improved := ledger.Improvements(nil, candidate)
	ledger.FlagSets(sets, candidate, improved)

	assert.Equal(t, workout.PRFlags{Weight: true, Reps: true, Volume: true}, sets[0].PR)
	assert.Equal(t, workout.PRFlags{Weight: true, Reps: true, Volume: true}, sets[1].PR)
	assert.Equal(t, workout.PRFlags{Weight: true}, sets[2].PR)
	assert.Equal(t, "a", candidate.Reps.SetID)
}

func TestRecordFlags_MatchesRecomputedBest(t *testing.T) {
	sets := []workout.ExerciseSet{
		set("a", day(1), 1, tracking.Fields{Reps: tracking.IntPtr(5), WeightKg: tracking.FloatPtr(60)}),
		set("b", day(2), 1, tracking.Fields{Reps: tracking.IntPtr(5), WeightKg: tracking.FloatPtr(70)}),
		set("c", day(3), 1, tracking.Fields{Reps: tracking.IntPtr(5), WeightKg: tracking.FloatPtr(70)}),
	}
	sets[0].PR = workout.PRFlags{Weight: true, Reps: true, Volume: true}

	rec := ledger.Compute("u", "e", tracking.WeightReps, sets)
	require.NotNil(t, rec)

	assert.Equal(t, workout.PRFlags{Reps: true}, ledger.RecordFlags(rec, sets[0]))
	assert.Equal(t, workout.PRFlags{Weight: true, Reps: true, Volume: true}, ledger.RecordFlags(rec, sets[1]))
	assert.Equal(t, workout.PRFlags{Weight: true, Reps: true, Volume: true}, ledger.RecordFlags(rec, sets[2]))
	assert.Equal(t, workout.PRFlags{}, ledger.RecordFlags(nil, sets[2]))
}
