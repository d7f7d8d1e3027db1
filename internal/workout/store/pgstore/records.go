package pgstore

import (
	"fmt"
	"strings"

	"github.com/2beens/liftledger/internal/workout/ledger"
	"github.com/2beens/liftledger/internal/workout/tracking"
)

var (
	// upsertIfBetterSQL holds one conditional upsert per mode.
	upsertIfBetterSQL = map[tracking.Mode]string{}
	replaceRecordSQL  string
)

func init() {
	for _, m := range tracking.All() {
		upsertIfBetterSQL[m] = buildUpsertIfBetter(m)
	}
	replaceRecordSQL = buildReplaceRecord()
}

func insertRecordPrefix() string {
	cols := recordColumnList()
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO personal_records (%s)\nVALUES (%s)\nON CONFLICT (user_id, exercise_id) DO UPDATE SET\n",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
}

// improvesCondition is true when the submitted value of a metric strictly
// beats the stored one, or nothing is stored yet.
func improvesCondition(rule ledger.Rule) string {
	col := rule.Metric.String() + "_value"
	op := ">"
	if rule.LowerIsBetter {
		op = "<"
	}
	return fmt.Sprintf(
		"EXCLUDED.%[1]s IS NOT NULL AND EXCLUDED.%[1]s > 0 AND (personal_records.%[1]s IS NULL OR EXCLUDED.%[1]s %[2]s personal_records.%[1]s)",
		col, op,
	)
}

// buildUpsertIfBetter writes each metric the mode declares only where it
// improves, so concurrent writers can never lower a stored record.
func buildUpsertIfBetter(m tracking.Mode) string {
	var sets []string
	for _, rule := range ledger.RulesFor(m) {
		cond := improvesCondition(rule)
		for _, col := range recordMetricColumns(rule.Metric) {
			sets = append(sets, fmt.Sprintf(
				"\t%[1]s = CASE WHEN %[2]s THEN EXCLUDED.%[1]s ELSE personal_records.%[1]s END",
				col, cond,
			))
		}
	}
	sets = append(sets, "\tmode = EXCLUDED.mode", "\tupdated_at = EXCLUDED.updated_at")
	return insertRecordPrefix() + strings.Join(sets, ",\n")
}

func buildReplaceRecord() string {
	var sets []string
	for _, col := range recordColumnList()[2:] {
		sets = append(sets, fmt.Sprintf("\t%[1]s = EXCLUDED.%[1]s", col))
	}
	return insertRecordPrefix() + strings.Join(sets, ",\n")
}

func selectRecordSQL(where string) string {
	return fmt.Sprintf("SELECT %s FROM personal_records WHERE %s",
		strings.Join(recordColumnList(), ", "), where)
}
