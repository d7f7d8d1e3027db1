package pgstore

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS exercise_definitions (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	name         TEXT NOT NULL,
	origin       TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	muscle_group TEXT NOT NULL DEFAULT '',
	equipment    TEXT NOT NULL DEFAULT '',
	mode         TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, name, origin)
);

CREATE TABLE IF NOT EXISTS workout_sessions (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	date             DATE NOT NULL,
	name             TEXT NOT NULL,
	type             TEXT NOT NULL,
	started_at       TIMESTAMPTZ NOT NULL,
	ended_at         TIMESTAMPTZ NOT NULL,
	duration_minutes INT NOT NULL,
	exercise_count   INT NOT NULL,
	set_count        INT NOT NULL,
	total_reps       INT NOT NULL,
	total_work       DOUBLE PRECISION NOT NULL,
	calories         INT NOT NULL,
	status           TEXT NOT NULL,
	note             TEXT NOT NULL DEFAULT '',
	plan_id          TEXT NOT NULL DEFAULT '',
	plan_day_name    TEXT NOT NULL DEFAULT '',
	from_ai_plan     BOOLEAN NOT NULL DEFAULT FALSE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ix_workout_sessions_user_date
	ON workout_sessions (user_id, date DESC, started_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS exercise_sets (
	id               TEXT PRIMARY KEY,
	session_id       TEXT NOT NULL REFERENCES workout_sessions (id) ON DELETE CASCADE,
	exercise_id      TEXT NOT NULL REFERENCES exercise_definitions (id),
	user_id          TEXT NOT NULL,
	set_index        INT NOT NULL,
	mode             TEXT NOT NULL,
	reps             INT,
	weight_kg        DOUBLE PRECISION,
	duration_seconds INT,
	distance_meters  DOUBLE PRECISION,
	pr_weight        BOOLEAN NOT NULL DEFAULT FALSE,
	pr_reps          BOOLEAN NOT NULL DEFAULT FALSE,
	pr_volume        BOOLEAN NOT NULL DEFAULT FALSE,
	pr_duration      BOOLEAN NOT NULL DEFAULT FALSE,
	pr_distance      BOOLEAN NOT NULL DEFAULT FALSE,
	warmup           BOOLEAN NOT NULL DEFAULT FALSE,
	drop_set         BOOLEAN NOT NULL DEFAULT FALSE,
	failure          BOOLEAN NOT NULL DEFAULT FALSE,
	rpe              DOUBLE PRECISION,
	rest_seconds     INT,
	tempo            TEXT NOT NULL DEFAULT '',
	note             TEXT NOT NULL DEFAULT '',
	session_date     DATE NOT NULL,
	performed_at     TIMESTAMPTZ NOT NULL,
	CONSTRAINT ck_exercise_sets_non_negative CHECK (
		COALESCE(reps, 0) >= 0 AND COALESCE(weight_kg, 0) >= 0 AND
		COALESCE(duration_seconds, 0) >= 0 AND COALESCE(distance_meters, 0) >= 0
	)
);

CREATE INDEX IF NOT EXISTS ix_exercise_sets_session ON exercise_sets (session_id);
CREATE INDEX IF NOT EXISTS ix_exercise_sets_user_exercise ON exercise_sets (user_id, exercise_id);

CREATE TABLE IF NOT EXISTS personal_records (
	user_id             TEXT NOT NULL,
	exercise_id         TEXT NOT NULL REFERENCES exercise_definitions (id),
	mode                TEXT NOT NULL,
	weight_value        DOUBLE PRECISION,
	weight_on           DATE,
	weight_set_id       TEXT,
	weight_session_id   TEXT,
	reps_value          DOUBLE PRECISION,
	reps_on             DATE,
	reps_set_id         TEXT,
	reps_session_id     TEXT,
	volume_value        DOUBLE PRECISION,
	volume_on           DATE,
	volume_set_id       TEXT,
	volume_session_id   TEXT,
	duration_value      DOUBLE PRECISION,
	duration_on         DATE,
	duration_set_id     TEXT,
	duration_session_id TEXT,
	distance_value      DOUBLE PRECISION,
	distance_on         DATE,
	distance_set_id     TEXT,
	distance_session_id TEXT,
	updated_at          TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, exercise_id)
);

CREATE TABLE IF NOT EXISTS exercise_history (
	id                   TEXT PRIMARY KEY,
	user_id              TEXT NOT NULL,
	exercise_id          TEXT NOT NULL REFERENCES exercise_definitions (id),
	session_id           TEXT NOT NULL REFERENCES workout_sessions (id) ON DELETE CASCADE,
	date                 DATE NOT NULL,
	set_count            INT NOT NULL,
	avg_reps             INT,
	avg_weight_kg        DOUBLE PRECISION,
	avg_duration_seconds DOUBLE PRECISION,
	avg_distance_meters  DOUBLE PRECISION,
	note                 TEXT NOT NULL DEFAULT '',
	completed_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_exercise_history_user_exercise
	ON exercise_history (user_id, exercise_id, date DESC, completed_at DESC);
`

// Migrate creates the ledger tables when missing. It is safe to run on every
// startup.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
