package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates all fitpoints tables. Every statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS app_user
(
    id            SERIAL PRIMARY KEY,
    username      VARCHAR(150) NOT NULL UNIQUE,
    password_hash VARCHAR      NOT NULL,
    email         VARCHAR      NOT NULL DEFAULT '',
    first_name    VARCHAR      NOT NULL DEFAULT '',
    last_name     VARCHAR      NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS exercise
(
    id              SERIAL PRIMARY KEY,
    name            VARCHAR(100) NOT NULL UNIQUE,
    activity        VARCHAR(50)  NOT NULL,
    type            VARCHAR(50)  NOT NULL,
    muscle_group    VARCHAR(50)  NOT NULL,
    sub_group       VARCHAR(50),
    training_points INTEGER      NOT NULL DEFAULT 1 CHECK (training_points > 0)
);

CREATE TABLE IF NOT EXISTS routine
(
    id   SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS routine_exercise
(
    routine_id  INTEGER NOT NULL REFERENCES routine (id) ON DELETE CASCADE,
    exercise_id INTEGER NOT NULL REFERENCES exercise (id) ON DELETE CASCADE,
    PRIMARY KEY (routine_id, exercise_id)
);

CREATE TABLE IF NOT EXISTS routine_plan
(
    id         SERIAL PRIMARY KEY,
    user_id    INTEGER NOT NULL REFERENCES app_user (id) ON DELETE CASCADE,
    routine_id INTEGER NOT NULL REFERENCES routine (id) ON DELETE CASCADE,
    date       DATE    NOT NULL,
    UNIQUE (user_id, date)
);

CREATE TABLE IF NOT EXISTS exercise_log
(
    id          SERIAL PRIMARY KEY,
    user_id     INTEGER NOT NULL REFERENCES app_user (id) ON DELETE CASCADE,
    exercise_id INTEGER NOT NULL REFERENCES exercise (id) ON DELETE CASCADE,
    date        DATE    NOT NULL,
    completed   BOOLEAN NOT NULL DEFAULT false,
    UNIQUE (user_id, exercise_id, date)
);

CREATE TABLE IF NOT EXISTS weekly_target
(
    id            SERIAL PRIMARY KEY,
    user_id       INTEGER NOT NULL REFERENCES app_user (id) ON DELETE CASCADE,
    year          INTEGER NOT NULL,
    week          INTEGER NOT NULL CHECK (week BETWEEN 1 AND 53),
    target_points INTEGER NOT NULL DEFAULT 50 CHECK (target_points >= 0),
    UNIQUE (user_id, year, week)
);

CREATE INDEX IF NOT EXISTS ix_routine_plan_user_date ON routine_plan (user_id, date);
CREATE INDEX IF NOT EXISTS ix_exercise_log_user_date ON exercise_log (user_id, date);
`

// Migrate ensures all tables exist. Call once at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
