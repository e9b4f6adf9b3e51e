package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS job_applications (
	id                  UUID PRIMARY KEY,
	user_id             UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	full_name           TEXT NOT NULL,
	phone               TEXT NOT NULL,
	email               TEXT NOT NULL,
	description         TEXT NOT NULL,
	role                TEXT NOT NULL,
	job_title           TEXT NOT NULL,
	company             TEXT NOT NULL,
	location            TEXT NOT NULL,
	resume_data         BYTEA,
	resume_content_type TEXT NOT NULL DEFAULT '',
	resume_object_key   TEXT NOT NULL DEFAULT '',
	status              TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected')),
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS job_applications_created_at_idx ON job_applications (created_at DESC);
CREATE INDEX IF NOT EXISTS job_applications_user_id_idx ON job_applications (user_id, created_at DESC);
`

// EnsureSchema creates the tables if they do not exist yet. Safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == pgUniqueViolation }

// isInvalidID reports a malformed uuid literal, which can never match a row.
func isInvalidID(err error) bool { return pgCode(err) == pgInvalidText }
