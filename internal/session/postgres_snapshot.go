package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSnapshot stores the session as a single row upserted by profile
// key in the session_snapshots table.
//
// Schema:
//
//	CREATE TABLE session_snapshots (
//	    profile_key     TEXT PRIMARY KEY,
//	    id              TEXT NOT NULL,
//	    phone_number    TEXT NOT NULL,
//	    identity_number TEXT NOT NULL,
//	    display_name    TEXT NOT NULL DEFAULT '',
//	    profile_image   TEXT NOT NULL DEFAULT '',
//	    created_at      TIMESTAMPTZ NOT NULL,
//	    updated_at      TIMESTAMPTZ NOT NULL
//	);
type PostgresSnapshot struct {
	db         *pgxpool.Pool
	profileKey string
}

// NewPostgresSnapshot builds a Postgres-backed snapshot keyed by profile key.
func NewPostgresSnapshot(db *pgxpool.Pool, profileKey string) *PostgresSnapshot {
	if profileKey == "" {
		profileKey = "default"
	}
	return &PostgresSnapshot{db: db, profileKey: profileKey}
}

// Load fetches the persisted session row.
func (p *PostgresSnapshot) Load(ctx context.Context) (Session, error) {
	row := p.db.QueryRow(ctx, `SELECT id, phone_number, identity_number, display_name, profile_image, created_at, updated_at
        FROM session_snapshots WHERE profile_key = $1`, p.profileKey)

	var (
		s                    Session
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&s.ID, &s.PhoneNumber, &s.IdentityNumber, &s.DisplayName, &s.ProfileImage, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNoSnapshot
		}
		return Session{}, fmt.Errorf("query snapshot: %w", err)
	}
	if s.ID == "" {
		return Session{}, ErrCorruptSnapshot
	}
	s.CreatedAt = createdAt.UTC()
	s.UpdatedAt = updatedAt.UTC()
	return s, nil
}

// Save upserts the persisted session row.
func (p *PostgresSnapshot) Save(ctx context.Context, s Session) error {
	_, err := p.db.Exec(ctx, `INSERT INTO session_snapshots (profile_key, id, phone_number, identity_number, display_name, profile_image, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (profile_key) DO UPDATE SET
            id = EXCLUDED.id,
            phone_number = EXCLUDED.phone_number,
            identity_number = EXCLUDED.identity_number,
            display_name = EXCLUDED.display_name,
            profile_image = EXCLUDED.profile_image,
            created_at = EXCLUDED.created_at,
            updated_at = EXCLUDED.updated_at`,
		p.profileKey, s.ID, s.PhoneNumber, s.IdentityNumber, s.DisplayName, s.ProfileImage, s.CreatedAt.UTC(), s.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Clear deletes the persisted session row. Zero rows affected is fine.
func (p *PostgresSnapshot) Clear(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM session_snapshots WHERE profile_key = $1`, p.profileKey); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
