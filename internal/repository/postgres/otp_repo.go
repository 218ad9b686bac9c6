// internal/repository/postgres/otp_repo.go
package postgres

import (
	"context"
	"time"

	"resellerpro-service/internal/domain/otp"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OneTimeCodeRepository struct {
	db *pgxpool.Pool
}

func NewOneTimeCodeRepository(db *pgxpool.Pool) *OneTimeCodeRepository {
	return &OneTimeCodeRepository{db: db}
}

// Create inserts a new hashed code row.
func (r *OneTimeCodeRepository) Create(ctx context.Context, code *otp.OneTimeCode) error {
	query := `
		INSERT INTO one_time_codes (email, code_hash, expires_at, verified, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(
		ctx, query,
		code.Email, code.CodeHash, code.ExpiresAt, code.Verified, code.CreatedAt,
	).Scan(&code.ID)

	if err != nil {
		return storeError("failed to create one-time code", err)
	}

	return nil
}

// ExistsCreatedSince reports whether any code for the email was
// created after the cutoff, regardless of its verified or expired
// state. Rows are never deleted, so this doubles as the cooldown
// history.
func (r *OneTimeCodeRepository) ExistsCreatedSince(ctx context.Context, email string, cutoff time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM one_time_codes
			WHERE email = $1 AND created_at > $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email, cutoff).Scan(&exists); err != nil {
		return false, storeError("failed to check code cooldown", err)
	}

	return exists, nil
}

// Consume flips verified on the single row matching an unverified,
// unexpired code for the email. The UPDATE is the single-use
// mechanism: the row qualifies at most once, and a concurrent consume
// of the same code leaves exactly one winner.
func (r *OneTimeCodeRepository) Consume(ctx context.Context, email, codeHash string, now time.Time) (bool, error) {
	query := `
		UPDATE one_time_codes
		SET verified = TRUE
		WHERE email = $1 AND code_hash = $2 AND verified = FALSE AND expires_at > $3
	`

	tag, err := r.db.Exec(ctx, query, email, codeHash, now)
	if err != nil {
		return false, storeError("failed to consume one-time code", err)
	}

	return tag.RowsAffected() == 1, nil
}
