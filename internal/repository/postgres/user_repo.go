// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"errors"

	xerrors "resellerpro-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository covers the two user lookups the trust core needs.
// Everything else about users belongs to the rest of the dashboard.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// FindIDByEmail resolves a user id for token issuance after login.
func (r *UserRepository) FindIDByEmail(ctx context.Context, email string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, xerrors.ErrNotFound
	}
	if err != nil {
		return 0, storeError("failed to find user", err)
	}

	return id, nil
}

// MarkEmailVerified flips the user's verified flag after a successful
// verify_email code check.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE email = $1`, email)
	if err != nil {
		return storeError("failed to mark email verified", err)
	}

	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
