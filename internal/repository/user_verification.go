package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bloomaccess/backend/internal/db"
	"github.com/bloomaccess/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type userVerificationRepository struct {
	db *sqlx.DB
}

func newUserVerificationRepository(db *sqlx.DB) *userVerificationRepository {
	return &userVerificationRepository{
		db: db,
	}
}

func (r *userVerificationRepository) Create(ctx context.Context, userVerification *domain.UserVerification) error {
	const op = "repository.userVerification.Create"

	const query = `
    INSERT INTO user_verification (id, user_id, unique_string, created_at, expire_at)
    VALUES (uuid_to_bin(:id), uuid_to_bin(:user_id), :unique_string, :created_at, :expire_at)
    `

	res, err := r.db.NamedExecContext(ctx, query, userVerification)
	if err != nil {
		if db.IsNoReferencedRow(err) {
			return domain.ErrMissingReference
		}
		return fmt.Errorf("%s: insert user verification failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows != 1 {
		return fmt.Errorf("%s: expected 1 row affected, got %d", op, rows)
	}

	return nil
}

func (r *userVerificationRepository) GetOneByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserVerification, error) {
	const op = "repository.userVerification.GetOneByUserID"

	const query = `
    SELECT id, user_id, unique_string, created_at, expire_at
    FROM user_verification
    WHERE user_id = uuid_to_bin(?)
    ORDER BY created_at DESC
    LIMIT 1
    `

	var userVerification domain.UserVerification
	if err := r.db.GetContext(ctx, &userVerification, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select user verification failed: %w", op, err)
	}

	return &userVerification, nil
}

// DeleteByUserID removes every challenge of the user. Deleting nothing is
// not an error.
func (r *userVerificationRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "repository.userVerification.DeleteByUserID"

	const query = `DELETE FROM user_verification WHERE user_id = uuid_to_bin(?)`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: delete user verification failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	return rows, nil
}

func (r *userVerificationRepository) DeleteByUserIDWithTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	const op = "repository.userVerification.DeleteByUserIDWithTx"

	const query = `DELETE FROM user_verification WHERE user_id = uuid_to_bin(?)`

	if _, err := tx.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: delete user verification failed: %w", op, err)
	}

	return nil
}

func (r *userVerificationRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.UserVerification, error) {
	const op = "repository.userVerification.ListExpired"

	const query = `
    SELECT id, user_id, unique_string, created_at, expire_at
    FROM user_verification
    WHERE expire_at <= ?
    ORDER BY expire_at
    LIMIT ?
    `

	var out []domain.UserVerification
	if err := r.db.SelectContext(ctx, &out, query, now, limit); err != nil {
		return nil, fmt.Errorf("%s: select expired user verifications failed: %w", op, err)
	}

	return out, nil
}
