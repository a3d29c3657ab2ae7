package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bloomaccess/backend/internal/db"
	"github.com/bloomaccess/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

func newUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const op = "repository.user.Create"

	const query = `
	INSERT INTO user
	(id, name, email, date_of_birth, password, verified)
	VALUES(uuid_to_bin(?), ?, ?, ?, ?, ?);
	`

	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.DateOfBirth,
		user.Password,
		user.Verified,
	)
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("%s: insert user failed: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected failed: %w", op, err)
	}

	if rowsAffected == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "repository.user.GetByEmail"

	const query = `
	SELECT id, name, email, date_of_birth, password, verified, created_at, updated_at FROM user WHERE email = ?;
	`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select user by email failed: %w", op, err)
	}

	return &user, nil
}

func (r *userRepository) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "repository.user.GetOneByID"

	const query = `
	SELECT id, name, email, date_of_birth, password, verified, created_at, updated_at FROM user WHERE id = uuid_to_bin(?);
	`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select user by id failed: %w", op, err)
	}

	return &user, nil
}

// SetVerifiedWithTx returns domain.ErrNoRowsAffected when the user is gone
// or was already verified.
func (r *userRepository) SetVerifiedWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	const op = "repository.user.SetVerifiedWithTx"

	const query = `
	UPDATE user SET verified = TRUE WHERE id = uuid_to_bin(?) AND verified = FALSE;
	`
	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: update user failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

// DeleteUnverifiedWithTx removes the account only while it is still
// unverified and reports whether a row was deleted.
func (r *userRepository) DeleteUnverifiedWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (bool, error) {
	const op = "repository.user.DeleteUnverifiedWithTx"

	const query = `
	DELETE FROM user WHERE id = uuid_to_bin(?) AND verified = FALSE;
	`
	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("%s: delete user failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	return rows > 0, nil
}
