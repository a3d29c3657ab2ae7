package repository

import (
	"context"
	"time"

	"github.com/bloomaccess/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Users             Users
	UserVerifications UserVerifications
	Transactor        Transactor
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Users:             newUserRepository(db),
		UserVerifications: newUserVerificationRepository(db),
		Transactor:        newTransactor(db),
	}
}

type Users interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	SetVerifiedWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	DeleteUnverifiedWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (bool, error)
}

type UserVerifications interface {
	Create(ctx context.Context, userVerification *domain.UserVerification) error
	GetOneByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserVerification, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteByUserIDWithTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error
	ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.UserVerification, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error
}
