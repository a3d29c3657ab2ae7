package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserVerification is a pending email verification challenge. UniqueString
// holds the hash of the token sent by mail, never the token itself.
type UserVerification struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	UniqueString string    `db:"unique_string"`
	CreatedAt    time.Time `db:"created_at"`
	ExpireAt     time.Time `db:"expire_at"`
}

func NewUserVerification(id, userID uuid.UUID, hashedUniqueString string, now time.Time, ttl time.Duration) *UserVerification {
	return &UserVerification{
		ID:           id,
		UserID:       userID,
		UniqueString: hashedUniqueString,
		CreatedAt:    now,
		ExpireAt:     now.Add(ttl),
	}
}

func (v *UserVerification) Expired(now time.Time) bool {
	return !now.Before(v.ExpireAt)
}
