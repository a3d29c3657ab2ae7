package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `db:"id" json:"_id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	DateOfBirth time.Time `db:"date_of_birth" json:"dateOfBirth"`
	Password    string    `db:"password" json:"-"`
	Verified    bool      `db:"verified" json:"verified"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NormalizeEmail returns the uniqueness key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
