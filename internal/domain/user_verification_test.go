package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewUserVerification_ExpireAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	v := NewUserVerification(uuid.New(), uuid.New(), "hash", now, 6*time.Hour)

	assert.Equal(t, now, v.CreatedAt)
	assert.Equal(t, now.Add(6*time.Hour), v.ExpireAt)
}

func TestUserVerification_Expired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	v := NewUserVerification(uuid.New(), uuid.New(), "hash", now, time.Hour)

	assert.False(t, v.Expired(now))
	assert.False(t, v.Expired(now.Add(59*time.Minute)))
	assert.True(t, v.Expired(now.Add(time.Hour)))
	assert.True(t, v.Expired(now.Add(2*time.Hour)))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@x.com", NormalizeEmail("  JANE@x.com "))
}
