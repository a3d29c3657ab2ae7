package hash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxInputLength is the longest plaintext bcrypt accepts.
const MaxInputLength = 72

var (
	ErrEmptyInput   = errors.New("empty input")
	ErrInputTooLong = errors.New("input longer than 72 bytes")
)

// PasswordHasher provides salted one-way hashing used for account passwords
// and verification tokens.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext string, digest string) (bool, error)
}

// BcryptHasher hashes with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyInput
	}
	if len(plaintext) > MaxInputLength {
		return "", ErrInputTooLong
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate failed: %w", err)
	}

	return string(digest), nil
}

// Compare reports whether plaintext matches digest. A mismatch is not an
// error; a malformed digest is. Plaintext Hash would reject never matches,
// since bcrypt ignores bytes past the limit.
func (h *BcryptHasher) Compare(plaintext string, digest string) (bool, error) {
	if len(plaintext) > MaxInputLength {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("bcrypt compare failed: %w", err)
}
