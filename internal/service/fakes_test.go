package service

import (
	"context"
	"path"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/bloomaccess/backend/internal/domain"
	"github.com/bloomaccess/backend/internal/repository"
	"github.com/bloomaccess/backend/pkg/hash"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memStore is an in-memory stand-in for both tables.
type memStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]domain.User
	verifications map[uuid.UUID]domain.UserVerification
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[uuid.UUID]domain.User),
		verifications: make(map[uuid.UUID]domain.UserVerification),
	}
}

func (m *memStore) challengesFor(userID uuid.UUID) []domain.UserVerification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.UserVerification
	for _, v := range m.verifications {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out
}

func (m *memStore) user(id uuid.UUID) (domain.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	return u, ok
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEntry
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memUsers) GetOneByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) SetVerifiedWithTx(_ context.Context, _ *sqlx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Verified {
		return domain.ErrNoRowsAffected
	}
	u.Verified = true
	r.users[id] = u
	return nil
}

func (r memUsers) DeleteUnverifiedWithTx(_ context.Context, _ *sqlx.Tx, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Verified {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

type memVerifications struct{ *memStore }

func (r memVerifications) Create(_ context.Context, v *domain.UserVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verifications[v.ID] = *v
	return nil
}

func (r memVerifications) GetOneByUserID(_ context.Context, userID uuid.UUID) (*domain.UserVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *domain.UserVerification
	for _, v := range r.verifications {
		if v.UserID == userID && (found == nil || v.CreatedAt.After(found.CreatedAt)) {
			v := v
			found = &v
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

func (r memVerifications) DeleteByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, v := range r.verifications {
		if v.UserID == userID {
			delete(r.verifications, id)
			n++
		}
	}
	return n, nil
}

func (r memVerifications) DeleteByUserIDWithTx(ctx context.Context, _ *sqlx.Tx, userID uuid.UUID) error {
	_, err := r.DeleteByUserID(ctx, userID)
	return err
}

func (r memVerifications) ListExpired(_ context.Context, now time.Time, limit int) ([]domain.UserVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.UserVerification
	for _, v := range r.verifications {
		if !v.ExpireAt.After(now) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpireAt.Before(out[j].ExpireAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memTransactor struct{}

func (memTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	return fn(ctx, nil)
}

var (
	_ repository.Users             = memUsers{}
	_ repository.UserVerifications = memVerifications{}
	_ repository.Transactor        = memTransactor{}
)

type captureMailer struct {
	mu   sync.Mutex
	sent []VerificationEmailInput
	err  error
	// block makes the mailer wait for ctx cancellation.
	block bool
}

func (m *captureMailer) SendUserVerificationEmail(ctx context.Context, input VerificationEmailInput) error {
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, input)
	return nil
}

// lastToken returns the plaintext token of the most recent link.
func (m *captureMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no verification email sent")
	return path.Base(m.sent[len(m.sent)-1].Link)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const testTTL = 6 * time.Hour

type testEnv struct {
	store         *memStore
	mailer        *captureMailer
	clock         *testClock
	hasher        hash.PasswordHasher
	verifications *verificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hasher, err := hash.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	env := &testEnv{
		store:  newMemStore(),
		mailer: &captureMailer{},
		clock:  &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		hasher: hasher,
	}
	env.verifications = newVerificationService(
		memUsers{env.store},
		memVerifications{env.store},
		memTransactor{},
		hasher,
		env.mailer,
		VerificationConfig{BaseURL: "http://localhost:8080/", TTL: testTTL, MailTimeout: time.Second},
		env.clock.Now,
	)
	return env
}

// pendingUser stores an unverified account directly.
func (e *testEnv) pendingUser(t *testing.T, email string) domain.User {
	t.Helper()
	u := domain.User{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        "Jane Doe",
		Email:       email,
		DateOfBirth: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Password:    "unused",
	}
	require.NoError(t, memUsers{e.store}.Create(context.Background(), &u))
	return u
}
