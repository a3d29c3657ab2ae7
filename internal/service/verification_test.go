package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bloomaccess/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingVerifications struct {
	memVerifications
	err error
}

func (r failingVerifications) Create(context.Context, *domain.UserVerification) error {
	return r.err
}

func TestVerificationService_IssueThenConsume(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.pendingUser(t, "jane@example.com")

	pending, err := env.verifications.Issue(ctx, user.ID, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, pending.UserID)
	assert.Equal(t, user.Email, pending.Email)

	require.Len(t, env.mailer.sent, 1)
	mail := env.mailer.sent[0]
	assert.Equal(t, user.Email, mail.Email)
	assert.Equal(t, testTTL, mail.TTL)
	assert.True(t, strings.HasPrefix(mail.Link, "http://localhost:8080/user/verify/"+user.ID.String()+"/"), mail.Link)

	token := env.mailer.lastToken(t)
	assert.Len(t, token, 72)
	assert.True(t, strings.HasSuffix(token, user.ID.String()))

	challenges := env.store.challengesFor(user.ID)
	require.Len(t, challenges, 1)
	assert.NotEqual(t, token, challenges[0].UniqueString)
	assert.Equal(t, challenges[0].CreatedAt.Add(testTTL), challenges[0].ExpireAt)

	require.NoError(t, env.verifications.Consume(ctx, user.ID.String(), token))

	stored, ok := env.store.user(user.ID)
	require.True(t, ok)
	assert.True(t, stored.Verified)
	assert.Empty(t, env.store.challengesFor(user.ID))
}

func TestVerificationService_ConsumeReplay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.pendingUser(t, "jane@example.com")

	_, err := env.verifications.Issue(ctx, user.ID, user.Email)
	require.NoError(t, err)
	token := env.mailer.lastToken(t)

	require.NoError(t, env.verifications.Consume(ctx, user.ID.String(), token))

	err = env.verifications.Consume(ctx, user.ID.String(), token)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, MsgRecordMissingOrDone, Message(err))
}

func TestVerificationService_ConsumeWrongToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.pendingUser(t, "jane@example.com")

	_, err := env.verifications.Issue(ctx, user.ID, user.Email)
	require.NoError(t, err)
	token := env.mailer.lastToken(t)

	err = env.verifications.Consume(ctx, user.ID.String(), uuid.NewString()+user.ID.String())
	require.ErrorIs(t, err, ErrMismatch)
	assert.Equal(t, MsgInvalidVerification, Message(err))

	stored, _ := env.store.user(user.ID)
	assert.False(t, stored.Verified)
	assert.Len(t, env.store.challengesFor(user.ID), 1)

	require.NoError(t, env.verifications.Consume(ctx, user.ID.String(), token))
}

func TestVerificationService_ConsumeRejectsExtendedToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.pendingUser(t, "jane@example.com")

	_, err := env.verifications.Issue(ctx, user.ID, user.Email)
	require.NoError(t, err)
	token := env.mailer.lastToken(t)
	require.Len(t, token, 72)

	for _, presented := range []string{token + "GARBAGE", token[:71]} {
		err = env.verifications.Consume(ctx, user.ID.String(), presented)
		require.ErrorIs(t, err, ErrMismatch)
		assert.Equal(t, MsgInvalidVerification, Message(err))
	}

	stored, _ := env.store.user(user.ID)
	assert.False(t, stored.Verified)
	require.NoError(t, env.verifications.Consume(ctx, user.ID.String(), token))
}

func TestVerificationService_ConsumeExpired(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		wantErr error
	}{
		{name: "just before expiry", advance: testTTL - time.Second},
		{name: "at expiry", advance: testTTL, wantErr: ErrExpired},
		{name: "well after expiry", advance: 48 * time.Hour, wantErr: ErrExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			user := env.pendingUser(t, "jane@example.com")

			_, err := env.verifications.Issue(ctx, user.ID, user.Email)
			require.NoError(t, err)
			token := env.mailer.lastToken(t)

			env.clock.Advance(tt.advance)

			err = env.verifications.Consume(ctx, user.ID.String(), token)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, MsgLinkExpired, Message(err))

			_, ok := env.store.user(user.ID)
			assert.False(t, ok, "unverified user should be removed with its expired challenge")
			assert.Empty(t, env.store.challengesFor(user.ID))
		})
	}
}

func TestVerificationService_ConsumeInvalidUserID(t *testing.T) {
	env := newTestEnv(t)

	err := env.verifications.Consume(context.Background(), "not-a-uuid", "token")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, MsgRecordMissingOrDone, Message(err))
}

func TestVerificationService_ResendInvalidatesOldLinks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.pendingUser(t, "jane@example.com")

	_, err := env.verifications.Issue(ctx, user.ID, user.Email)
	require.NoError(t, err)
	oldToken := env.mailer.lastToken(t)

	env.clock.Advance(time.Minute)

	pending, err := env.verifications.Resend(ctx, user.ID.String(), "  JANE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, pending.UserID)
	assert.Equal(t, user.Email, pending.Email)

	require.Len(t, env.mailer.sent, 2)
	assert.Equal(t, user.Email, env.mailer.sent[1].Email)
	newToken := env.mailer.lastToken(t)
	assert.NotEqual(t, oldToken, newToken)

	assert.Len(t, env.store.challengesFor(user.ID), 1)

	err = env.verifications.Consume(ctx, user.ID.String(), oldToken)
	require.ErrorIs(t, err, ErrMismatch)

	require.NoError(t, env.verifications.Consume(ctx, user.ID.String(), newToken))
}

func TestVerificationService_ResendErrors(t *testing.T) {
	tests := []struct {
		name        string
		userID      func(u domain.User) string
		email       string
		verified    bool
		wantErr     error
		wantMessage string
	}{
		{
			name:        "empty user id",
			userID:      func(domain.User) string { return " " },
			email:       "jane@example.com",
			wantErr:     ErrValidation,
			wantMessage: MsgResendPrefix + MsgEmptyUserDetails,
		},
		{
			name:        "empty email",
			userID:      func(u domain.User) string { return u.ID.String() },
			email:       "",
			wantErr:     ErrValidation,
			wantMessage: MsgResendPrefix + MsgEmptyUserDetails,
		},
		{
			name:        "malformed user id",
			userID:      func(domain.User) string { return "12345" },
			email:       "jane@example.com",
			wantErr:     ErrNotFound,
			wantMessage: MsgResendPrefix + MsgRecordMissingOrDone,
		},
		{
			name:        "unknown user",
			userID:      func(domain.User) string { return uuid.NewString() },
			email:       "jane@example.com",
			wantErr:     ErrNotFound,
			wantMessage: MsgResendPrefix + MsgRecordMissingOrDone,
		},
		{
			name:        "email does not match",
			userID:      func(u domain.User) string { return u.ID.String() },
			email:       "john@example.com",
			wantErr:     ErrNotFound,
			wantMessage: MsgResendPrefix + MsgRecordMissingOrDone,
		},
		{
			name:        "already verified",
			userID:      func(u domain.User) string { return u.ID.String() },
			email:       "jane@example.com",
			verified:    true,
			wantErr:     ErrConflict,
			wantMessage: MsgResendPrefix + MsgAlreadyVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			user := env.pendingUser(t, "jane@example.com")
			if tt.verified {
				require.NoError(t, memUsers{env.store}.SetVerifiedWithTx(context.Background(), nil, user.ID))
			}

			_, err := env.verifications.Resend(context.Background(), tt.userID(user), tt.email)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMessage, Message(err))
			assert.Empty(t, env.mailer.sent)
		})
	}
}

func TestVerificationService_IssueMailFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = errors.New("smtp: 421 service not available")
	user := env.pendingUser(t, "jane@example.com")

	_, err := env.verifications.Issue(context.Background(), user.ID, user.Email)
	require.ErrorIs(t, err, ErrMailSend)
	require.ErrorIs(t, err, ErrInfrastructure)
	assert.NotErrorIs(t, err, ErrRecordSave)
	assert.Equal(t, MsgVerificationMailFail, Message(err))

	_, ok := env.store.user(user.ID)
	assert.True(t, ok, "user stays so the client can resend")
}

func TestVerificationService_IssueMailTimeout(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.block = true
	env.verifications.config.MailTimeout = 20 * time.Millisecond
	user := env.pendingUser(t, "jane@example.com")

	start := time.Now()
	_, err := env.verifications.Issue(context.Background(), user.ID, user.Email)
	require.ErrorIs(t, err, ErrMailSend)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestVerificationService_IssueSaveFailure(t *testing.T) {
	env := newTestEnv(t)
	env.verifications.verificationRepository = failingVerifications{
		memVerifications: memVerifications{env.store},
		err:              errors.New("connection reset"),
	}
	user := env.pendingUser(t, "jane@example.com")

	_, err := env.verifications.Issue(context.Background(), user.ID, user.Email)
	require.ErrorIs(t, err, ErrRecordSave)
	assert.NotErrorIs(t, err, ErrMailSend)
	assert.Equal(t, MsgSaveVerification, Message(err))
	assert.Empty(t, env.mailer.sent)
}

func TestVerificationService_IssueForPurgedUser(t *testing.T) {
	env := newTestEnv(t)
	env.verifications.verificationRepository = failingVerifications{
		memVerifications: memVerifications{env.store},
		err:              domain.ErrMissingReference,
	}
	user := env.pendingUser(t, "jane@example.com")

	_, err := env.verifications.Issue(context.Background(), user.ID, user.Email)
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInfrastructure)
	assert.Equal(t, MsgRecordMissingOrDone, Message(err))
	assert.Empty(t, env.mailer.sent)
}

func TestVerificationService_PurgeExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stale := env.pendingUser(t, "stale@example.com")
	_, err := env.verifications.Issue(ctx, stale.ID, stale.Email)
	require.NoError(t, err)

	env.clock.Advance(testTTL - time.Hour)

	fresh := env.pendingUser(t, "fresh@example.com")
	_, err = env.verifications.Issue(ctx, fresh.ID, fresh.Email)
	require.NoError(t, err)

	env.clock.Advance(time.Hour)

	purged, err := env.verifications.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, ok := env.store.user(stale.ID)
	assert.False(t, ok)
	assert.Empty(t, env.store.challengesFor(stale.ID))

	_, ok = env.store.user(fresh.ID)
	assert.True(t, ok)
	assert.Len(t, env.store.challengesFor(fresh.ID), 1)
}

func TestVerificationService_PurgeExpiredKeepsVerifiedUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.pendingUser(t, "jane@example.com")

	// A stray challenge left behind for an already verified account.
	require.NoError(t, memUsers{env.store}.SetVerifiedWithTx(ctx, nil, user.ID))
	_, err := env.verifications.Issue(ctx, user.ID, user.Email)
	require.NoError(t, err)

	env.clock.Advance(testTTL)

	purged, err := env.verifications.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)

	_, ok := env.store.user(user.ID)
	assert.True(t, ok)
	assert.Empty(t, env.store.challengesFor(user.ID))
}

func TestVerificationService_PurgeExpiredBatches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < purgeBatchSize+5; i++ {
		u := env.pendingUser(t, uuid.NewString()+"@example.com")
		_, err := env.verifications.Issue(ctx, u.ID, u.Email)
		require.NoError(t, err)
	}

	env.clock.Advance(testTTL)

	purged, err := env.verifications.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, purgeBatchSize+5, purged)
	assert.Empty(t, env.store.users)
}

func TestVerificationService_PurgeExpiredCancelled(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.verifications.PurgeExpired(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
