package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bloomaccess/backend/internal/domain"
	"github.com/bloomaccess/backend/internal/repository"
	"github.com/bloomaccess/backend/pkg/hash"
	"github.com/bloomaccess/backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const purgeBatchSize = 100

// uniqueStringLength is a random uuid followed by the user id.
const uniqueStringLength = 72

type Mailer interface {
	SendUserVerificationEmail(ctx context.Context, input VerificationEmailInput) error
}

type VerificationConfig struct {
	BaseURL     string
	TTL         time.Duration
	MailTimeout time.Duration
}

// PendingVerification is what a client needs to drive the verification
// screen after signup or resend.
type PendingVerification struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

type verificationService struct {
	userRepository         repository.Users
	verificationRepository repository.UserVerifications
	transactor             repository.Transactor
	hasher                 hash.PasswordHasher
	mailer                 Mailer
	config                 VerificationConfig
	now                    func() time.Time
}

func newVerificationService(
	userRepository repository.Users,
	verificationRepository repository.UserVerifications,
	transactor repository.Transactor,
	hasher hash.PasswordHasher,
	mailer Mailer,
	config VerificationConfig,
	now func() time.Time,
) *verificationService {
	return &verificationService{
		userRepository:         userRepository,
		verificationRepository: verificationRepository,
		transactor:             transactor,
		hasher:                 hasher,
		mailer:                 mailer,
		config:                 config,
		now:                    now,
	}
}

// Issue creates a new challenge for the user and mails the link. The user
// record is left in place when saving or mailing fails.
func (s *verificationService) Issue(ctx context.Context, userID uuid.UUID, email string) (*PendingVerification, error) {
	uniqueString := uuid.NewString() + userID.String()

	hashedUniqueString, err := s.hasher.Hash(uniqueString)
	if err != nil {
		return nil, newError(ErrInfrastructure, MsgHashUniqueString, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, newError(ErrRecordSave, MsgSaveVerification, err)
	}

	// DATETIME(6) keeps microseconds only.
	now := s.now().UTC().Truncate(time.Microsecond)
	record := domain.NewUserVerification(id, userID, hashedUniqueString, now, s.config.TTL)

	if err := s.verificationRepository.Create(ctx, record); err != nil {
		if errors.Is(err, domain.ErrMissingReference) {
			return nil, newError(ErrNotFound, MsgRecordMissingOrDone, err)
		}
		logger.Error("save user verification failed", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, newError(ErrRecordSave, MsgSaveVerification, err)
	}

	link, err := s.verificationLink(userID, uniqueString)
	if err != nil {
		return nil, newError(ErrMailSend, MsgVerificationMailFail, err)
	}

	mailCtx := ctx
	if s.config.MailTimeout > 0 {
		var cancel context.CancelFunc
		mailCtx, cancel = context.WithTimeout(ctx, s.config.MailTimeout)
		defer cancel()
	}

	input := VerificationEmailInput{Email: email, Link: link, TTL: s.config.TTL}
	if err := s.mailer.SendUserVerificationEmail(mailCtx, input); err != nil {
		logger.Error("send verification email failed", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, newError(ErrMailSend, MsgVerificationMailFail, err)
	}

	logger.Info("verification email sent", zap.String("user_id", userID.String()))

	return &PendingVerification{UserID: userID, Email: email}, nil
}

// Resend replaces every outstanding challenge of a pending account with a
// fresh one. Links mailed earlier stop working.
func (s *verificationService) Resend(ctx context.Context, userID string, email string) (*PendingVerification, error) {
	userID = strings.TrimSpace(userID)
	email = domain.NormalizeEmail(email)

	if userID == "" || email == "" {
		return nil, newError(ErrValidation, MsgResendPrefix+MsgEmptyUserDetails, nil)
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, newError(ErrNotFound, MsgResendPrefix+MsgRecordMissingOrDone, err)
	}

	user, err := s.userRepository.GetOneByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, newError(ErrNotFound, MsgResendPrefix+MsgRecordMissingOrDone, err)
		}
		return nil, newError(ErrInfrastructure, MsgResendPrefix+MsgCheckExistingUser, err)
	}

	if user.Email != email {
		return nil, newError(ErrNotFound, MsgResendPrefix+MsgRecordMissingOrDone, nil)
	}

	if user.Verified {
		return nil, newError(ErrConflict, MsgResendPrefix+MsgAlreadyVerified, nil)
	}

	deleted, err := s.verificationRepository.DeleteByUserID(ctx, id)
	if err != nil {
		return nil, newError(ErrRecordSave, MsgResendPrefix+MsgSaveVerification, err)
	}
	logger.Debug("previous verifications removed", zap.String("user_id", userID), zap.Int64("count", deleted))

	return s.Issue(ctx, id, user.Email)
}

// Consume checks a presented link. Expired challenges take the unverified
// account down with them; a wrong token leaves the challenge for a retry.
func (s *verificationService) Consume(ctx context.Context, userID string, uniqueString string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return newError(ErrNotFound, MsgRecordMissingOrDone, err)
	}

	record, err := s.verificationRepository.GetOneByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return newError(ErrNotFound, MsgRecordMissingOrDone, nil)
		}
		return newError(ErrInfrastructure, MsgCheckVerificationFail, err)
	}

	if record.Expired(s.now()) {
		if _, err := s.purge(ctx, id); err != nil {
			return newError(ErrInfrastructure, MsgCheckVerificationFail, err)
		}
		logger.Info("verification link expired, account removed", zap.String("user_id", userID))
		return newError(ErrExpired, MsgLinkExpired, nil)
	}

	if len(uniqueString) != uniqueStringLength {
		return newError(ErrMismatch, MsgInvalidVerification, nil)
	}

	match, err := s.hasher.Compare(uniqueString, record.UniqueString)
	if err != nil {
		return newError(ErrInfrastructure, MsgCheckVerificationFail, err)
	}
	if !match {
		return newError(ErrMismatch, MsgInvalidVerification, nil)
	}

	var userMissing bool
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.verificationRepository.DeleteByUserIDWithTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.userRepository.SetVerifiedWithTx(ctx, tx, id); err != nil {
			if errors.Is(err, domain.ErrNoRowsAffected) {
				userMissing = true
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return newError(ErrInfrastructure, MsgCheckVerificationFail, err)
	}

	if userMissing {
		return newError(ErrNotFound, MsgRecordMissingOrDone, nil)
	}

	logger.Info("user verified", zap.String("user_id", userID))

	return nil
}

// PurgeExpired removes expired challenges together with their unverified
// accounts and returns how many accounts were deleted.
func (s *verificationService) PurgeExpired(ctx context.Context) (int, error) {
	now := s.now()
	var purged int

	for {
		if err := ctx.Err(); err != nil {
			return purged, err
		}

		expired, err := s.verificationRepository.ListExpired(ctx, now, purgeBatchSize)
		if err != nil {
			return purged, fmt.Errorf("list expired verifications failed: %w", err)
		}

		for _, v := range expired {
			deleted, err := s.purge(ctx, v.UserID)
			if err != nil {
				return purged, fmt.Errorf("purge user %s failed: %w", v.UserID, err)
			}
			if deleted {
				purged++
			}
		}

		if len(expired) < purgeBatchSize {
			return purged, nil
		}
	}
}

func (s *verificationService) purge(ctx context.Context, userID uuid.UUID) (bool, error) {
	var deleted bool
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.verificationRepository.DeleteByUserIDWithTx(ctx, tx, userID); err != nil {
			return err
		}
		var err error
		deleted, err = s.userRepository.DeleteUnverifiedWithTx(ctx, tx, userID)
		return err
	})
	return deleted, err
}

func (s *verificationService) verificationLink(userID uuid.UUID, uniqueString string) (string, error) {
	return url.JoinPath(s.config.BaseURL, "user", "verify", userID.String(), uniqueString)
}
