package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bloomaccess/backend/internal/domain"
	"github.com/bloomaccess/backend/internal/repository"
	"github.com/bloomaccess/backend/pkg/auth"
	"github.com/bloomaccess/backend/pkg/hash"
	"github.com/bloomaccess/backend/pkg/logger"
	accountValidator "github.com/bloomaccess/backend/pkg/validator"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type userService struct {
	userRepository repository.Users
	verifications  Verifications
	hasher         hash.PasswordHasher
	tokenManager   auth.TokenManager
	validate       *validator.Validate
}

func newUserService(userRepository repository.Users,
	verifications Verifications,
	hasher hash.PasswordHasher,
	tokenManager auth.TokenManager,
) *userService {
	return &userService{
		userRepository: userRepository,
		verifications:  verifications,
		hasher:         hasher,
		tokenManager:   tokenManager,
		validate:       accountValidator.New(),
	}
}

type SignupInput struct {
	Name        string
	Email       string
	Password    string
	DateOfBirth string
}

type SigninInput struct {
	Email    string
	Password string
}

type SigninResult struct {
	Users       []domain.User
	AccessToken string
	AccessTTL   time.Duration
}

// Signup creates an unverified account and issues its first verification
// challenge.
func (s *userService) Signup(ctx context.Context, input SignupInput) (*PendingVerification, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Password = strings.TrimSpace(input.Password)
	input.DateOfBirth = strings.TrimSpace(input.DateOfBirth)

	dateOfBirth, err := s.validateSignup(input)
	if err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)

	_, err = s.userRepository.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, newError(ErrConflict, MsgUserAlreadyExists, nil)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, newError(ErrInfrastructure, MsgCheckExistingUser, err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, newError(ErrInfrastructure, MsgHashPassword, err)
	}

	userID, err := uuid.NewV7()
	if err != nil {
		return nil, newError(ErrRecordSave, MsgSaveUser, err)
	}

	user := &domain.User{
		ID:          userID,
		Name:        input.Name,
		Email:       email,
		DateOfBirth: dateOfBirth,
		Password:    hashedPassword,
		Verified:    false,
	}

	if err := s.userRepository.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, newError(ErrConflict, MsgUserAlreadyExists, err)
		}
		return nil, newError(ErrRecordSave, MsgSaveUser, err)
	}

	logger.Info("user signed up", zap.String("user_id", userID.String()))

	return s.verifications.Issue(ctx, user.ID, user.Email)
}

func (s *userService) validateSignup(input SignupInput) (time.Time, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" || input.DateOfBirth == "" {
		return time.Time{}, newError(ErrValidation, MsgEmptyInputFields, nil)
	}

	if err := s.validate.Var(input.Name, accountValidator.TagPersonName); err != nil {
		return time.Time{}, newError(ErrValidation, MsgInvalidName, err)
	}

	if err := s.validate.Var(input.Email, accountValidator.TagEmailShape); err != nil {
		return time.Time{}, newError(ErrValidation, MsgInvalidEmail, err)
	}

	dateOfBirth, err := accountValidator.ParseDateOfBirth(input.DateOfBirth)
	if err != nil {
		return time.Time{}, newError(ErrValidation, MsgInvalidDateOfBirth, err)
	}

	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		return time.Time{}, newError(ErrValidation, MsgPasswordTooShort, nil)
	}
	if len(input.Password) > hash.MaxInputLength {
		return time.Time{}, newError(ErrValidation, MsgPasswordTooLong, nil)
	}

	return dateOfBirth, nil
}

// Signin checks credentials. Unverified accounts are allowed in.
func (s *userService) Signin(ctx context.Context, input SigninInput) (*SigninResult, error) {
	email := domain.NormalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return nil, newError(ErrValidation, MsgEmptyCredentials, nil)
	}

	user, err := s.userRepository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Info("signin rejected: no such user")
			return nil, newError(ErrNotFound, MsgInvalidCredentials, nil)
		}
		return nil, newError(ErrInfrastructure, MsgSigninCheckUser, err)
	}

	match, err := s.hasher.Compare(password, user.Password)
	if err != nil {
		return nil, newError(ErrInfrastructure, MsgComparePasswords, err)
	}
	if !match {
		logger.Info("signin rejected: bad password", zap.String("user_id", user.ID.String()))
		return nil, newError(ErrMismatch, MsgInvalidPassword, nil)
	}

	accessToken, accessTTL, err := s.tokenManager.NewJWT(user.ID)
	if err != nil {
		return nil, newError(ErrInfrastructure, MsgIssueToken, err)
	}

	return &SigninResult{
		Users:       []domain.User{*user},
		AccessToken: accessToken,
		AccessTTL:   accessTTL,
	}, nil
}

func (s *userService) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepository.GetOneByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, newError(ErrNotFound, MsgUserNotFound, nil)
		}
		return nil, newError(ErrInfrastructure, MsgUnknown, err)
	}
	return user, nil
}
