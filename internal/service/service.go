package service

import (
	"context"
	"io/fs"
	"time"

	"github.com/bloomaccess/backend/internal/config"
	"github.com/bloomaccess/backend/internal/domain"
	"github.com/bloomaccess/backend/internal/repository"
	"github.com/bloomaccess/backend/pkg/auth"
	emailProvider "github.com/bloomaccess/backend/pkg/email"
	"github.com/bloomaccess/backend/pkg/hash"

	"github.com/google/uuid"
)

type Services struct {
	Users         Users
	Verifications Verifications
}

type Deps struct {
	Config       *config.Config
	Hasher       hash.PasswordHasher
	TokenManager auth.TokenManager
	EmailSender  emailProvider.Sender
	Templates    fs.FS
	Repos        *repository.Repositories
}

func NewServices(deps Deps) *Services {
	emails := newEmailsService(deps.EmailSender, deps.Templates, deps.Config.Email)

	verifications := newVerificationService(
		deps.Repos.Users,
		deps.Repos.UserVerifications,
		deps.Repos.Transactor,
		deps.Hasher,
		emails,
		VerificationConfig{
			BaseURL:     deps.Config.App.BaseURL,
			TTL:         deps.Config.Auth.VerificationTTL,
			MailTimeout: deps.Config.Email.Timeout,
		},
		time.Now,
	)

	return &Services{
		Users:         newUserService(deps.Repos.Users, verifications, deps.Hasher, deps.TokenManager),
		Verifications: verifications,
	}
}

type Users interface {
	Signup(ctx context.Context, input SignupInput) (*PendingVerification, error)
	Signin(ctx context.Context, input SigninInput) (*SigninResult, error)
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Verifications interface {
	Issue(ctx context.Context, userID uuid.UUID, email string) (*PendingVerification, error)
	Resend(ctx context.Context, userID string, email string) (*PendingVerification, error)
	Consume(ctx context.Context, userID string, uniqueString string) error
	PurgeExpired(ctx context.Context) (int, error)
}
