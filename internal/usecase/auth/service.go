package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"teamskills/internal/permissions"
	"teamskills/internal/repository"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

// DefaultGrants is what every freshly registered user holds: READER for
// voting, GUEST as the implicit authenticated grant.
var DefaultGrants = []permissions.Permission{
	permissions.PermReader,
	permissions.PermGuest,
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (repository.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return repository.User{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return repository.User{}, ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return repository.User{}, ErrInternal
	}
	if exists {
		return repository.User{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return repository.User{}, ErrInternal
	}

	u := repository.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
	}

	// Single transaction: a failure here leaves neither the user row nor
	// its grants behind, so the registration can simply be retried.
	if err := s.users.CreateUserWithGrants(ctx, u, DefaultGrants); err != nil {
		exists, exErr := s.users.ExistsByEmail(ctx, email)
		if exErr == nil && exists {
			return repository.User{}, ErrEmailAlreadyRegistered
		}
		return repository.User{}, ErrInternal
	}

	created, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		return repository.User{}, ErrInternal
	}
	return sanitizeUser(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (repository.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return repository.User{}, ErrInvalidCredentials
	}
	if in.Password == "" {
		return repository.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return repository.User{}, ErrInvalidCredentials
		}
		return repository.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return repository.User{}, ErrInvalidCredentials
	}

	return sanitizeUser(u), nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func isValidPassword(pw string) bool {
	pw = strings.TrimSpace(pw)
	return len(pw) >= 8
}

func sanitizeUser(u repository.User) repository.User {
	u.PasswordHash = ""
	return u
}
