package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tangimds/EMS/internal/auth/domain"
	"github.com/tangimds/EMS/internal/auth/dto"
	apperrors "github.com/tangimds/EMS/internal/errors"
)

type UserService struct {
	repo         domain.UserRepository
	tokenService TokenIssuer
}

func NewUserService(repo domain.UserRepository, tokenService TokenIssuer) *UserService {
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
	}
}

// normalizeEmail makes the email comparison case-insensitive. It is applied
// before every lookup and before storage so uniqueness holds regardless of
// the casing the client sends.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(input dto.SignupInput) error {
	if len(strings.TrimSpace(input.Name)) < 2 {
		return apperrors.NewValidation("name", "Name must be at least 2 characters long")
	}
	if _, err := mail.ParseAddress(normalizeEmail(input.Email)); err != nil {
		return apperrors.NewValidation("email", "Please enter a valid email")
	}
	if len(input.Password) < 6 {
		return apperrors.NewValidation("password", "Password must be at least 6 characters long")
	}
	return nil
}

func (s *UserService) Signup(ctx context.Context, input dto.SignupInput) (*domain.User, string, error) {
	if err := validateSignup(input); err != nil {
		return nil, "", err
	}

	email := normalizeEmail(input.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apperrors.ErrEmailAlreadyInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokenService.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *UserService) Signin(ctx context.Context, input dto.SigninInput) (*domain.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, "", err
	}

	// Unknown email and wrong password must be indistinguishable.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokenService.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to its user record. It is the
// read-only lookup behind the identity middleware: invalid token or a user
// id that no longer exists both yield ErrAuthentication.
func (s *UserService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	userID, err := s.tokenService.Verify(tokenString)
	if err != nil {
		return nil, apperrors.ErrAuthentication
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrAuthentication
	}

	return user, nil
}

// TouchLastLogin stamps last_login_at on token-based re-authentication.
// A plain overwrite, no conflict detection.
func (s *UserService) TouchLastLogin(ctx context.Context, user *domain.User) error {
	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return err
	}
	user.LastLoginAt = &now
	return nil
}
