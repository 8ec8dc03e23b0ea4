// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/auth"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/model"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/repository"
)

// bcryptCost is the cost factor for password hashing.
const bcryptCost = 12

// UserStore is the persistence surface AuthService depends on.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthService handles account registration and login.
type AuthService struct {
	users    UserStore
	tokens   *auth.TokenManager
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewAuthService constructs an AuthService with its dependencies.
func NewAuthService(users UserStore, tokens *auth.TokenManager, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		validate: newValidator(),
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Register validates the credentials and creates a new user with a one-way
// password hash. It never returns a token; the caller must log in separately.
func (s *AuthService) Register(ctx context.Context, req model.CredentialsRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return nil, asValidationError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password both fail with the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.CredentialsRequest) (*model.LoginResult, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return nil, asValidationError(err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.LoginResult{Token: token, User: user.Public()}, nil
}

// Me returns the public profile behind an authenticated user id.
func (s *AuthService) Me(ctx context.Context, userID int64) (model.PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}
