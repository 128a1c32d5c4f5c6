package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"documind/internal/model"
	"documind/internal/pkg/jwtutil"
	"documind/internal/pkg/passhash"
	"documind/internal/repository"
)

const TokenTypeBearer = "bearer"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUserExists        = errors.New("email already registered")
	ErrInvalidCredential = errors.New("incorrect email or password")
	ErrUnauthenticated   = errors.New("could not validate credentials")
)

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	User      *model.User
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

// Register stores a new user with a hash of the password. Identifiers are
// compared exactly and no strength or length rules apply beyond a non-empty
// password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := input.Email
	if email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := passhash.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := input.Email
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := passhash.Compare(user.PasswordHash, input.Password); err != nil {
		if errors.Is(err, passhash.ErrMismatch) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	token, expiresAt, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.Email, s.now())
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		TokenType: TokenTypeBearer,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// VerifyToken returns the identifier carried by a valid, unexpired token.
func (s *AuthService) VerifyToken(token string) (string, error) {
	claims, err := jwtutil.ParseToken(s.jwtSecret, token, s.now())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return claims.Subject, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
