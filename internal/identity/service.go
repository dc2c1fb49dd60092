package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/rantaucash/rantaucash-api/internal/pkg/ctxlog"
)

// TokenAuthority issues and verifies access tokens.
type TokenAuthority interface {
	Issue(claims domain.Claims) (string, error)
	Verify(token string) (*domain.Claims, error)
}

// UserCreatedHandler is notified after a successful registration.
type UserCreatedHandler interface {
	OnUserCreated(ctx context.Context, user *domain.User) error
}

// RegisterInput holds registration data.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// LoginInput holds login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// dummyHash is compared against when the email is unknown so that both
// failure paths cost one bcrypt comparison.
var dummyHash = mustHash("rantaucash-dummy-password")

func mustHash(plaintext string) string {
	hash, err := HashPassword(plaintext)
	if err != nil {
		panic(err)
	}
	return hash
}

// Service provides identity business logic.
type Service struct {
	repo               Repository
	tokens             TokenAuthority
	userCreatedHandler UserCreatedHandler
}

// NewService creates a new identity service. userCreatedHandler may be nil.
func NewService(repo Repository, tokens TokenAuthority, userCreatedHandler UserCreatedHandler) *Service {
	return &Service{
		repo:               repo,
		tokens:             tokens,
		userCreatedHandler: userCreatedHandler,
	}
}

// Register creates a user with a hashed password. The returned user carries
// the hash in Password, which is never serialized.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)

	_, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		recordAttempt("register", "failure")
		return nil, ErrEmailExists
	case !errors.Is(err, ErrUserNotFound):
		recordAttempt("register", "error")
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		recordAttempt("register", "error")
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RolePenghuni
	}

	user := &domain.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hash,
		Role:     role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			recordAttempt("register", "failure")
			return nil, ErrEmailExists
		}
		recordAttempt("register", "error")
		return nil, fmt.Errorf("create user: %w", err)
	}
	recordAttempt("register", "success")

	if s.userCreatedHandler != nil {
		if err := s.userCreatedHandler.OnUserCreated(ctx, user); err != nil {
			ctxlog.FromContext(ctx).Warn("user created hook failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return user, nil
}

// Login verifies credentials and returns a signed access token. Unknown
// email and wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			CheckPassword(input.Password, dummyHash)
			recordAttempt("login", "failure")
			return "", ErrInvalidCredentials
		}
		recordAttempt("login", "error")
		return "", fmt.Errorf("get user by email: %w", err)
	}

	if !CheckPassword(input.Password, user.Password) {
		recordAttempt("login", "failure")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.Claims{UserID: user.ID, Role: user.Role})
	if err != nil {
		recordAttempt("login", "error")
		return "", err
	}
	recordAttempt("login", "success")

	ctxlog.FromContext(ctx).Debug("user logged in", "user_id", user.ID)
	return token, nil
}

// GetUserByID returns the user with the given ID.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// ValidateToken implements httputil.TokenValidator.
func (s *Service) ValidateToken(_ context.Context, token string) (string, domain.Role, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", "", err
	}
	return claims.UserID, claims.Role, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
