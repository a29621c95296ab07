package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/booknotes/booknotes-server/internal/access"
	"github.com/booknotes/booknotes-server/internal/auth"
	"github.com/booknotes/booknotes-server/internal/domain"
	domainerrors "github.com/booknotes/booknotes-server/internal/errors"
	"github.com/booknotes/booknotes-server/internal/id"
	"github.com/booknotes/booknotes-server/internal/store"
	"github.com/booknotes/booknotes-server/internal/validation"
)

// invalidCredentialsMsg is shared by every login failure so responses never
// reveal whether the username exists.
const invalidCredentialsMsg = "invalid username or password"

// AuthService registers users and verifies their credentials.
// Session lifecycle is delegated to SessionService.
type AuthService struct {
	store     store.Store
	sessions  *SessionService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store store.Store, sessions *SessionService, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:     store,
		sessions:  sessions,
		validator: validation.New(),
		logger:    logger,
	}
}

// RegisterRequest contains the data for creating an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"notblank,max=150"`
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginRequest contains user credentials and client metadata.
type LoginRequest struct {
	Username  string `json:"username" validate:"notblank"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse is the result of a successful login.
type LoginResponse struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time // zero when the session does not expire
}

// Register creates an account. Usernames and emails are unique; a taken
// username fails with DUPLICATE_USERNAME and a taken email with DUPLICATE_EMAIL.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	// The validator counts runes; the hasher bounds bytes.
	if len(req.Password) > auth.MaxPasswordLength {
		return nil, domainerrors.InvalidInputWithDetails("validation failed", map[string]string{
			"password": fmt.Sprintf("must not exceed %d bytes", auth.MaxPasswordLength),
		})
	}

	if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, domainerrors.DuplicateUsername("username already taken")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, domainerrors.DuplicateEmail("email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, domainerrors.Internal("hash password").WithCause(err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	// The pre-checks above can race; the unique constraints are authoritative.
	switch err := s.store.CreateUser(ctx, user); {
	case err == nil:
	case errors.Is(err, store.ErrUsernameExists):
		return nil, domainerrors.DuplicateUsername("username already taken")
	case errors.Is(err, store.ErrEmailExists):
		return nil, domainerrors.DuplicateEmail("email already registered")
	default:
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Verify checks a username and password. Unknown usernames and wrong
// passwords fail with the same INVALID_CREDENTIALS error.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.VerifyDummy(password)
			return nil, domainerrors.InvalidCredentials(invalidCredentialsMsg)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials(invalidCredentialsMsg)
	}

	return user, nil
}

// Login verifies credentials and starts a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.Verify(ctx, req.Username, req.Password)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrInvalidCredentials) {
			s.logger.Info("Login failed", "username", req.Username, "ip", req.IPAddress)
		}
		return nil, err
	}

	issued, err := s.sessions.StartSession(ctx, user.ID, ClientInfo{IPAddress: req.IPAddress, UserAgent: req.UserAgent})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID, "session_id", issued.Session.ID)
	return &LoginResponse{User: user, Token: issued.Token, ExpiresAt: issued.Session.ExpiresAt}, nil
}

// Logout ends the session behind token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.EndSession(ctx, token)
}

// CurrentUser returns the acting user's account.
func (s *AuthService) CurrentUser(ctx context.Context, actingUserID string) (*domain.User, error) {
	if err := access.RequireUser(actingUserID); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, actingUserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
