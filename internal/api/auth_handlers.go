package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booknotes/booknotes-server/internal/access"
	"github.com/booknotes/booknotes-server/internal/domain"
	"github.com/booknotes/booknotes-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/register",
		Summary:       "Register new user",
		Description:   "Creates an account. Usernames and emails must be unique.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{s.authRateLimit},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        access.LoginPath,
		Summary:     "User login",
		Description: "Verifies credentials, starts a session and returns its token. The token is also set as an HttpOnly cookie.",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.authRateLimit},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/logout",
		Summary:       "Logout",
		Description:   "Ends the current session and clears the session cookie",
		Tags:          []string{"Authentication"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusNoContent,
	}, s.handleLogout)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username string `json:"username" doc:"Unique username"`
	Email    string `json:"email" doc:"User email address"`
	Password string `json:"password" doc:"User password"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// RegisterResponse contains the created user and where to log in.
type RegisterResponse struct {
	User     UserResponse `json:"user" doc:"Created user"`
	LoginURL string       `json:"login_url" doc:"Login operation path"`
}

// RegisterOutput wraps the register response for Huma.
type RegisterOutput struct {
	Body RegisterResponse
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username" doc:"Username"`
	Password string `json:"password" doc:"User password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// AuthResponse contains the session token and user info.
type AuthResponse struct {
	Token     string       `json:"token" doc:"Opaque session token"`
	TokenType string       `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty" doc:"Session expiry; absent when the session does not expire"`
	User      UserResponse `json:"user" doc:"Authenticated user"`
}

// LoginOutput wraps the login response and session cookie for Huma.
type LoginOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      AuthResponse
}

// LogoutInput carries the session token from either transport.
type LogoutInput struct {
	Authorization string `header:"Authorization"`
	Session       string `cookie:"booknotes_session"`
}

// LogoutOutput clears the session cookie.
type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
}

// UserResponse contains public user information.
type UserResponse struct {
	ID        string    `json:"id" doc:"User ID"`
	Username  string    `json:"username" doc:"Username"`
	Email     string    `json:"email" doc:"User email"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	user, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Username: input.Body.Username,
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, s.fail(ctx, "register", err)
	}

	return &RegisterOutput{
		Body: RegisterResponse{
			User:     mapUserResponse(user),
			LoginURL: access.LoginPath,
		},
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	client := clientFrom(ctx)

	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Username:  input.Body.Username,
		Password:  input.Body.Password,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		return nil, s.fail(ctx, "login", err)
	}

	body := AuthResponse{
		Token:     resp.Token,
		TokenType: "Bearer",
		User:      mapUserResponse(resp.User),
	}
	if !resp.ExpiresAt.IsZero() {
		expiresAt := resp.ExpiresAt
		body.ExpiresAt = &expiresAt
	}

	return &LoginOutput{
		SetCookie: s.sessionCookie(resp.Token, s.services.Session.TTL()),
		Body:      body,
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*LogoutOutput, error) {
	if err := access.RequireUser(actingUserID(ctx)); err != nil {
		return nil, s.fail(ctx, "logout", err)
	}

	if err := s.services.Auth.Logout(ctx, requestToken(input.Authorization, input.Session)); err != nil {
		return nil, s.fail(ctx, "logout", err)
	}

	return &LogoutOutput{SetCookie: s.clearSessionCookie()}, nil
}

// sessionCookie builds the HttpOnly cookie carrying token. A zero ttl
// yields a browser-session cookie.
func (s *Server) sessionCookie(token string, ttl time.Duration) http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Server) clearSessionCookie() http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func mapUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
