package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/booknotes/booknotes-server/internal/auth"
	"github.com/booknotes/booknotes-server/internal/domain"
	"github.com/booknotes/booknotes-server/internal/store"
)

// SessionStore persists session records.
type SessionStore interface {
	Create(ctx context.Context, sess *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// ClientInfo describes the client starting a session.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// IssuedSession is a freshly started session and its opaque token.
type IssuedSession struct {
	Token   string
	Session *domain.Session
}

// SessionService establishes and tears down authenticated identities.
type SessionService struct {
	sessions SessionStore
	tokens   *auth.TokenService
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionService creates a session service. A ttl of zero issues
// sessions that never expire.
func NewSessionService(sessions SessionStore, tokens *auth.TokenService, ttl time.Duration, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		sessions: sessions,
		tokens:   tokens,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// TTL returns the configured session lifetime (zero means unlimited).
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// StartSession records a new session for userID and returns its token.
func (s *SessionService) StartSession(ctx context.Context, userID string, client ClientInfo) (*IssuedSession, error) {
	if userID == "" {
		return nil, errors.New("start session: empty user id")
	}

	now := s.now().UTC()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	}
	if s.ttl > 0 {
		sess.ExpiresAt = now.Add(s.ttl)
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token, err := s.tokens.Issue(auth.SessionClaims{
		SessionID: sess.ID,
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		// Don't leave an unreachable record behind.
		if delErr := s.sessions.Delete(ctx, sess.ID); delErr != nil {
			s.logger.Warn("failed to remove orphan session", "session_id", sess.ID, "error", delErr)
		}
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s.logger.Info("Session started", "user_id", userID, "session_id", sess.ID)
	return &IssuedSession{Token: token, Session: sess}, nil
}

// ResolveSession maps a token to the identity it was issued for. Any failure
// yields domain.Anonymous; it never returns an error.
func (s *SessionService) ResolveSession(ctx context.Context, token string) domain.Identity {
	if token == "" {
		return domain.Anonymous
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Debug("rejected session token", "error", err)
		return domain.Anonymous
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Debug("session lookup failed", "session_id", claims.SessionID, "error", err)
		}
		return domain.Anonymous
	}

	if sess.UserID != claims.UserID {
		s.logger.Warn("session token user mismatch", "session_id", sess.ID)
		return domain.Anonymous
	}

	return domain.Identity{UserID: sess.UserID, SessionID: sess.ID}
}

// EndSession invalidates the session named by token. Unknown or malformed
// tokens are ignored.
func (s *SessionService) EndSession(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		//nolint:nilerr // nothing to end
		return nil
	}

	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	s.logger.Info("Session ended", "user_id", claims.UserID, "session_id", claims.SessionID)
	return nil
}
