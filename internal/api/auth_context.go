package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/booknotes/booknotes-server/internal/domain"
	"github.com/booknotes/booknotes-server/internal/service"
)

// SessionCookieName is the cookie carrying the session token for browser clients.
const SessionCookieName = "booknotes_session"

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	identityKey ctxKey = "identity"
	clientKey   ctxKey = "client"
)

// IdentityFrom returns the identity resolved for the request, or
// domain.Anonymous.
func IdentityFrom(ctx context.Context) domain.Identity {
	if id, ok := ctx.Value(identityKey).(domain.Identity); ok {
		return id
	}
	return domain.Anonymous
}

// actingUserID returns the authenticated user ID, or "" when anonymous.
func actingUserID(ctx context.Context) string {
	return IdentityFrom(ctx).UserID
}

func clientFrom(ctx context.Context) service.ClientInfo {
	c, _ := ctx.Value(clientKey).(service.ClientInfo)
	return c
}

// authMiddleware resolves the session token, if any, and stores the
// identity in the request context. It never rejects a request; operations
// that need a user fail with UNAUTHENTICATED on their own.
func authMiddleware(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientKey, service.ClientInfo{
				IPAddress: clientIP(r),
				UserAgent: r.UserAgent(),
			})

			identity := domain.Anonymous
			if token := requestToken(r.Header.Get("Authorization"), cookieValue(r)); token != "" {
				identity = sessions.ResolveSession(ctx, token)
			}

			ctx = context.WithValue(ctx, identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestToken prefers a Bearer Authorization header over the session cookie.
func requestToken(authorization, cookie string) string {
	if scheme, token, ok := strings.Cut(authorization, " "); ok && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	return cookie
}

func cookieValue(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware has
// already applied X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
