package api

import (
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/booknotes/booknotes-server/internal/errors"
)

// authRateLimit throttles credential endpoints per client IP.
// chi's RealIP middleware has already resolved forwarded addresses.
func (s *Server) authRateLimit(ctx huma.Context, next func(huma.Context)) {
	key := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(key); err == nil {
		key = host
	}

	if !s.authRateLimiter.Allow(key) {
		s.logger.Warn("Rate limit exceeded",
			"ip", key,
			"path", ctx.URL().Path,
		)
		limited := domainerrors.RateLimited("too many requests, please try again later")
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, limited.Message, limited) //nolint:errcheck // response already committed
		return
	}

	next(ctx)
}
