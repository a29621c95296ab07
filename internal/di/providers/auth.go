package providers

import (
	"github.com/samber/do/v2"

	"github.com/booknotes/booknotes-server/internal/auth"
	"github.com/booknotes/booknotes-server/internal/config"
	"github.com/booknotes/booknotes-server/internal/logger"
)

// AuthKey is the hex-encoded session token key.
type AuthKey string

// ProvideAuthKey loads or generates the token key under the data path.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Storage.DataPath)
	if err != nil {
		return "", err
	}

	log.Info("Authentication key loaded", "session_ttl", cfg.Auth.SessionTTL)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	authKey := do.MustInvoke[AuthKey](i)
	return auth.NewTokenService(string(authKey))
}
