package providers

import (
	"github.com/samber/do/v2"

	"github.com/booknotes/booknotes-server/internal/access"
	"github.com/booknotes/booknotes-server/internal/auth"
	"github.com/booknotes/booknotes-server/internal/catalog"
	"github.com/booknotes/booknotes-server/internal/config"
	"github.com/booknotes/booknotes-server/internal/logger"
	"github.com/booknotes/booknotes-server/internal/service"
)

// ProvideCatalog provides the static book catalog.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	return catalog.Default(), nil
}

// ProvideGuard provides the ownership guard.
func ProvideGuard(i do.Injector) (*access.Guard, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return access.NewGuard(storeHandle.Store, log.Logger), nil
}

// ProvideSessionService provides the session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sessions := do.MustInvoke[*SessionStoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(sessions.Store, tokenService, cfg.Auth.SessionTTL, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, sessionService, log.Logger), nil
}

// ProvideLibraryService provides the library service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	guard := do.MustInvoke[*access.Guard](i)
	cat := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(storeHandle.Store, guard, cat, log.Logger), nil
}

// ProvideCatalogService provides the catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	cat := do.MustInvoke[*catalog.Catalog](i)
	return service.NewCatalogService(cat), nil
}
