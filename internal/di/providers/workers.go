package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/booknotes/booknotes-server/internal/logger"
)

// SessionGCJob periodically reclaims session store disk space.
type SessionGCJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionGCJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionGCJob provides the periodic session store GC job.
func ProvideSessionGCJob(i do.Injector) (*SessionGCJob, error) {
	sessions := do.MustInvoke[*SessionStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(sessionGCInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := sessions.RunGC(); err != nil {
					log.Warn("Session store GC failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session GC job started", "interval", sessionGCInterval)

	return &SessionGCJob{cancel: cancel}, nil
}
