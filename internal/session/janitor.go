package session

import (
	"context"
	"time"

	"github.com/spainrp/awards/internal/logger"
)

// RunJanitor evicts sessions idle for longer than idle every interval until
// ctx is done. It returns immediately when idle is zero.
func RunJanitor(ctx context.Context, log logger.Logger, s Sweeper, idle, interval time.Duration) {
	if idle <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := s.Sweep(ctx, idle)
			if err != nil {
				log.Warn("Session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("Expired idle voting sessions", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
