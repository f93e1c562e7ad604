package main

import (
	"context"
	"time"

	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sirupsen/logrus"
)

const idempotencyPurgeInterval = time.Hour

// purgeIdempotencyKeys drops expired idempotency keys until ctx is done.
func purgeIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, log logrus.FieldLogger) {
	ticker := time.NewTicker(idempotencyPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx, time.Now().UTC())
			if err != nil {
				log.WithError(err).Warn("failed to purge idempotency keys")
				continue
			}
			if n > 0 {
				log.WithField("deleted", n).Debug("purged expired idempotency keys")
			}
		}
	}
}
