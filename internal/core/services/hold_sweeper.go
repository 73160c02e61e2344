package services

import (
	"context"
	"time"

	"github.com/srgjo27/venue_booking/internal/core/domain"
	"go.uber.org/zap"
)

const holdSweepBatch = 100

// RunHoldSweeper cancels expired tentative holds every interval until ctx ends.
func (s *BookingService) RunHoldSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Hold sweeper started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Hold sweeper stopped")
			return
		case <-ticker.C:
			s.ReleaseExpiredHolds(ctx)
		}
	}
}

// ReleaseExpiredHolds cancels one batch of expired holds and reports how many
// were released.
func (s *BookingService) ReleaseExpiredHolds(ctx context.Context) int {
	refs, err := s.bookingRepo.GetExpiredHolds(ctx, s.now().UTC(), holdSweepBatch)
	if err != nil {
		s.logger.Error("Fetch expired holds failed", zap.Error(err))
		return 0
	}

	if len(refs) == 0 {
		return 0
	}

	released := 0
	for _, ref := range refs {
		err := s.bookingRepo.UpdateStatus(ctx, ref.TenantID, ref.BookingID, domain.BookingTentative, domain.BookingCancelled)
		if err != nil {
			s.logger.Warn("Release hold failed",
				zap.String("tenant_id", ref.TenantID),
				zap.String("booking_id", ref.BookingID.String()),
				zap.Error(err),
			)
			continue
		}
		released++
	}

	s.logger.Info("Expired holds released", zap.Int("found", len(refs)), zap.Int("released", released))
	return released
}
