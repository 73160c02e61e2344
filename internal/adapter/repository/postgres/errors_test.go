package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"lock timeout", &pq.Error{Code: codeLockNotAvailable}, domain.ErrConcurrency},
		{"serialization", &pq.Error{Code: codeSerializationFailure}, domain.ErrConcurrency},
		{"deadlock", fmt.Errorf("commit: %w", &pq.Error{Code: codeDeadlockDetected}), domain.ErrConcurrency},
		{"exclusion constraint", &pq.Error{Code: codeExclusionViolation}, domain.ErrConflict},
		{"unique violation", &pq.Error{Code: "23505"}, domain.ErrPersistence},
		{"plain error", errors.New("connection reset"), domain.ErrPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError("create booking", tt.err)

			assert.ErrorIs(t, got, tt.want)
		})
	}

	assert.NoError(t, mapError("noop", nil))
}

func TestActiveStatusesParam(t *testing.T) {
	assert.Equal(t, []string{"pending", "confirmed", "tentative"}, activeStatuses())
}
