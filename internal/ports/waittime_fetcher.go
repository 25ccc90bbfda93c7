package ports

import (
	"ae-dashboard-service/internal/domain"
	"context"
)

// Contract for refreshing A&E wait times.
type WaitTimeFetcher interface {
	// Return the current wait-time snapshot. Implementations never fail:
	// when the upstream feed is unusable they return a Fallback snapshot.
	Refresh(ctx context.Context) domain.Snapshot
}
