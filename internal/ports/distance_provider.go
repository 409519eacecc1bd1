package ports

import (
	"context"

	"courier-dispatch-service/internal/domain"
)

// Contract for retrieving road travel distance between two points.
// Implementations must not fail for valid coordinate ranges; a remote
// provider is expected to fall back to a geometric approximation instead
// of propagating transport errors.
type DistanceProvider interface {
	// Return the travel distance in kilometers, rounded to two decimals.
	DistanceKm(ctx context.Context, from, to domain.Coordinates) (float64, error)
}
