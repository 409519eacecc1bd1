package ports

import (
	"context"

	"courier-dispatch-service/internal/domain"
)

// Port: persistent cache for point-to-point distance results.
type DistanceCache interface {
	// Get returns the cached distance and whether the pair was present.
	Get(ctx context.Context, from, to domain.Coordinates) (km float64, ok bool, err error)
	Put(ctx context.Context, from, to domain.Coordinates, km float64) error
}
