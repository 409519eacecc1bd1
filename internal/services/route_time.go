package services

import (
	"context"
	"fmt"

	"courier-dispatch-service/internal/domain"
	"courier-dispatch-service/internal/ports"
)

const (
	// Average speed assumed for full-delivery feasibility checks.
	routeSpeedKmh = 60.0

	// Fixed handling buffer applied at every stop, first and last included.
	stopServiceMinutes = 30.0
)

// EstimateRouteMinutes computes the minimum minutes required to traverse the
// points in order: oracle distance per consecutive pair at routeSpeedKmh,
// plus stopServiceMinutes for each point. Callers gate on having at least
// two points; a single point yields only its handling buffer.
func EstimateRouteMinutes(
	ctx context.Context,
	points []domain.Coordinates,
	provider ports.DistanceProvider,
) (minutes float64, distanceKm float64, err error) {
	for i := 0; i+1 < len(points); i++ {
		km, err := provider.DistanceKm(ctx, points[i], points[i+1])
		if err != nil {
			return 0, 0, fmt.Errorf("estimate route: leg %d -> %d: %w", i+1, i+2, err)
		}
		distanceKm += km
	}

	minutes = distanceKm/routeSpeedKmh*60 + stopServiceMinutes*float64(len(points))
	return minutes, distanceKm, nil
}
