package services

import (
	"math"

	"courier-dispatch-service/internal/domain"
)

const (
	previewSpeedKmh   = 30.0
	previewBufferBase = 1.20
	previewBufferSpan = 0.10
)

// previewAnchor is the fixed start of every suggested window.
var previewAnchor = domain.Clock(9 * 60)

// RoutePreview is an advisory distance/duration estimate for a raw list of
// points. It carries no product or vehicle context and does not gate
// delivery creation.
type RoutePreview struct {
	DistanceKm      float64
	DurationMinutes int
	SuggestedStart  domain.Clock
	SuggestedEnd    domain.Clock
}

// PreviewRoute estimates a route from great-circle distances only, skipping
// the distance oracle. It assumes previewSpeedKmh and inflates the raw
// duration by a randomized buffer multiplier in [1.20, 1.30).
//
// rnd must return values in [0, 1); production passes rand.Float64, tests
// pin it for determinism.
func PreviewRoute(points []domain.Coordinates, rnd func() float64) (RoutePreview, error) {
	if len(points) < 2 {
		return RoutePreview{}, &domain.InvalidInputError{
			Field:  "points",
			Reason: "at least 2 points required",
		}
	}

	var distanceKm float64
	for i := 0; i+1 < len(points); i++ {
		distanceKm += points[i].HaversineKm(points[i+1])
	}
	distanceKm = math.Round(distanceKm*100) / 100

	buffer := previewBufferBase + previewBufferSpan*rnd()
	duration := int(math.Round(distanceKm / previewSpeedKmh * 60 * buffer))

	return RoutePreview{
		DistanceKm:      distanceKm,
		DurationMinutes: duration,
		SuggestedStart:  previewAnchor,
		SuggestedEnd:    previewAnchor + domain.Clock(duration),
	}, nil
}
