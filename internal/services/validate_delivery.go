package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"courier-dispatch-service/internal/domain"
	"courier-dispatch-service/internal/ports"
)

// DeliveryValidator enforces capacity and schedule feasibility for a
// candidate delivery before it is persisted.
//
// Checks run in a fixed order and stop at the first violation. The
// validator has no side effects; callers persist only after a nil return.
type DeliveryValidator struct {
	Products   ports.ProductRepository
	Vehicles   ports.VehicleRepository
	Deliveries ports.DeliveryRepository
	Distance   ports.DistanceProvider

	// Now is overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (v *DeliveryValidator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Validate checks, in order: time window sanity, delivery date not in the
// past, stop list shape, vehicle existence, product existence, combined
// weight/volume against vehicle capacity (candidate plus all conflicting
// deliveries), and route-time feasibility when the route has at least two
// stops. Capacity ceilings are inclusive: a combined load exactly at the
// limit passes.
func (v *DeliveryValidator) Validate(ctx context.Context, candidate domain.Delivery) error {
	if candidate.Window.Start >= candidate.Window.End {
		return &domain.InvalidInputError{Field: "time window", Reason: "start must be before end"}
	}

	if dateOnly(candidate.Date).Before(dateOnly(v.now())) {
		return &domain.InvalidInputError{Field: "date", Reason: "delivery date must not be in the past"}
	}

	if len(candidate.Stops) == 0 {
		return &domain.InvalidInputError{Field: "stops", Reason: "at least one stop required"}
	}
	if err := checkSequences(candidate.Stops); err != nil {
		return err
	}

	vehicle, err := v.Vehicles.GetByID(ctx, candidate.VehicleID)
	if err != nil {
		return fmt.Errorf("validate delivery: vehicle lookup: %w", err)
	}

	candidateItems := candidate.Items()
	candidateProducts, err := v.Products.GetByIDs(ctx, productIDs(candidateItems))
	if err != nil {
		return fmt.Errorf("validate delivery: product lookup: %w", err)
	}
	for _, id := range productIDs(candidateItems) {
		if _, ok := candidateProducts[id]; !ok {
			return &domain.NotFoundError{Resource: "product", ID: id}
		}
	}

	candidateLoad, err := AggregateLoad(candidateItems, candidateProducts)
	if err != nil {
		return err
	}

	conflicts, err := v.Deliveries.FindConflicting(
		ctx, candidate.VehicleID, candidate.Date, candidate.Window, candidate.ID,
	)
	if err != nil {
		return fmt.Errorf("validate delivery: conflict lookup: %w", err)
	}

	var existingItems []domain.LineItem
	for _, d := range conflicts {
		existingItems = append(existingItems, d.Items()...)
	}
	existingProducts, err := v.Products.GetByIDs(ctx, productIDs(existingItems))
	if err != nil {
		return fmt.Errorf("validate delivery: product lookup for conflicts: %w", err)
	}
	existingLoad, err := AggregateLoad(existingItems, existingProducts)
	if err != nil {
		return fmt.Errorf("validate delivery: aggregate conflicting load: %w", err)
	}

	total := candidateLoad.Add(existingLoad)
	if total.WeightKg.GreaterThan(vehicle.MaxWeightKg) {
		return &domain.CapacityExceededError{
			Dimension: "weight",
			Limit:     vehicle.MaxWeightKg,
			Existing:  existingLoad.WeightKg,
			Requested: candidateLoad.WeightKg,
		}
	}
	if total.VolumeM3.GreaterThan(vehicle.MaxVolumeM3) {
		return &domain.CapacityExceededError{
			Dimension: "volume",
			Limit:     vehicle.MaxVolumeM3,
			Existing:  existingLoad.VolumeM3,
			Requested: candidateLoad.VolumeM3,
		}
	}

	if len(candidate.Stops) >= 2 {
		required, distanceKm, err := EstimateRouteMinutes(ctx, routePoints(candidate.Stops), v.Distance)
		if err != nil {
			return fmt.Errorf("validate delivery: %w", err)
		}

		available := candidate.Window.Minutes()
		if required > float64(available) {
			return &domain.ScheduleInfeasibleError{
				RequiredMinutes:  required,
				AvailableMinutes: available,
				DistanceKm:       distanceKm,
			}
		}
	}

	return nil
}

func checkSequences(stops []domain.Stop) error {
	seen := make(map[int]struct{}, len(stops))
	for _, s := range stops {
		if s.Sequence < 1 {
			return &domain.InvalidInputError{
				Field:  "stop sequence",
				Reason: fmt.Sprintf("sequence must be 1-based, got %d", s.Sequence),
			}
		}
		if _, ok := seen[s.Sequence]; ok {
			return &domain.InvalidInputError{
				Field:  "stop sequence",
				Reason: fmt.Sprintf("duplicate sequence %d", s.Sequence),
			}
		}
		seen[s.Sequence] = struct{}{}
	}
	return nil
}

// routePoints returns stop coordinates in traversal (sequence) order.
func routePoints(stops []domain.Stop) []domain.Coordinates {
	ordered := make([]domain.Stop, len(stops))
	copy(ordered, stops)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })

	points := make([]domain.Coordinates, 0, len(ordered))
	for _, s := range ordered {
		points = append(points, s.Point)
	}
	return points
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
