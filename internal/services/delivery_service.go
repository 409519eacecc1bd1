package services

import (
	"context"
	"fmt"
	"time"

	"courier-dispatch-service/internal/domain"
	"courier-dispatch-service/internal/platform/locks"
	"courier-dispatch-service/internal/ports"
)

// Deliveries cannot be updated or deleted once within this horizon of
// their delivery date (scheduling freeze).
const freezeHorizon = 72 * time.Hour

// DeliveryService owns the validate-then-persist sequence for deliveries.
//
// All mutations for one (vehicle, date) pair run under a keyed mutex held
// across validation and the write, so concurrent requests cannot jointly
// exceed vehicle capacity.
type DeliveryService struct {
	Repo      ports.DeliveryRepository
	Validator *DeliveryValidator

	locks *locks.KeyedMutex

	// Now is overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

func NewDeliveryService(repo ports.DeliveryRepository, validator *DeliveryValidator) *DeliveryService {
	return &DeliveryService{
		Repo:      repo,
		Validator: validator,
		locks:     locks.NewKeyedMutex(),
	}
}

func (s *DeliveryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func scheduleKey(vehicleID int64, date time.Time) string {
	return fmt.Sprintf("%d|%s", vehicleID, date.Format("2006-01-02"))
}

// Create validates and persists a new delivery. Status defaults to planned.
func (s *DeliveryService) Create(ctx context.Context, d *domain.Delivery) error {
	unlock := s.locks.Lock(scheduleKey(d.VehicleID, d.Date))
	defer unlock()

	if err := s.Validator.Validate(ctx, *d); err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}

	if d.Status == "" {
		d.Status = domain.StatusPlanned
	}

	if err := s.Repo.Create(ctx, d); err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}
	return nil
}

// Update replaces a delivery and all its stops/line items atomically after
// re-validation. The stored delivery must be outside the scheduling freeze.
func (s *DeliveryService) Update(ctx context.Context, d *domain.Delivery) error {
	current, err := s.Repo.GetByID(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if err := s.checkFrozen(current.Date); err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}

	unlock := s.locks.Lock(scheduleKey(d.VehicleID, d.Date))
	defer unlock()

	if err := s.Validator.Validate(ctx, *d); err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}

	if err := s.Repo.Update(ctx, d); err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	return nil
}

// Delete removes a delivery unless it is within the scheduling freeze.
func (s *DeliveryService) Delete(ctx context.Context, id int64) error {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}
	if err := s.checkFrozen(current.Date); err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}

	unlock := s.locks.Lock(scheduleKey(current.VehicleID, current.Date))
	defer unlock()

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}
	return nil
}

func (s *DeliveryService) checkFrozen(date time.Time) error {
	if date.Sub(s.now()) < freezeHorizon {
		return &domain.InvalidInputError{
			Field:  "date",
			Reason: "delivery is within the 3-day scheduling freeze",
		}
	}
	return nil
}
