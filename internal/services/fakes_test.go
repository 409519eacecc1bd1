package services

import (
	"context"
	"testing"
	"time"

	"courier-dispatch-service/internal/domain"

	"github.com/shopspring/decimal"
)

type fakeProducts map[int64]domain.Product

func (f fakeProducts) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	out := make(map[int64]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := f[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeVehicles map[int64]domain.Vehicle

func (f fakeVehicles) GetByID(ctx context.Context, id int64) (domain.Vehicle, error) {
	v, ok := f[id]
	if !ok {
		return domain.Vehicle{}, &domain.NotFoundError{Resource: "vehicle", ID: id}
	}
	return v, nil
}

// fakeDeliveries implements ports.DeliveryRepository over a slice, applying
// the same conflict rule as the production SQL.
type fakeDeliveries struct {
	existing []domain.Delivery
	nextID   int64

	created []domain.Delivery
	updated []domain.Delivery
	deleted []int64
}

func (f *fakeDeliveries) GetByID(ctx context.Context, id int64) (domain.Delivery, error) {
	for _, d := range f.existing {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Delivery{}, &domain.NotFoundError{Resource: "delivery", ID: id}
}

func (f *fakeDeliveries) FindConflicting(
	ctx context.Context,
	vehicleID int64,
	date time.Time,
	window domain.TimeWindow,
	excludeID int64,
) ([]domain.Delivery, error) {
	var out []domain.Delivery
	for _, d := range f.existing {
		if d.VehicleID != vehicleID || !d.Date.Equal(date) {
			continue
		}
		if d.Status.Terminal() {
			continue
		}
		if d.ID == excludeID {
			continue
		}
		if !d.Window.Overlaps(window) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDeliveries) Create(ctx context.Context, d *domain.Delivery) error {
	f.nextID++
	d.ID = f.nextID
	f.existing = append(f.existing, *d)
	f.created = append(f.created, *d)
	return nil
}

func (f *fakeDeliveries) Update(ctx context.Context, d *domain.Delivery) error {
	f.updated = append(f.updated, *d)
	return nil
}

func (f *fakeDeliveries) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func clock(t *testing.T, s string) domain.Clock {
	t.Helper()
	c, err := domain.ParseClock(s)
	if err != nil {
		t.Fatalf("parse clock %q: %v", s, err)
	}
	return c
}

func window(t *testing.T, start, end string) domain.TimeWindow {
	t.Helper()
	return domain.TimeWindow{Start: clock(t, start), End: clock(t, end)}
}
