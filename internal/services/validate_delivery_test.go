package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"courier-dispatch-service/internal/adapters/distance"
	"courier-dispatch-service/internal/domain"
	"courier-dispatch-service/internal/ports"
)

var (
	testNow  = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
)

// catalog: product 1 is heavy (500 kg, 1 m3), product 2 is a near-full
// vehicle load (900 kg), product 3 is bulky (6 m3, almost weightless).
func testCatalog(t *testing.T) fakeProducts {
	t.Helper()
	return fakeProducts{
		1: {
			ID: 1, Name: "safe",
			WeightKg: dec(t, "500"),
			LengthCm: dec(t, "100"), WidthCm: dec(t, "100"), HeightCm: dec(t, "100"),
		},
		2: {
			ID: 2, Name: "generator",
			WeightKg: dec(t, "900"),
			LengthCm: dec(t, "100"), WidthCm: dec(t, "100"), HeightCm: dec(t, "100"),
		},
		3: {
			ID: 3, Name: "foam block",
			WeightKg: dec(t, "1"),
			LengthCm: dec(t, "300"), WidthCm: dec(t, "200"), HeightCm: dec(t, "100"),
		},
	}
}

func testFleet(t *testing.T) fakeVehicles {
	t.Helper()
	return fakeVehicles{
		1: {
			ID: 1, Brand: "Ford Transit", Plate: "A123BC",
			MaxWeightKg: dec(t, "1000"),
			MaxVolumeM3: dec(t, "10"),
		},
	}
}

func testValidator(t *testing.T, repo *fakeDeliveries, provider ports.DistanceProvider) *DeliveryValidator {
	t.Helper()
	if provider == nil {
		provider = distance.NewMockDistanceProvider(nil)
	}
	return &DeliveryValidator{
		Products:   testCatalog(t),
		Vehicles:   testFleet(t),
		Deliveries: repo,
		Distance:   provider,
		Now:        func() time.Time { return testNow },
	}
}

func singleStopDelivery(t *testing.T, start, end string, items ...domain.LineItem) domain.Delivery {
	t.Helper()
	return domain.Delivery{
		VehicleID: 1,
		CreatedBy: 1,
		Date:      testDate,
		Window:    window(t, start, end),
		Status:    domain.StatusPlanned,
		Stops: []domain.Stop{
			{Sequence: 1, Point: domain.Coordinates{Lat: 55.75, Lon: 37.61}, Items: items},
		},
	}
}

func TestValidateOverlappingLoadsSum(t *testing.T) {
	// Existing planned delivery 09:00-13:00 carries 500 kg; a new 12:00-16:00
	// delivery overlaps it, so their loads share the vehicle.
	existing := singleStopDelivery(t, "09:00", "13:00", domain.LineItem{ProductID: 1, Quantity: 1})
	existing.ID = 1
	repo := &fakeDeliveries{existing: []domain.Delivery{existing}, nextID: 1}
	v := testValidator(t, repo, nil)

	// 500 + 500 = 1000 kg, exactly at the limit: inclusive boundary passes.
	ok := singleStopDelivery(t, "12:00", "16:00", domain.LineItem{ProductID: 1, Quantity: 1})
	if err := v.Validate(context.Background(), ok); err != nil {
		t.Fatalf("load at exact capacity should pass, got %v", err)
	}

	// One more unit pushes the combined load to 1500 kg.
	over := singleStopDelivery(t, "12:00", "16:00",
		domain.LineItem{ProductID: 1, Quantity: 1},
		domain.LineItem{ProductID: 1, Quantity: 1},
	)
	err := v.Validate(context.Background(), over)

	var ce *domain.CapacityExceededError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CapacityExceededError, got %v", err)
	}
	if ce.Dimension != "weight" {
		t.Errorf("dimension = %q, want weight", ce.Dimension)
	}
	if !ce.Limit.Equal(dec(t, "1000")) || !ce.Existing.Equal(dec(t, "500")) || !ce.Requested.Equal(dec(t, "1000")) {
		t.Errorf("unexpected breakdown: %+v", ce)
	}
}

func TestValidateDisjointWindowsAreIndependent(t *testing.T) {
	// 900 kg at 09:00-12:00 and 900 kg at 13:00-16:00 never share the
	// vehicle, so both fit on a 1000 kg limit.
	existing := singleStopDelivery(t, "09:00", "12:00", domain.LineItem{ProductID: 2, Quantity: 1})
	existing.ID = 1
	repo := &fakeDeliveries{existing: []domain.Delivery{existing}, nextID: 1}
	v := testValidator(t, repo, nil)

	afternoon := singleStopDelivery(t, "13:00", "16:00", domain.LineItem{ProductID: 2, Quantity: 1})
	if err := v.Validate(context.Background(), afternoon); err != nil {
		t.Fatalf("disjoint windows must not sum loads, got %v", err)
	}

	// Even a single shared minute sums them.
	brushing := singleStopDelivery(t, "11:59", "16:00", domain.LineItem{ProductID: 2, Quantity: 1})
	var ce *domain.CapacityExceededError
	if err := v.Validate(context.Background(), brushing); !errors.As(err, &ce) {
		t.Fatalf("one-minute overlap must sum loads, got %v", err)
	}
}

func TestValidateTerminalDeliveriesExcluded(t *testing.T) {
	for _, status := range []domain.DeliveryStatus{domain.StatusCompleted, domain.StatusCancelled} {
		existing := singleStopDelivery(t, "09:00", "16:00", domain.LineItem{ProductID: 2, Quantity: 1})
		existing.ID = 1
		existing.Status = status
		repo := &fakeDeliveries{existing: []domain.Delivery{existing}, nextID: 1}
		v := testValidator(t, repo, nil)

		candidate := singleStopDelivery(t, "10:00", "14:00", domain.LineItem{ProductID: 2, Quantity: 1})
		if err := v.Validate(context.Background(), candidate); err != nil {
			t.Errorf("status %q should be ignored by the conflict set, got %v", status, err)
		}
	}
}

func TestValidateExcludesOwnIDOnUpdate(t *testing.T) {
	existing := singleStopDelivery(t, "09:00", "16:00", domain.LineItem{ProductID: 2, Quantity: 1})
	existing.ID = 7
	repo := &fakeDeliveries{existing: []domain.Delivery{existing}, nextID: 7}
	v := testValidator(t, repo, nil)

	// Re-validating delivery 7 must not count its stored version against itself.
	updated := singleStopDelivery(t, "09:00", "16:00", domain.LineItem{ProductID: 2, Quantity: 1})
	updated.ID = 7
	if err := v.Validate(context.Background(), updated); err != nil {
		t.Fatalf("update must exclude own row from conflicts, got %v", err)
	}
}

func TestValidateVolumeCheckedIndependently(t *testing.T) {
	repo := &fakeDeliveries{}
	v := testValidator(t, repo, nil)

	// Two foam blocks: 2 kg but 12 m3 on a 10 m3 vehicle.
	candidate := singleStopDelivery(t, "09:00", "16:00", domain.LineItem{ProductID: 3, Quantity: 2})
	err := v.Validate(context.Background(), candidate)

	var ce *domain.CapacityExceededError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CapacityExceededError, got %v", err)
	}
	if ce.Dimension != "volume" {
		t.Errorf("dimension = %q, want volume", ce.Dimension)
	}
	if !ce.Limit.Equal(dec(t, "10")) || !ce.Requested.Equal(dec(t, "12")) {
		t.Errorf("unexpected breakdown: %+v", ce)
	}
}

func TestValidateRouteTimeGate(t *testing.T) {
	provider := distance.NewMockDistanceProvider([]distance.MockPair{
		{From: moscow, To: spb, Km: 635},
	})
	repo := &fakeDeliveries{}
	v := testValidator(t, repo, provider)

	twoCities := func(start, end string) domain.Delivery {
		d := singleStopDelivery(t, start, end, domain.LineItem{ProductID: 1, Quantity: 1})
		d.Stops[0].Point = moscow
		d.Stops = append(d.Stops, domain.Stop{Sequence: 2, Point: spb})
		return d
	}

	// 635 km at 60 km/h plus 2*30 min handling needs 695 minutes.
	err := v.Validate(context.Background(), twoCities("09:00", "09:30"))
	var si *domain.ScheduleInfeasibleError
	if !errors.As(err, &si) {
		t.Fatalf("expected ScheduleInfeasibleError, got %v", err)
	}
	if si.RequiredMinutes != 695 || si.AvailableMinutes != 30 || si.DistanceKm != 635 {
		t.Fatalf("unexpected payload: %+v", si)
	}

	// A whole working day is still not enough: the handling buffer counts.
	if err := v.Validate(context.Background(), twoCities("09:00", "18:00")); !errors.As(err, &si) {
		t.Fatalf("540 min window must still fail for a 695 min route, got %v", err)
	}

	// Widening the window can only flip failing to passing, never back.
	if err := v.Validate(context.Background(), twoCities("08:00", "21:00")); err != nil {
		t.Fatalf("780 min window should fit a 695 min route, got %v", err)
	}
}

func TestValidateRejectsMalformedCandidates(t *testing.T) {
	repo := &fakeDeliveries{}
	v := testValidator(t, repo, nil)
	ctx := context.Background()

	assertInvalid := func(t *testing.T, d domain.Delivery, field string) {
		t.Helper()
		err := v.Validate(ctx, d)
		var ii *domain.InvalidInputError
		if !errors.As(err, &ii) {
			t.Fatalf("expected InvalidInputError, got %v", err)
		}
		if ii.Field != field {
			t.Fatalf("field = %q, want %q", ii.Field, field)
		}
	}

	inverted := singleStopDelivery(t, "16:00", "09:00", domain.LineItem{ProductID: 1, Quantity: 1})
	assertInvalid(t, inverted, "time window")

	past := singleStopDelivery(t, "09:00", "16:00", domain.LineItem{ProductID: 1, Quantity: 1})
	past.Date = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	assertInvalid(t, past, "date")

	empty := singleStopDelivery(t, "09:00", "16:00")
	empty.Stops = nil
	assertInvalid(t, empty, "stops")

	dup := singleStopDelivery(t, "09:00", "16:00", domain.LineItem{ProductID: 1, Quantity: 1})
	dup.Stops = append(dup.Stops, domain.Stop{Sequence: 1, Point: spb})
	assertInvalid(t, dup, "stop sequence")
}

func TestValidateMissingReferences(t *testing.T) {
	repo := &fakeDeliveries{}
	v := testValidator(t, repo, nil)
	ctx := context.Background()

	noVehicle := singleStopDelivery(t, "09:00", "16:00", domain.LineItem{ProductID: 1, Quantity: 1})
	noVehicle.VehicleID = 99
	var nf *domain.NotFoundError
	if err := v.Validate(ctx, noVehicle); !errors.As(err, &nf) || nf.Resource != "vehicle" {
		t.Fatalf("expected vehicle NotFoundError, got %v", err)
	}

	noProduct := singleStopDelivery(t, "09:00", "16:00", domain.LineItem{ProductID: 77, Quantity: 1})
	if err := v.Validate(ctx, noProduct); !errors.As(err, &nf) || nf.Resource != "product" || nf.ID != 77 {
		t.Fatalf("expected product NotFoundError, got %v", err)
	}
}
