package ports

import (
	"context"
	"time"

	"courier-dispatch-service/internal/domain"
)

// Port: read access to the product catalog.
type ProductRepository interface {
	// Resolve many products at once. Unknown ids are simply absent from the
	// returned map; callers decide whether that is an error.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
}

// Port: read access to the vehicle fleet.
type VehicleRepository interface {
	// Return the vehicle or a *domain.NotFoundError.
	GetByID(ctx context.Context, id int64) (domain.Vehicle, error)
}

// Port: delivery persistence with conflict lookup for capacity checks.
type DeliveryRepository interface {
	// Return the delivery with stops and line items, or a *domain.NotFoundError.
	GetByID(ctx context.Context, id int64) (domain.Delivery, error)

	// FindConflicting returns deliveries on the same vehicle and date whose
	// status is not terminal and whose time window overlaps the given one.
	// excludeID skips the candidate's own row on the update path (0 for none).
	// Stops and line items are eagerly loaded.
	FindConflicting(ctx context.Context, vehicleID int64, date time.Time, window domain.TimeWindow, excludeID int64) ([]domain.Delivery, error)

	// Create persists a delivery and populates generated ids.
	Create(ctx context.Context, d *domain.Delivery) error

	// Update replaces the delivery row and all its stops/items atomically.
	Update(ctx context.Context, d *domain.Delivery) error

	Delete(ctx context.Context, id int64) error
}
