package domain

import "time"

type DeliveryStatus string

const (
	StatusPlanned    DeliveryStatus = "planned"
	StatusInProgress DeliveryStatus = "in_progress"
	StatusCompleted  DeliveryStatus = "completed"
	StatusCancelled  DeliveryStatus = "cancelled"
)

// Terminal reports whether the delivery no longer occupies vehicle capacity.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// LineItem attaches a product quantity to a specific stop.
type LineItem struct {
	ID        int64
	ProductID int64
	Quantity  int
}

// Stop is a geographic point visited in Sequence order.
// Sequence is 1-based and unique within its delivery.
type Stop struct {
	ID       int64
	Sequence int
	Point    Coordinates
	Items    []LineItem
}

// Delivery is a single vehicle/courier assignment covering one date, one
// time window and an ordered list of stops. The combined load of all
// time-overlapping, non-terminal deliveries on the same vehicle and date
// must never exceed the vehicle capacity; the validator enforces this
// before persistence.
type Delivery struct {
	ID        int64
	CourierID *int64
	VehicleID int64
	CreatedBy int64
	Date      time.Time
	Window    TimeWindow
	Status    DeliveryStatus
	Stops     []Stop
}

// Items flattens the line items of every stop.
func (d Delivery) Items() []LineItem {
	var items []LineItem
	for _, s := range d.Stops {
		items = append(items, s.Items...)
	}
	return items
}
