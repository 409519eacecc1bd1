package domain

import "github.com/shopspring/decimal"

// Vehicle is a fleet unit with capacity ceilings. The ceilings are
// inclusive: a load exactly at the limit still fits.
type Vehicle struct {
	ID          int64
	Brand       string
	Plate       string
	MaxWeightKg decimal.Decimal
	MaxVolumeM3 decimal.Decimal
}
