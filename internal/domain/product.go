package domain

import "github.com/shopspring/decimal"

var cubicCmPerM3 = decimal.NewFromInt(1_000_000)

// Product is a catalog good referenced by delivery line items.
// Dimensions are centimeters, weight is kilograms. A product is treated as
// immutable once a line item references it.
type Product struct {
	ID       int64
	Name     string
	WeightKg decimal.Decimal
	LengthCm decimal.Decimal
	WidthCm  decimal.Decimal
	HeightCm decimal.Decimal
}

// VolumeM3 returns the product volume in cubic meters.
func (p Product) VolumeM3() decimal.Decimal {
	return p.LengthCm.Mul(p.WidthCm).Mul(p.HeightCm).Div(cubicCmPerM3)
}
