package domain

import "github.com/shopspring/decimal"

// Load is an aggregated cargo weight and volume. Decimal arithmetic keeps
// capacity comparisons exact at the boundary.
type Load struct {
	WeightKg decimal.Decimal
	VolumeM3 decimal.Decimal
}

func ZeroLoad() Load {
	return Load{WeightKg: decimal.Zero, VolumeM3: decimal.Zero}
}

func (l Load) Add(other Load) Load {
	return Load{
		WeightKg: l.WeightKg.Add(other.WeightKg),
		VolumeM3: l.VolumeM3.Add(other.VolumeM3),
	}
}
