package services

import (
	"fmt"

	"courier-dispatch-service/internal/domain"

	"github.com/shopspring/decimal"
)

// AggregateLoad sums weight and volume across a set of line items.
//
// The product map must contain every referenced product; a missing entry
// fails with *domain.NotFoundError rather than being skipped, because a
// partial sum would let an over-capacity delivery slip through. Pure
// function over the supplied lookups.
func AggregateLoad(items []domain.LineItem, products map[int64]domain.Product) (domain.Load, error) {
	load := domain.ZeroLoad()

	for _, item := range items {
		if item.Quantity <= 0 {
			return domain.Load{}, &domain.InvalidInputError{
				Field:  "quantity",
				Reason: fmt.Sprintf("product %d: quantity must be positive, got %d", item.ProductID, item.Quantity),
			}
		}

		p, ok := products[item.ProductID]
		if !ok {
			return domain.Load{}, &domain.NotFoundError{Resource: "product", ID: item.ProductID}
		}

		qty := decimal.NewFromInt(int64(item.Quantity))
		load.WeightKg = load.WeightKg.Add(p.WeightKg.Mul(qty))
		load.VolumeM3 = load.VolumeM3.Add(p.VolumeM3().Mul(qty))
	}

	return load, nil
}

func productIDs(items []domain.LineItem) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
