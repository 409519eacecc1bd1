package distance

import (
	"context"
	"fmt"

	"courier-dispatch-service/internal/domain"
)

type MockPair struct {
	From, To domain.Coordinates
	Km       float64
}

type MockDistanceProvider struct {
	m map[string]float64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		m[pairKey(p.From, p.To)] = p.Km
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) DistanceKm(ctx context.Context, from, to domain.Coordinates) (float64, error) {
	km, ok := p.m[pairKey(from, to)]
	if !ok {
		return 0, fmt.Errorf("missing pair %v -> %v", from, to)
	}
	return km, nil
}

func pairKey(from, to domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", from.Lat, from.Lon, to.Lat, to.Lon)
}
