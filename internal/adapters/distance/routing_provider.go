package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"courier-dispatch-service/internal/domain"
	"courier-dispatch-service/internal/platform/obs"
	"courier-dispatch-service/internal/ports"
)

// RoutingDistanceProvider implements DistanceProvider against an OSRM-style
// routing HTTP API.
//
// It coordinates:
//   - Persistent distance caching (optional)
//   - External API calls with retry/backoff
//   - A great-circle fallback when the remote service cannot be reached
//
// The provider is safe for concurrent use.
type RoutingDistanceProvider struct {
	session *http.Client
	baseURL string
	profile string
	cache   ports.DistanceCache
}

func NewRoutingDistanceProvider(baseURL string, cache ports.DistanceCache) (*RoutingDistanceProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("routing base URL is empty")
	}

	return &RoutingDistanceProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
		cache:   cache,
	}, nil
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// DistanceKm returns the road distance between two points in kilometers,
// rounded to two decimals. The persistent cache is consulted first. When
// the remote service fails after retries, the haversine approximation is
// returned instead of an error; fallback results are not cached.
func (p *RoutingDistanceProvider) DistanceKm(
	ctx context.Context,
	from, to domain.Coordinates,
) (_ float64, err error) {
	defer obs.Time(ctx, "routing.DistanceKm")(&err)

	if p.cache != nil {
		km, ok, err := p.cache.Get(ctx, from, to)
		if err != nil {
			return 0, fmt.Errorf("distance cache get: %w", err)
		}
		if ok {
			return km, nil
		}
	}

	km, fetchErr := p.fetchKm(ctx, from, to)
	if fetchErr != nil {
		log.Printf("routing request failed, falling back to haversine: %v", fetchErr)
		return roundKm(from.HaversineKm(to)), nil
	}

	if p.cache != nil {
		if cErr := p.cache.Put(ctx, from, to, km); cErr != nil {
			log.Printf("distance cache write failed: %v", cErr)
		}
	}

	return km, nil
}

func (p *RoutingDistanceProvider) fetchKm(ctx context.Context, from, to domain.Coordinates) (float64, error) {
	// OSRM expects lon,lat ordering.
	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?overview=false",
		p.baseURL, p.profile, from.Lon, from.Lat, to.Lon, to.Lat,
	)

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, endpoint)
	})
	if err != nil {
		return 0, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var rr routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return 0, fmt.Errorf("decode route response: %w", err)
	}

	if rr.Code != "Ok" {
		return 0, fmt.Errorf("routing service returned code %q", rr.Code)
	}
	if len(rr.Routes) == 0 {
		return 0, errors.New("routing service returned no routes")
	}

	return roundKm(rr.Routes[0].Distance / 1000), nil
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
