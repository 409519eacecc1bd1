package cache

import (
	"fmt"

	"courier-dispatch-service/internal/domain"
)

// Coordinates are rounded to 5 decimals (~1 m) so float jitter does not
// fragment cache entries.
func coordKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
}
