package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// RequestIDKey correlates log lines of one validation request. The calling
// layer puts the id on the context; an empty value is logged as-is.
const RequestIDKey ctxKey = "req_id"

// Time logs the duration and outcome of an operation. Use as:
//
//	defer obs.Time(ctx, "routing.DistanceKm")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, dur.Milliseconds())
	}
}
