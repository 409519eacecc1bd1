package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidInputError reports a malformed field on a candidate delivery.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// CapacityExceededError reports a vehicle capacity breach on one dimension
// ("weight" or "volume"). Existing is the load already committed by
// conflicting deliveries, Requested the candidate's own contribution.
type CapacityExceededError struct {
	Dimension string
	Limit     decimal.Decimal
	Existing  decimal.Decimal
	Requested decimal.Decimal
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf(
		"vehicle %s capacity exceeded: limit=%s existing=%s requested=%s",
		e.Dimension, e.Limit, e.Existing, e.Requested,
	)
}

// ScheduleInfeasibleError reports a time window too short for the estimated
// route traversal.
type ScheduleInfeasibleError struct {
	RequiredMinutes  float64
	AvailableMinutes int
	DistanceKm       float64
}

func (e *ScheduleInfeasibleError) Error() string {
	return fmt.Sprintf(
		"time window infeasible: need %.0f min for %.2f km, have %d min",
		e.RequiredMinutes, e.DistanceKm, e.AvailableMinutes,
	)
}
