package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courier-dispatch-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Postgres-backed implementation of the VehicleRepository port.
type PostgresVehicleRepository struct {
	DB *sql.DB
}

func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

func (r *PostgresVehicleRepository) GetByID(ctx context.Context, id int64) (domain.Vehicle, error) {
	if r.DB == nil {
		return domain.Vehicle{}, errors.New("vehicle repository: DB is nil")
	}

	q := `
	SELECT vehicle_id, brand, plate, max_weight_kg, max_volume_m3
	FROM vehicles
	WHERE vehicle_id = $1;
	`

	var (
		v                     domain.Vehicle
		maxWeight, maxVolume string
	)
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Brand, &v.Plate, &maxWeight, &maxVolume)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Vehicle{}, &domain.NotFoundError{Resource: "vehicle", ID: id}
	}
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("get vehicle %d: %w", id, err)
	}

	if v.MaxWeightKg, err = decimal.NewFromString(maxWeight); err != nil {
		return domain.Vehicle{}, fmt.Errorf("get vehicle %d: max weight: %w", id, err)
	}
	if v.MaxVolumeM3, err = decimal.NewFromString(maxVolume); err != nil {
		return domain.Vehicle{}, fmt.Errorf("get vehicle %d: max volume: %w", id, err)
	}

	return v, nil
}
