package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createProductsQuery := `
	CREATE TABLE IF NOT EXISTS products (
		product_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		weight_kg NUMERIC(12,3) NOT NULL,
		length_cm NUMERIC(12,2) NOT NULL,
		width_cm NUMERIC(12,2) NOT NULL,
		height_cm NUMERIC(12,2) NOT NULL
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		vehicle_id BIGSERIAL PRIMARY KEY,
		brand TEXT NOT NULL,
		plate TEXT NOT NULL UNIQUE,
		max_weight_kg NUMERIC(12,3) NOT NULL,
		max_volume_m3 NUMERIC(12,4) NOT NULL
	);
	`

	createDeliveriesQuery := `
	CREATE TABLE IF NOT EXISTS deliveries (
		delivery_id BIGSERIAL PRIMARY KEY,
		courier_id BIGINT,
		vehicle_id BIGINT NOT NULL REFERENCES vehicles (vehicle_id),
		created_by BIGINT NOT NULL,
		delivery_date DATE NOT NULL,
		time_start INTEGER NOT NULL,
		time_end INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'planned',
		CHECK (time_start < time_end)
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS delivery_stops (
		stop_id BIGSERIAL PRIMARY KEY,
		delivery_id BIGINT NOT NULL REFERENCES deliveries (delivery_id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		UNIQUE (delivery_id, sequence)
	);
	`

	createItemsQuery := `
	CREATE TABLE IF NOT EXISTS delivery_items (
		item_id BIGSERIAL PRIMARY KEY,
		stop_id BIGINT NOT NULL REFERENCES delivery_stops (stop_id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products (product_id),
		quantity INTEGER NOT NULL CHECK (quantity > 0)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_deliveries_vehicle_date
	ON deliveries (vehicle_id, delivery_date);
	`

	statements := []string{
		createProductsQuery,
		createVehiclesQuery,
		createDeliveriesQuery,
		createStopsQuery,
		createItemsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ProductSeed struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	WeightKg  string `json:"weight_kg"`
	LengthCm  string `json:"length_cm"`
	WidthCm   string `json:"width_cm"`
	HeightCm  string `json:"height_cm"`
}

type VehicleSeed struct {
	VehicleID   int64  `json:"vehicle_id"`
	Brand       string `json:"brand"`
	Plate       string `json:"plate"`
	MaxWeightKg string `json:"max_weight_kg"`
	MaxVolumeM3 string `json:"max_volume_m3"`
}

type CatalogSeed struct {
	Products []ProductSeed `json:"products"`
	Vehicles []VehicleSeed `json:"vehicles"`
}

// Populate the catalog tables from a JSON file. Re-running updates rows in
// place, so the seed stays idempotent for local setups.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed catalog: read %q: %w", jsonPath, err)
	}

	var data CatalogSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed catalog: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed catalog: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	productQuery := `
	INSERT INTO products (product_id, name, weight_kg, length_cm, width_cm, height_cm)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (product_id) DO UPDATE
	SET name = EXCLUDED.name,
		weight_kg = EXCLUDED.weight_kg,
		length_cm = EXCLUDED.length_cm,
		width_cm = EXCLUDED.width_cm,
		height_cm = EXCLUDED.height_cm;
	`
	for i, p := range data.Products {
		if p.ProductID <= 0 {
			return fmt.Errorf("seed catalog: invalid product_id at index %d: %d", i+1, p.ProductID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("seed catalog: product at index %d: name cannot be empty", i+1)
		}

		if _, err := tx.Exec(productQuery, p.ProductID, p.Name, p.WeightKg, p.LengthCm, p.WidthCm, p.HeightCm); err != nil {
			return fmt.Errorf("seed catalog: insert product_id=%d: %w", p.ProductID, err)
		}
	}

	vehicleQuery := `
	INSERT INTO vehicles (vehicle_id, brand, plate, max_weight_kg, max_volume_m3)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (vehicle_id) DO UPDATE
	SET brand = EXCLUDED.brand,
		plate = EXCLUDED.plate,
		max_weight_kg = EXCLUDED.max_weight_kg,
		max_volume_m3 = EXCLUDED.max_volume_m3;
	`
	for i, v := range data.Vehicles {
		if v.VehicleID <= 0 {
			return fmt.Errorf("seed catalog: invalid vehicle_id at index %d: %d", i+1, v.VehicleID)
		}
		if strings.TrimSpace(v.Plate) == "" {
			return fmt.Errorf("seed catalog: vehicle at index %d: plate cannot be empty", i+1)
		}

		if _, err := tx.Exec(vehicleQuery, v.VehicleID, v.Brand, v.Plate, v.MaxWeightKg, v.MaxVolumeM3); err != nil {
			return fmt.Errorf("seed catalog: insert vehicle_id=%d: %w", v.VehicleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed catalog: commit tx: %w", err)
	}

	return nil
}
