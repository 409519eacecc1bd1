package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"courier-dispatch-service/internal/domain"
)

// Postgres-backed implementation of the DeliveryRepository port.
//
// Stops and line items are always loaded eagerly: every consumer of a
// delivery needs them for load aggregation.
type PostgresDeliveryRepository struct {
	DB *sql.DB
}

func NewPostgresDeliveryRepository(db *sql.DB) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{DB: db}
}

func (r *PostgresDeliveryRepository) GetByID(ctx context.Context, id int64) (domain.Delivery, error) {
	if r.DB == nil {
		return domain.Delivery{}, errors.New("delivery repository: DB is nil")
	}

	q := `
	SELECT delivery_id, courier_id, vehicle_id, created_by, delivery_date, time_start, time_end, status
	FROM deliveries
	WHERE delivery_id = $1;
	`

	d, err := scanDelivery(r.DB.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Delivery{}, &domain.NotFoundError{Resource: "delivery", ID: id}
	}
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("get delivery %d: %w", id, err)
	}

	deliveries := []*domain.Delivery{&d}
	if err := r.loadStops(ctx, deliveries); err != nil {
		return domain.Delivery{}, fmt.Errorf("get delivery %d: %w", id, err)
	}

	return d, nil
}

// FindConflicting selects non-terminal deliveries on the same vehicle and
// date whose window overlaps [window.Start, window.End). The SQL encodes
// the same canonical overlap rule as domain.TimeWindow.Overlaps; windows
// that only touch at a boundary do not conflict.
func (r *PostgresDeliveryRepository) FindConflicting(
	ctx context.Context,
	vehicleID int64,
	date time.Time,
	window domain.TimeWindow,
	excludeID int64,
) ([]domain.Delivery, error) {
	if r.DB == nil {
		return nil, errors.New("delivery repository: DB is nil")
	}

	q := `
	SELECT delivery_id, courier_id, vehicle_id, created_by, delivery_date, time_start, time_end, status
	FROM deliveries
	WHERE vehicle_id = $1
		AND delivery_date = $2
		AND status NOT IN ('completed', 'cancelled')
		AND time_start < $3
		AND time_end > $4
		AND delivery_id <> $5
	ORDER BY delivery_id;
	`

	rows, err := r.DB.QueryContext(ctx, q, vehicleID, date, int(window.End), int(window.Start), excludeID)
	if err != nil {
		return nil, fmt.Errorf("find conflicting deliveries: query deliveries table: %w", err)
	}
	defer rows.Close()

	var deliveries []*domain.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("find conflicting deliveries: scan row: %w", err)
		}
		deliveries = append(deliveries, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find conflicting deliveries: row iteration: %w", err)
	}

	if err := r.loadStops(ctx, deliveries); err != nil {
		return nil, fmt.Errorf("find conflicting deliveries: %w", err)
	}

	out := make([]domain.Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, *d)
	}
	return out, nil
}

// Create inserts the delivery with all stops and line items in one
// transaction and populates the generated ids.
func (r *PostgresDeliveryRepository) Create(ctx context.Context, d *domain.Delivery) error {
	if r.DB == nil {
		return errors.New("delivery repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create delivery: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := `
	INSERT INTO deliveries (courier_id, vehicle_id, created_by, delivery_date, time_start, time_end, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING delivery_id;
	`
	err = tx.QueryRowContext(
		ctx, q,
		nullableID(d.CourierID), d.VehicleID, d.CreatedBy,
		d.Date, int(d.Window.Start), int(d.Window.End), string(d.Status),
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("create delivery: insert delivery: %w", err)
	}

	if err := insertStops(ctx, tx, d); err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create delivery: commit tx: %w", err)
	}
	return nil
}

// Update rewrites the delivery row and replaces all its stops and line
// items atomically.
func (r *PostgresDeliveryRepository) Update(ctx context.Context, d *domain.Delivery) error {
	if r.DB == nil {
		return errors.New("delivery repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update delivery: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := `
	UPDATE deliveries
	SET courier_id = $1,
		vehicle_id = $2,
		delivery_date = $3,
		time_start = $4,
		time_end = $5,
		status = $6
	WHERE delivery_id = $7;
	`
	res, err := tx.ExecContext(
		ctx, q,
		nullableID(d.CourierID), d.VehicleID,
		d.Date, int(d.Window.Start), int(d.Window.End), string(d.Status),
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("update delivery: update row: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &domain.NotFoundError{Resource: "delivery", ID: d.ID}
	}

	// Line items cascade with their stops.
	if _, err := tx.ExecContext(ctx, `DELETE FROM delivery_stops WHERE delivery_id = $1;`, d.ID); err != nil {
		return fmt.Errorf("update delivery: clear stops: %w", err)
	}

	if err := insertStops(ctx, tx, d); err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update delivery: commit tx: %w", err)
	}
	return nil
}

func (r *PostgresDeliveryRepository) Delete(ctx context.Context, id int64) error {
	if r.DB == nil {
		return errors.New("delivery repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM deliveries WHERE delivery_id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete delivery %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &domain.NotFoundError{Resource: "delivery", ID: id}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row rowScanner) (domain.Delivery, error) {
	var (
		d         domain.Delivery
		courierID sql.NullInt64
		start     int
		end       int
		status    string
	)
	if err := row.Scan(&d.ID, &courierID, &d.VehicleID, &d.CreatedBy, &d.Date, &start, &end, &status); err != nil {
		return domain.Delivery{}, err
	}

	if courierID.Valid {
		id := courierID.Int64
		d.CourierID = &id
	}
	d.Window = domain.TimeWindow{Start: domain.Clock(start), End: domain.Clock(end)}
	d.Status = domain.DeliveryStatus(status)
	return d, nil
}

// loadStops attaches stops and line items to the given deliveries using one
// query per table.
func (r *PostgresDeliveryRepository) loadStops(ctx context.Context, deliveries []*domain.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}

	byDelivery := make(map[int64]*domain.Delivery, len(deliveries))
	ids := make([]int64, 0, len(deliveries))
	for _, d := range deliveries {
		byDelivery[d.ID] = d
		ids = append(ids, d.ID)
	}

	q := `
	SELECT stop_id, delivery_id, sequence, lat, lon
	FROM delivery_stops
	WHERE delivery_id = ANY($1::bigint[])
	ORDER BY delivery_id, sequence;
	`
	rows, err := r.DB.QueryContext(ctx, q, ids)
	if err != nil {
		return fmt.Errorf("load stops: query delivery_stops table: %w", err)
	}
	defer rows.Close()

	stopIDs := make([]int64, 0)
	for rows.Next() {
		var (
			stop       domain.Stop
			deliveryID int64
		)
		if err := rows.Scan(&stop.ID, &deliveryID, &stop.Sequence, &stop.Point.Lat, &stop.Point.Lon); err != nil {
			return fmt.Errorf("load stops: scan row: %w", err)
		}

		d := byDelivery[deliveryID]
		d.Stops = append(d.Stops, stop)
		stopIDs = append(stopIDs, stop.ID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load stops: row iteration: %w", err)
	}

	if len(stopIDs) == 0 {
		return nil
	}

	// Pointers are taken only after all appends are done, so the backing
	// arrays no longer move.
	byStop := make(map[int64]*domain.Stop, len(stopIDs))
	for _, d := range deliveries {
		for i := range d.Stops {
			byStop[d.Stops[i].ID] = &d.Stops[i]
		}
	}

	qi := `
	SELECT item_id, stop_id, product_id, quantity
	FROM delivery_items
	WHERE stop_id = ANY($1::bigint[])
	ORDER BY item_id;
	`
	itemRows, err := r.DB.QueryContext(ctx, qi, stopIDs)
	if err != nil {
		return fmt.Errorf("load stops: query delivery_items table: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			item   domain.LineItem
			stopID int64
		)
		if err := itemRows.Scan(&item.ID, &stopID, &item.ProductID, &item.Quantity); err != nil {
			return fmt.Errorf("load stops: scan item row: %w", err)
		}
		byStop[stopID].Items = append(byStop[stopID].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("load stops: item row iteration: %w", err)
	}

	return nil
}

func insertStops(ctx context.Context, tx *sql.Tx, d *domain.Delivery) error {
	stopStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO delivery_stops (delivery_id, sequence, lat, lon)
	VALUES ($1, $2, $3, $4)
	RETURNING stop_id;
	`)
	if err != nil {
		return fmt.Errorf("insert stops: prepare: %w", err)
	}
	defer stopStmt.Close()

	itemStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO delivery_items (stop_id, product_id, quantity)
	VALUES ($1, $2, $3)
	RETURNING item_id;
	`)
	if err != nil {
		return fmt.Errorf("insert items: prepare: %w", err)
	}
	defer itemStmt.Close()

	for si := range d.Stops {
		stop := &d.Stops[si]
		err := stopStmt.QueryRowContext(ctx, d.ID, stop.Sequence, stop.Point.Lat, stop.Point.Lon).Scan(&stop.ID)
		if err != nil {
			return fmt.Errorf("insert stops: sequence %d: %w", stop.Sequence, err)
		}

		for ii := range stop.Items {
			item := &stop.Items[ii]
			err := itemStmt.QueryRowContext(ctx, stop.ID, item.ProductID, item.Quantity).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("insert items: stop %d product %d: %w", stop.Sequence, item.ProductID, err)
			}
		}
	}

	return nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
