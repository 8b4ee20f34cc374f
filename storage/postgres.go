package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"rent-dashboard/models"
	"rent-dashboard/utils"
)

const listingColumns = 13

// PostgresStore persists the listing table in PostgreSQL and serves it back
// as a dataset.
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore opens a connection to PostgreSQL, retries the ping with
// back-off, runs schema migrations and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn string, maxRetries int, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: maxRetries, BaseDelay: time.Second, Logger: logger}
	if err := retry.Do(ctx, "postgres-ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db, logger: logger}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS rental_listings (
			id             SERIAL PRIMARY KEY,
			city           TEXT          NOT NULL,
			area           NUMERIC(10,2) NOT NULL DEFAULT 0,
			rooms          INTEGER       NOT NULL,
			bathroom       INTEGER       NOT NULL,
			parking_spaces INTEGER       NOT NULL DEFAULT 0,
			floor          INTEGER       NOT NULL DEFAULT 0,
			animal         TEXT          NOT NULL,
			furniture      TEXT          NOT NULL DEFAULT '',
			hoa            NUMERIC(12,2) NOT NULL DEFAULT 0,
			rent_amount    NUMERIC(12,2) NOT NULL,
			property_tax   NUMERIC(12,2) NOT NULL DEFAULT 0,
			fire_insurance NUMERIC(12,2) NOT NULL DEFAULT 0,
			total          NUMERIC(12,2) NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_rental_listings_city ON rental_listings(city);
		CREATE INDEX IF NOT EXISTS idx_rental_listings_rent ON rental_listings(rent_amount);
	`)
	return err
}

// Clear deletes all existing listings from the table.
func (ps *PostgresStore) Clear(ctx context.Context) error {
	if _, err := ps.db.ExecContext(ctx, "DELETE FROM rental_listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the table contents with listings, keeping their order, in
// a single transaction.
func (ps *PostgresStore) Write(ctx context.Context, listings []models.Listing) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM rental_listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 200
	for i := 0; i < len(listings); i += batchSize {
		end := min(i+batchSize, len(listings))
		if err := insertBatch(ctx, tx, listings[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	ps.logger.Info("[postgres] Stored %d listings", len(listings))
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, batch []models.Listing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*listingColumns)

	for idx, l := range batch {
		base := idx * listingColumns
		ph := make([]string, listingColumns)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		valueArgs = append(valueArgs,
			l.City, l.Area, l.Rooms, l.Bathroom, l.ParkingSpaces, l.Floor, l.Animal,
			l.Furniture, l.HOA, l.RentAmount, l.PropertyTax, l.FireInsurance, l.Total)
	}

	query := fmt.Sprintf(`
		INSERT INTO rental_listings (city, area, rooms, bathroom, parking_spaces, floor, animal,
			furniture, hoa, rent_amount, property_tax, fire_insurance, total)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// Load retrieves all stored listings in insertion order.
func (ps *PostgresStore) Load(ctx context.Context) (*models.Dataset, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT city, area, rooms, bathroom, parking_spaces, floor, animal,
			furniture, hoa, rent_amount, property_tax, fire_insurance, total
		FROM rental_listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(
			&l.City, &l.Area, &l.Rooms, &l.Bathroom, &l.ParkingSpaces, &l.Floor, &l.Animal,
			&l.Furniture, &l.HOA, &l.RentAmount, &l.PropertyTax, &l.FireInsurance, &l.Total,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate: %w", err)
	}

	ps.logger.Info("[postgres] Loaded %d listings", len(listings))
	return models.NewDataset(listings), nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
