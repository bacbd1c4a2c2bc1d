package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"property-search/models"
	"property-search/utils"
)

const propertyColumns = 15

// PostgresCatalog stores imported properties in PostgreSQL and serves them
// back as the read-only catalog.
type PostgresCatalog struct {
	db *sql.DB
}

// NewPostgresCatalog opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresCatalog.
func NewPostgresCatalog(dsn string, logger *utils.Logger) (*PostgresCatalog, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, Logger: logger}
	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pc := &PostgresCatalog{db: db}
	if err := pc.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pc, nil
}

func (pc *PostgresCatalog) migrate() error {
	_, err := pc.db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			id             TEXT          PRIMARY KEY,
			title          TEXT          NOT NULL,
			price          NUMERIC(12,2) NOT NULL DEFAULT 0,
			location       TEXT          NOT NULL DEFAULT '',
			island         TEXT          NOT NULL DEFAULT '',
			type           TEXT          NOT NULL DEFAULT '',
			bedrooms       INTEGER       NOT NULL DEFAULT 0,
			bathrooms      INTEGER       NOT NULL DEFAULT 0,
			area           NUMERIC(10,2) NOT NULL DEFAULT 0,
			price_per_area NUMERIC(12,2) NOT NULL DEFAULT 0,
			features       TEXT[]        NOT NULL DEFAULT '{}',
			beach_distance NUMERIC(10,2),
			status         VARCHAR(20)   NOT NULL DEFAULT 'available',
			url            TEXT          NOT NULL DEFAULT '',
			listed_at      TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
			saved_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_properties_price  ON properties(price);
		CREATE INDEX IF NOT EXISTS idx_properties_island ON properties(island);
		CREATE INDEX IF NOT EXISTS idx_properties_type   ON properties(type);
	`)
	return err
}

// Write batch-upserts imported properties. Existing rows keep their
// saved_at timestamp.
func (pc *PostgresCatalog) Write(properties []*models.Property) error {
	if len(properties) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(properties); i += batchSize {
		end := i + batchSize
		if end > len(properties) {
			end = len(properties)
		}
		if err := pc.upsertBatch(properties[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pc *PostgresCatalog) upsertBatch(batch []*models.Property) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*propertyColumns)

	for idx, p := range batch {
		base := idx * propertyColumns
		placeholders := make([]string, propertyColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		var beach sql.NullFloat64
		if p.BeachDistance != nil {
			beach = sql.NullFloat64{Float64: *p.BeachDistance, Valid: true}
		}
		valueArgs = append(valueArgs,
			p.ID, p.Title, p.Price, p.Location, p.Island, p.Type,
			p.Bedrooms, p.Bathrooms, p.Area, p.PricePerArea,
			pq.Array(p.Features), beach, string(p.Status), p.URL, p.ListedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO properties (id, title, price, location, island, type,
			bedrooms, bathrooms, area, price_per_area, features, beach_distance,
			status, url, listed_at)
		VALUES %s
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			location = EXCLUDED.location,
			island = EXCLUDED.island,
			type = EXCLUDED.type,
			bedrooms = EXCLUDED.bedrooms,
			bathrooms = EXCLUDED.bathrooms,
			area = EXCLUDED.area,
			price_per_area = EXCLUDED.price_per_area,
			features = EXCLUDED.features,
			beach_distance = EXCLUDED.beach_distance,
			status = EXCLUDED.status,
			url = EXCLUDED.url
	`, strings.Join(valueStrings, ","))

	if _, err := pc.db.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: upsert batch: %w", err)
	}
	return nil
}

// Properties retrieves every stored property ordered by id.
func (pc *PostgresCatalog) Properties() ([]*models.Property, error) {
	rows, err := pc.db.Query(`
		SELECT id, title, price, location, island, type, bedrooms, bathrooms,
			area, price_per_area, features, beach_distance, status, url,
			listed_at, saved_at
		FROM properties
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p := &models.Property{}
		var beach sql.NullFloat64
		var status string
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Price, &p.Location, &p.Island, &p.Type,
			&p.Bedrooms, &p.Bathrooms, &p.Area, &p.PricePerArea,
			pq.Array(&p.Features), &beach, &status, &p.URL,
			&p.ListedAt, &p.SavedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if beach.Valid {
			d := beach.Float64
			p.BeachDistance = &d
		}
		p.Status = models.PropertyStatus(status)
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (pc *PostgresCatalog) Close() error {
	return pc.db.Close()
}
