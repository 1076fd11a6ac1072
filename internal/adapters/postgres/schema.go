package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema создает таблицу объявлений, если ее еще нет.
// Вызывается один раз при старте приложения.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS car_listings (
		source_url           TEXT PRIMARY KEY,
		title                TEXT NOT NULL,
		brand                TEXT NOT NULL,
		model                TEXT NOT NULL,

		year                 INT,
		mileage              INT,
		fuel_type            TEXT,
		transmission         TEXT,
		drive_type           TEXT,
		body_style           TEXT,
		engine_capacity      INT,
		engine_power         INT,
		generation           TEXT,
		version              TEXT,
		emission_standard    TEXT,
		doors                INT,
		color                TEXT,
		vehicle_condition    TEXT,
		previous_owners      INT,
		vin                  TEXT,
		location             TEXT,
		description          TEXT,
		seller_type          TEXT,
		origin_country       TEXT,

		damaged              BOOLEAN,
		no_accident          BOOLEAN,
		service_book         BOOLEAN,
		first_owner          BOOLEAN,
		registered           BOOLEAN,
		right_hand_drive     BOOLEAN,

		ad_created_at        TIMESTAMPTZ,

		price                DOUBLE PRECISION NOT NULL,
		price_history        JSONB NOT NULL DEFAULT '[]'::jsonb,
		estimated_price      DOUBLE PRECISION,
		deal_rating          TEXT,
		quality_score        INT,
		suspicious_price     BOOLEAN NOT NULL DEFAULT FALSE,

		sold                 BOOLEAN NOT NULL DEFAULT FALSE,
		sold_detected_at     TIMESTAMPTZ,
		last_price_change_at TIMESTAMPTZ NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL,
		updated_at           TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_car_listings_active ON car_listings (sold) WHERE sold = FALSE;
	CREATE INDEX IF NOT EXISTS idx_car_listings_brand_model ON car_listings (brand, model);
	`

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure car_listings schema: %w", err)
	}
	return nil
}
