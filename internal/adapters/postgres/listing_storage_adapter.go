package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

// ListingStorageAdapter реализует ListingStoragePort поверх PostgreSQL.
// Одна таблица car_listings, ключ - source_url. История цен лежит
// в jsonb-колонке: читается и пишется только целиком, вместе с записью.
type ListingStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewListingStorageAdapter(pool *pgxpool.Pool) (*ListingStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ListingStorageAdapter{pool: pool}, nil
}

const listingColumns = `
	source_url, title, brand, model,
	year, mileage, fuel_type, transmission, drive_type, body_style,
	engine_capacity, engine_power, generation, version, emission_standard,
	doors, color, vehicle_condition, previous_owners, vin,
	location, description, seller_type, origin_country,
	damaged, no_accident, service_book, first_owner, registered, right_hand_drive,
	ad_created_at,
	price, price_history, estimated_price, deal_rating, quality_score, suspicious_price,
	sold, sold_detected_at, last_price_change_at, created_at, updated_at`

func scanListing(row pgx.Row) (domain.CarListing, error) {
	var l domain.CarListing
	err := row.Scan(
		&l.SourceURL, &l.Title, &l.Brand, &l.Model,
		&l.Year, &l.Mileage, &l.FuelType, &l.Transmission, &l.DriveType, &l.BodyStyle,
		&l.EngineCapacity, &l.EnginePower, &l.Generation, &l.Version, &l.EmissionStandard,
		&l.Doors, &l.Color, &l.VehicleCondition, &l.PreviousOwners, &l.VIN,
		&l.Location, &l.Description, &l.SellerType, &l.OriginCountry,
		&l.Damaged, &l.NoAccident, &l.ServiceBook, &l.FirstOwner, &l.Registered, &l.RightHandDrive,
		&l.AdCreatedAt,
		&l.Price, &l.PriceHistory, &l.EstimatedPrice, &l.DealRating, &l.QualityScore, &l.SuspiciousPrice,
		&l.Sold, &l.SoldDetectedAt, &l.LastPriceChangeAt, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func (a *ListingStorageAdapter) queryListings(ctx context.Context, sql string, args ...any) ([]domain.CarListing, error) {
	rows, err := a.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.CarListing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing rows iteration failed: %w", err)
	}
	return listings, nil
}

// GetActiveListings возвращает непроданные объявления, отсортированные
// по source_url. Порядок важен: по нему нарезаются шарды обхода.
func (a *ListingStorageAdapter) GetActiveListings(ctx context.Context) ([]domain.CarListing, error) {
	sql := `SELECT ` + listingColumns + ` FROM car_listings WHERE sold = FALSE ORDER BY source_url`
	return a.queryListings(ctx, sql)
}

func (a *ListingStorageAdapter) GetAllListings(ctx context.Context) ([]domain.CarListing, error) {
	sql := `SELECT ` + listingColumns + ` FROM car_listings ORDER BY source_url`
	return a.queryListings(ctx, sql)
}

func listingValues(l *domain.CarListing) []any {
	return []any{
		l.SourceURL, l.Title, l.Brand, l.Model,
		l.Year, l.Mileage, l.FuelType, l.Transmission, l.DriveType, l.BodyStyle,
		l.EngineCapacity, l.EnginePower, l.Generation, l.Version, l.EmissionStandard,
		l.Doors, l.Color, l.VehicleCondition, l.PreviousOwners, l.VIN,
		l.Location, l.Description, l.SellerType, l.OriginCountry,
		l.Damaged, l.NoAccident, l.ServiceBook, l.FirstOwner, l.Registered, l.RightHandDrive,
		l.AdCreatedAt,
		l.Price, l.PriceHistory, l.EstimatedPrice, l.DealRating, l.QualityScore, l.SuspiciousPrice,
		l.Sold, l.SoldDetectedAt, l.LastPriceChangeAt, l.CreatedAt, l.UpdatedAt,
	}
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

// CreateIfAbsent заводит новую запись; повторная доставка того же URL
// молча игнорируется благодаря ON CONFLICT DO NOTHING.
func (a *ListingStorageAdapter) CreateIfAbsent(ctx context.Context, listing domain.CarListing) (bool, error) {
	values := listingValues(&listing)
	sql := `INSERT INTO car_listings (` + listingColumns + `)
		VALUES (` + placeholders(len(values)) + `)
		ON CONFLICT (source_url) DO NOTHING`

	tag, err := a.pool.Exec(ctx, sql, values...)
	if err != nil {
		return false, fmt.Errorf("failed to insert listing %s: %w", listing.SourceURL, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ApplyReconcile перезаписывает запись целиком из вычисленной мутации
// в рамках одной транзакции: либо вся мутация вместе с дописанной
// историей цен, либо ничего.
func (a *ListingStorageAdapter) ApplyReconcile(ctx context.Context, change domain.ReconcileChange) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	l := &change.Listing
	sql := `UPDATE car_listings SET
		year = $2, mileage = $3, fuel_type = $4, transmission = $5, drive_type = $6,
		body_style = $7, engine_capacity = $8, engine_power = $9, generation = $10,
		version = $11, emission_standard = $12, doors = $13, color = $14,
		vehicle_condition = $15, previous_owners = $16, vin = $17, location = $18,
		description = $19, seller_type = $20, origin_country = $21,
		damaged = $22, no_accident = $23, service_book = $24, first_owner = $25,
		registered = $26, right_hand_drive = $27, ad_created_at = $28,
		price = $29, price_history = $30,
		sold = $31, sold_detected_at = $32, last_price_change_at = $33, updated_at = $34
		WHERE source_url = $1`

	tag, err := tx.Exec(ctx, sql,
		l.SourceURL,
		l.Year, l.Mileage, l.FuelType, l.Transmission, l.DriveType,
		l.BodyStyle, l.EngineCapacity, l.EnginePower, l.Generation,
		l.Version, l.EmissionStandard, l.Doors, l.Color,
		l.VehicleCondition, l.PreviousOwners, l.VIN, l.Location,
		l.Description, l.SellerType, l.OriginCountry,
		l.Damaged, l.NoAccident, l.ServiceBook, l.FirstOwner,
		l.Registered, l.RightHandDrive, l.AdCreatedAt,
		l.Price, l.PriceHistory,
		l.Sold, l.SoldDetectedAt, l.LastPriceChangeAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to apply reconcile mutation for %s: %w", l.SourceURL, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}

	return tx.Commit(ctx)
}

// ApplyAnalytics фиксирует пачку мутаций одного прохода через pgx.Batch.
// Каждая мутация самодостаточна, атомарность между ними не требуется.
func (a *ListingStorageAdapter) ApplyAnalytics(ctx context.Context, mutations []domain.AnalyticsMutation) error {
	if len(mutations) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range mutations {
		sql, args := analyticsUpdate(&mutations[i])
		if sql == "" {
			continue
		}
		batch.Queue(sql, args...)
	}

	results := a.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to apply analytics mutation: %w", err)
		}
	}
	return nil
}

// analyticsUpdate собирает UPDATE только из тех групп полей, которые
// мутация явно трогает. nil внутри группы означает запись NULL.
func analyticsUpdate(m *domain.AnalyticsMutation) (string, []any) {
	var sets []string
	args := []any{m.SourceURL}

	if m.SetSuspicious {
		sets = append(sets, "suspicious_price = TRUE")
	}
	if m.SetGeneration {
		args = append(args, m.Generation)
		sets = append(sets, fmt.Sprintf("generation = $%d", len(args)))
	}
	if m.SetEstimate {
		args = append(args, m.EstimatedPrice)
		sets = append(sets, fmt.Sprintf("estimated_price = $%d", len(args)))
		args = append(args, m.DealRating)
		sets = append(sets, fmt.Sprintf("deal_rating = $%d", len(args)))
	}
	if m.SetQuality {
		args = append(args, m.QualityScore)
		sets = append(sets, fmt.Sprintf("quality_score = $%d", len(args)))
	}
	if len(sets) == 0 {
		return "", nil
	}

	sets = append(sets, "updated_at = NOW()")
	sql := "UPDATE car_listings SET " + strings.Join(sets, ", ") + " WHERE source_url = $1"
	return sql, args
}

func (a *ListingStorageAdapter) GetStats(ctx context.Context) (domain.StoreStats, error) {
	var stats domain.StoreStats
	sql := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE sold = FALSE),
		COUNT(*) FILTER (WHERE sold = TRUE),
		COUNT(*) FILTER (WHERE suspicious_price = TRUE),
		COUNT(*) FILTER (WHERE deal_rating IS NOT NULL)
		FROM car_listings`

	err := a.pool.QueryRow(ctx, sql).Scan(&stats.Total, &stats.Active, &stats.Sold, &stats.Suspicious, &stats.Rated)
	if err != nil {
		return domain.StoreStats{}, fmt.Errorf("failed to query store stats: %w", err)
	}
	return stats, nil
}
