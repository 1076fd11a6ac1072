package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCarListing_CreatesNewRecord(t *testing.T) {
	t.Parallel()

	storage := newFakeStorage()
	uc := NewSaveCarListingUseCase(storage)
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return stamp }

	listing := crawlListing(1)
	require.NoError(t, uc.Execute(context.Background(), &listing))

	saved := storage.byURL(listing.SourceURL)
	require.NotNil(t, saved)
	assert.Equal(t, stamp, saved.CreatedAt)
	assert.Equal(t, stamp, saved.LastPriceChangeAt)
}

func TestSaveCarListing_DuplicateDeliveryIsNoop(t *testing.T) {
	t.Parallel()

	existing := crawlListing(1)
	existing.Price = 7777
	storage := newFakeStorage(existing)
	uc := NewSaveCarListingUseCase(storage)

	duplicate := crawlListing(1)
	require.NoError(t, uc.Execute(context.Background(), &duplicate))

	// Повторная доставка не трогает существующую запись.
	saved := storage.byURL(existing.SourceURL)
	require.NotNil(t, saved)
	assert.Equal(t, 7777.0, saved.Price)
}

func TestGetStoreStats(t *testing.T) {
	t.Parallel()

	sold := crawlListing(1)
	sold.Sold = true
	storage := newFakeStorage(sold, crawlListing(2), crawlListing(3))

	uc := NewGetStoreStatsUseCase(storage)
	stats, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Active)
	assert.Equal(t, int64(1), stats.Sold)
}
