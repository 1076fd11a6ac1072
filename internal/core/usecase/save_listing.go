package usecase

import (
	"context"
	"time"

	"github.com/cosminpetcu/carstat/internal/contextkeys"
	"github.com/cosminpetcu/carstat/internal/core/domain"
	"github.com/cosminpetcu/carstat/internal/core/port"
)

// SaveCarListingUseCase принимает обнаруженное объявление из очереди
// и заводит каноническую запись. Повторная доставка того же URL -
// штатная ситуация: запись просто не создается второй раз.
type SaveCarListingUseCase struct {
	storage port.ListingStoragePort
	now     func() time.Time
}

func NewSaveCarListingUseCase(storage port.ListingStoragePort) *SaveCarListingUseCase {
	return &SaveCarListingUseCase{
		storage: storage,
		now:     time.Now,
	}
}

func (uc *SaveCarListingUseCase) Execute(ctx context.Context, listing *domain.CarListing) error {
	logger := contextkeys.LoggerFromContext(ctx)

	now := uc.now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	listing.LastPriceChangeAt = now

	created, err := uc.storage.CreateIfAbsent(ctx, *listing)
	if err != nil {
		logger.Error("Failed to save discovered listing", err, port.Fields{"source_url": listing.SourceURL})
		return err
	}
	if !created {
		logger.Debug("Listing already known, skipping", port.Fields{"source_url": listing.SourceURL})
		return nil
	}

	logger.Info("New listing saved", port.Fields{
		"source_url": listing.SourceURL,
		"brand":      listing.Brand,
		"model":      listing.Model,
	})
	return nil
}
