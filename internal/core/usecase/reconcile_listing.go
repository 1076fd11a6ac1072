package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cosminpetcu/carstat/internal/contextkeys"
	"github.com/cosminpetcu/carstat/internal/core/domain"
	"github.com/cosminpetcu/carstat/internal/core/port"
)

type ReconcileListingUseCase struct {
	storage port.ListingStoragePort
	now     func() time.Time
}

func NewReconcileListingUseCase(storage port.ListingStoragePort) *ReconcileListingUseCase {
	return &ReconcileListingUseCase{
		storage: storage,
		now:     time.Now,
	}
}

// Execute сверяет каноническую запись со свежим результатом источника
// и, если есть что записывать, применяет мутацию одной транзакцией.
// Ошибка хранилища не считается изменением: итог в этом случае -
// OutcomeTransient, чтобы планировщик посчитал ее и пошел дальше.
func (uc *ReconcileListingUseCase) Execute(ctx context.Context, listing domain.CarListing, res domain.SourceResult) (*domain.ReconcileChange, domain.MutationOutcome, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	change, outcome, err := domain.ComputeReconcile(listing, res, uc.now())
	if err != nil {
		if errors.Is(err, domain.ErrMalformedSourceResult) {
			logger.Warn("Source adapter returned OK without fields", port.Fields{"source_url": listing.SourceURL})
		}
		return nil, outcome, err
	}
	if change == nil {
		return nil, outcome, nil
	}

	if err := uc.storage.ApplyReconcile(ctx, *change); err != nil {
		logger.Error("Failed to commit reconcile mutation", err, port.Fields{"source_url": listing.SourceURL})
		return nil, outcome, fmt.Errorf("%w: %v", domain.ErrStorageCommit, err)
	}

	if change.SoldTransition {
		logger.Info("Listing detected as sold", port.Fields{"source_url": listing.SourceURL})
	}
	if change.PriceChanged {
		logger.Info("Listing price changed", port.Fields{
			"source_url": listing.SourceURL,
			"old_price":  listing.Price,
			"new_price":  change.Listing.Price,
		})
	}
	return change, outcome, nil
}
