package usecase

import (
	"context"

	"github.com/cosminpetcu/carstat/internal/core/domain"
	"github.com/cosminpetcu/carstat/internal/core/port"
)

type GetStoreStatsUseCase struct {
	storage port.ListingStoragePort
}

func NewGetStoreStatsUseCase(storage port.ListingStoragePort) *GetStoreStatsUseCase {
	return &GetStoreStatsUseCase{storage: storage}
}

func (uc *GetStoreStatsUseCase) Execute(ctx context.Context) (*domain.StoreStats, error) {
	stats, err := uc.storage.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
