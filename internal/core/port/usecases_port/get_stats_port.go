package usecases_port

import (
	"context"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

// GetStoreStatsUseCase возвращает сводку по хранилищу объявлений.
type GetStoreStatsUseCase interface {
	Execute(ctx context.Context) (*domain.StoreStats, error)
}
