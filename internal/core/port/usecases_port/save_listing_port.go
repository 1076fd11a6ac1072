package usecases_port

import (
	"context"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

// SaveCarListingUseCase принимает обнаруженное объявление из очереди,
// нормализует его и сохраняет, если такого URL ещё нет.
type SaveCarListingUseCase interface {
	Execute(ctx context.Context, listing *domain.CarListing) error
}
