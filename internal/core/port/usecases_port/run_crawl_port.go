package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

// RunCrawlUseCase запускает обход активных объявлений в фоне и сразу
// возвращает идентификатор прогона.
type RunCrawlUseCase interface {
	Execute(ctx context.Context) (uuid.UUID, error)
}
