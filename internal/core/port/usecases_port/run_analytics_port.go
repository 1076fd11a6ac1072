package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

// RunAnalyticsUseCase запускает полный аналитический цикл (дозаполнение
// поколений и пять проходов) в фоне и сразу возвращает идентификатор
// прогона.
type RunAnalyticsUseCase interface {
	Execute(ctx context.Context) (uuid.UUID, error)
}
