package port

import (
	"context"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

// SourceFetcherPort - адаптер одного источника (или маршрутизатор по
// источникам): загрузить страницу объявления и вернуть статус плюс
// извлеченные поля. Сетевые вызовы живут только здесь.
type SourceFetcherPort interface {
	Fetch(ctx context.Context, adURL string) (domain.SourceResult, error)
}

// FetcherSessionFactoryPort выдает независимую сессию источников для
// одного воркера: своя идентичность клиента, свои лимиты вежливости.
type FetcherSessionFactoryPort interface {
	NewSession() (SourceFetcherPort, error)
}
