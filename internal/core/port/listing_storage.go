package port

import (
	"context"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

// ListingStoragePort - контракт канонического хранилища объявлений.
// Ядро не знает ни про SQL, ни про схему - только про эти операции.
type ListingStoragePort interface {
	// GetActiveListings возвращает все непроданные объявления,
	// отсортированные по SourceURL (порядок нарезки шардов).
	GetActiveListings(ctx context.Context) ([]domain.CarListing, error)

	// GetAllListings - полный снимок для аналитических проходов.
	GetAllListings(ctx context.Context) ([]domain.CarListing, error)

	// ApplyReconcile применяет мутацию сверки одной транзакцией:
	// либо вся мутация вместе с дописанной историей цен, либо ничего.
	ApplyReconcile(ctx context.Context, change domain.ReconcileChange) error

	// ApplyAnalytics фиксирует пачку мутаций одного прохода.
	// Мутации самодостаточны и не обязаны быть атомарными между собой.
	ApplyAnalytics(ctx context.Context, mutations []domain.AnalyticsMutation) error

	// CreateIfAbsent заводит новую каноническую запись, если записи с
	// таким SourceURL еще нет. Возвращает true, если запись создана.
	CreateIfAbsent(ctx context.Context, listing domain.CarListing) (bool, error)

	GetStats(ctx context.Context) (domain.StoreStats, error)
}
