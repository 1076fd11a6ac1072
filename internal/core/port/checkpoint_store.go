package port

import "github.com/cosminpetcu/carstat/internal/core/domain"

// CheckpointStorePort - долговременные отметки прогресса обхода.
// Одна скалярная отметка на шард плюс глобальный фронтир.
// Реализация обязана переживать рестарт процесса.
type CheckpointStorePort interface {
	// LoadShard возвращает nil, если отметки для шарда нет.
	LoadShard(shard int) (*domain.ShardCheckpoint, error)
	SaveShard(shard int, cp domain.ShardCheckpoint) error
	// ClearShards - явный сброс после полностью спокойного завершения.
	ClearShards() error

	LoadFrontier() (string, error)
	SaveFrontier(done string) error
	ClearFrontier() error
}
