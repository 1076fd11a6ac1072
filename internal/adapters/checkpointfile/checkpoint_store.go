package checkpointfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

// CheckpointFileStore хранит отметки прогресса обхода в каталоге
// состояния: по одному JSON-файлу на шард плюс файл глобального
// фронтира. Запись атомарная - во временный файл с последующим
// переименованием, чтобы обрыв процесса не оставил полузаписанную
// отметку.
type CheckpointFileStore struct {
	dir string
}

func NewCheckpointFileStore(dir string) (*CheckpointFileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("checkpoint directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory %s: %w", dir, err)
	}
	return &CheckpointFileStore{dir: dir}, nil
}

func (s *CheckpointFileStore) shardPath(shard int) string {
	return filepath.Join(s.dir, fmt.Sprintf("shard_%d.json", shard))
}

func (s *CheckpointFileStore) frontierPath() string {
	return filepath.Join(s.dir, "frontier")
}

// LoadShard возвращает nil, если отметки для шарда нет.
func (s *CheckpointFileStore) LoadShard(shard int) (*domain.ShardCheckpoint, error) {
	data, err := os.ReadFile(s.shardPath(shard))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read shard %d checkpoint: %w", shard, err)
	}

	var cp domain.ShardCheckpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("corrupted shard %d checkpoint: %w", shard, err)
	}
	return &cp, nil
}

func (s *CheckpointFileStore) SaveShard(shard int, cp domain.ShardCheckpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to marshal shard %d checkpoint: %w", shard, err)
	}
	return s.writeAtomic(s.shardPath(shard), data)
}

// ClearShards удаляет все шардовые отметки. Вызывается только после
// полностью спокойного завершения обхода.
func (s *CheckpointFileStore) ClearShards() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to list checkpoint directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "shard_") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove checkpoint %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (s *CheckpointFileStore) LoadFrontier() (string, error) {
	data, err := os.ReadFile(s.frontierPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read global frontier: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *CheckpointFileStore) SaveFrontier(done string) error {
	return s.writeAtomic(s.frontierPath(), []byte(done))
}

func (s *CheckpointFileStore) ClearFrontier() error {
	err := os.Remove(s.frontierPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove global frontier: %w", err)
	}
	return nil
}

func (s *CheckpointFileStore) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp checkpoint file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp checkpoint file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp checkpoint file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace checkpoint file %s: %w", path, err)
	}
	return nil
}
