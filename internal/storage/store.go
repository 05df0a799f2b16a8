// Package storage provides abstractions for persisting generated datasets.
package storage

import (
	"context"

	"github.com/synabon/synabon/internal/models"
)

// Store defines the interface for dataset storage operations used by the CLI.
// This abstraction allows swapping storage backends without changing the
// command layer. The generation engine itself never touches a Store.
type Store interface {
	// SaveDataset persists a dataset under a name, replacing any dataset
	// previously saved under the same name.
	SaveDataset(ctx context.Context, name string, d models.Dataset) error

	// LoadDataset retrieves a dataset by name, ordered by date ascending.
	LoadDataset(ctx context.Context, name string) (models.Dataset, error)

	// ListDatasets returns the names of all saved datasets.
	ListDatasets(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
