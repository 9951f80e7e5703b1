package store

import (
	"context"

	"github.com/starford/hoken/internal/models"
)

// Catalog defines the persistence operations the catalog service relies on.
type Catalog interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListMaterials(ctx context.Context, f ListFilter) ([]MaterialRow, error)
	GetMaterial(ctx context.Context, id int64) (*MaterialRow, error)
	CreateMaterial(ctx context.Context, m NewMaterial) (int64, error)
	DeleteMaterial(ctx context.Context, id int64) (bool, error)
	CountMaterials(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
