package catalog

import (
	"fmt"

	"github.com/starford/hoken/internal/apperr"
	"github.com/starford/hoken/internal/models"
	"github.com/starford/hoken/internal/store"
)

// Present shapes a stored row into the client-facing material. A tag blob
// that does not decode fails the read instead of being dropped.
func Present(r store.MaterialRow) (models.Material, error) {
	tags, err := DecodeTags(r.Tags.String)
	if err != nil {
		return models.Material{}, apperr.Store(fmt.Sprintf("material %d", r.ID), err)
	}
	return models.Material{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		Type:          models.MaterialType(r.Type),
		FileURL:       r.FileURL.String,
		FileType:      r.FileType.String,
		FileSize:      r.FileSize.Int64,
		Tags:          tags,
		Keywords:      r.Keywords.String,
		CreatedAt:     r.CreatedAt,
		CategoryName:  r.CategoryName,
		CategoryIcon:  r.CategoryIcon,
		CategoryColor: r.CategoryColor,
	}, nil
}

// PresentAll shapes rows in order; the first undecodable row fails the batch.
func PresentAll(rows []store.MaterialRow) ([]models.Material, error) {
	out := make([]models.Material, 0, len(rows))
	for _, r := range rows {
		m, err := Present(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
