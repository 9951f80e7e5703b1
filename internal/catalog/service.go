// Package catalog implements the materials catalog: validation, URL
// classification, presentation and orchestration of store calls.
package catalog

import (
	"context"
	"time"

	"github.com/starford/hoken/internal/apperr"
	"github.com/starford/hoken/internal/models"
	"github.com/starford/hoken/internal/store"
)

// Material event kinds passed to a Notifier.
const (
	EventCreated = "created"
	EventDeleted = "deleted"
)

// Notifier is told about successful mutations.
type Notifier interface {
	PublishMaterialEvent(kind string, id int64)
}

// Limits bounds list page sizes.
type Limits struct {
	Default int
	Max     int
}

// ListMaterialsParams are the optional list filters as received from callers.
type ListMaterialsParams struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// CreateResult echoes the stored material's identity.
type CreateResult struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	FileURL string `json:"file_url"`
}

// Service coordinates validation and store operations.
type Service struct {
	db       store.Catalog
	limits   Limits
	notifier Notifier
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLimits overrides the default and maximum list page size.
func WithLimits(l Limits) Option {
	return func(s *Service) {
		if l.Default > 0 {
			s.limits.Default = l.Default
		}
		if l.Max > 0 {
			s.limits.Max = l.Max
		}
	}
}

// WithNotifier registers n for material events.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// NewService creates a catalog service over db.
func NewService(db store.Catalog, opts ...Option) *Service {
	s := &Service{
		db:     db,
		limits: Limits{Default: store.DefaultLimit, Max: 100},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListCategories returns every category ordered by id.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.db.ListCategories(ctx)
}

// ListMaterials returns materials newest first with tags decoded.
func (s *Service) ListMaterials(ctx context.Context, p ListMaterialsParams) ([]models.Material, error) {
	limit := p.Limit
	switch {
	case limit <= 0:
		limit = s.limits.Default
	case limit > s.limits.Max:
		limit = s.limits.Max
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.ListMaterials(ctx, store.ListFilter{
		CategoryID: p.Category,
		Search:     p.Search,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}
	return PresentAll(rows)
}

// GetMaterial returns one material with tags decoded.
func (s *Service) GetMaterial(ctx context.Context, id int64) (*models.Material, error) {
	row, err := s.db.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := Present(*row)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMaterial validates in, classifies its URL and stores it. Only URL
// materials are accepted; file materials fail as unsupported before any
// other check.
func (s *Service) CreateMaterial(ctx context.Context, in CreateMaterialInput) (*CreateResult, error) {
	in.normalize()

	if in.Type == models.MaterialTypeFile {
		return nil, apperr.Unsupported(MsgFileNotSupported)
	}
	if !in.validateRequired() {
		return nil, apperr.Validation(MsgRequiredMissing)
	}
	if !in.validateType() {
		return nil, apperr.Validation(MsgUnknownType)
	}

	if in.FileURL == "" {
		return nil, apperr.Validation(MsgURLRequired)
	}
	if err := validateFileURL(in.FileURL); err != nil {
		return nil, apperr.Validation(MsgInvalidURL)
	}

	tags := []string(in.Tags)
	if tags == nil {
		tags = []string{}
	}
	encoded, err := EncodeTags(tags)
	if err != nil {
		return nil, apperr.Store("encode tags", err)
	}

	id, err := s.db.CreateMaterial(ctx, store.NewMaterial{
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  int64(in.CategoryID),
		Type:        string(models.MaterialTypeURL),
		FileURL:     in.FileURL,
		FileType:    ClassifyURL(in.FileURL),
		Tags:        encoded,
		Keywords:    keywords(in.Title, in.Description, tags),
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.notify(EventCreated, id)
	return &CreateResult{ID: id, Title: in.Title, FileURL: in.FileURL}, nil
}

// DeleteMaterial hard-deletes the material with id.
func (s *Service) DeleteMaterial(ctx context.Context, id int64) error {
	ok, err := s.db.DeleteMaterial(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("material not found")
	}
	s.notify(EventDeleted, id)
	return nil
}

// Ready reports whether the backing store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Service) notify(kind string, id int64) {
	if s.notifier != nil {
		s.notifier.PublishMaterialEvent(kind, id)
	}
}
