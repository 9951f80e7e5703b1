package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/hoken/internal/models"
)

// Client-facing validation messages.
const (
	MsgRequiredMissing   = "required fields are missing"
	MsgInvalidURL        = "invalid URL format"
	MsgURLRequired       = "file_url is required for url materials"
	MsgUnknownType       = "type must be url or file"
	MsgFileNotSupported  = "file upload feature not implemented; use URL sharing"
	MsgInvalidCategoryID = "invalid category_id"
)

// CategoryRef is a category id that decodes from a JSON number or a numeric
// string, since form posts often send the select value as text.
type CategoryRef int64

// UnmarshalJSON implements json.Unmarshaler.
func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*c = CategoryRef(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New(MsgInvalidCategoryID)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*c = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errors.New(MsgInvalidCategoryID)
	}
	*c = CategoryRef(n)
	return nil
}

// CreateMaterialInput is the caller-supplied payload for a new material.
type CreateMaterialInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	CategoryID  CategoryRef         `json:"category_id"`
	Type        models.MaterialType `json:"type"`
	FileURL     string              `json:"file_url"`
	Tags        TagList             `json:"tags"`
}

// normalize trims free-text fields in place.
func (in *CreateMaterialInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Type = models.MaterialType(strings.TrimSpace(string(in.Type)))
	in.FileURL = strings.TrimSpace(in.FileURL)
	in.Tags = normalizeTags(in.Tags)
}

// validateRequired checks presence only; the message is fixed because
// clients show it verbatim.
func (in *CreateMaterialInput) validateRequired() bool {
	return validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.CategoryID, validation.Required, validation.Min(CategoryRef(1))),
		validation.Field(&in.Type, validation.Required),
	) == nil
}

func (in *CreateMaterialInput) validateType() bool {
	return validation.Validate(in.Type,
		validation.In(models.MaterialTypeURL, models.MaterialTypeFile),
	) == nil
}

func validateFileURL(raw string) error {
	return validation.Validate(raw, validation.By(absoluteURL))
}

// absoluteURL accepts only URLs with a scheme and a host.
func absoluteURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("url must be absolute")
	}
	return nil
}

// keywords joins the non-empty search fields with single spaces.
func keywords(title, description string, tags []string) string {
	parts := make([]string, 0, 2+len(tags))
	for _, p := range append([]string{title, description}, tags...) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
