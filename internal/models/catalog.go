// Package models defines the domain types for the materials catalog.
package models

import "time"

// MaterialType is the kind of a shared material.
type MaterialType string

const (
	MaterialTypeURL  MaterialType = "url"
	MaterialTypeFile MaterialType = "file"
)

// Category is a fixed classification, seeded out-of-band.
type Category struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Color       string `json:"color" yaml:"color"`
}

// Material is a catalogued teaching resource with its category joined in.
type Material struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	CategoryID    int64        `json:"category_id"`
	Type          MaterialType `json:"type"`
	FileURL       string       `json:"file_url"`
	FileType      string       `json:"file_type"`
	FileSize      int64        `json:"file_size"`
	Tags          []string     `json:"tags"`
	Keywords      string       `json:"keywords"`
	CreatedAt     time.Time    `json:"created_at"`
	CategoryName  string       `json:"category_name"`
	CategoryIcon  string       `json:"category_icon"`
	CategoryColor string       `json:"category_color"`
}
