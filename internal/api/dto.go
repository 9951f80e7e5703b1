package api

import (
	"github.com/starford/hoken/internal/catalog"
	"github.com/starford/hoken/internal/models"
)

// CreateMaterialRequest is the request body for creating a material.
type CreateMaterialRequest = catalog.CreateMaterialInput

// CreateMaterialResponse is the data returned after a successful create.
type CreateMaterialResponse = catalog.CreateResult

// Category is the category response type (aliased from the domain layer).
type Category = models.Category

// Material is the material response type (aliased from the domain layer).
type Material = models.Material

// HelloResponse is returned by GET /api/hello.
type HelloResponse struct {
	Message string `json:"message" example:"Hello from Health Education Portal!"`
}
