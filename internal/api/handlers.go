package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/hoken/internal/apperr"
	"github.com/starford/hoken/internal/catalog"
)

// Handler holds API route handlers.
type Handler struct {
	svc *catalog.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

// materialID extracts the numeric id from /materials/{id}.
func materialID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// fail maps err onto the response. Caller mistakes echo their message;
// anything else is logged and answered with generic.
func fail(w http.ResponseWriter, err error, op, generic string, attrs ...any) {
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrUnsupported):
		writeError(w, http.StatusBadRequest, apperr.Message(err, "invalid request"))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, apperr.Message(err, "not found"))
	default:
		slog.Error(op+" failed", append(attrs, slog.String("error", err.Error()))...)
		writeError(w, http.StatusInternalServerError, generic)
	}
}

// Hello handles GET /api/hello.
//
//	@Summary		Greeting used by the page shell to check the API
//	@Tags			meta
//	@Produce		json
//	@Success		200	{object}	HelloResponse
//	@Router			/hello [get]
func (h *Handler) Hello(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HelloResponse{Message: "Hello from Health Education Portal!"})
}

// ListCategories handles GET /api/categories.
//
//	@Summary		List all categories ordered by id
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	envelope{data=[]Category}
//	@Failure		500	{object}	envelope
//	@Router			/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		fail(w, err, "list categories", "failed to fetch categories")
		return
	}
	writeData(w, http.StatusOK, cats)
}

// ListMaterials handles GET /api/materials.
//
//	@Summary		List materials, newest first
//	@Tags			materials
//	@Produce		json
//	@Param			category	query		string	false	"Category id or \"all\""
//	@Param			search		query		string	false	"Substring matched against title, description and tags"
//	@Param			limit		query		int		false	"Page size"
//	@Param			offset		query		int		false	"Page offset"
//	@Success		200			{object}	envelope{data=[]Material}
//	@Failure		400			{object}	envelope
//	@Failure		500			{object}	envelope
//	@Router			/materials [get]
func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, err := h.svc.ListMaterials(r.Context(), catalog.ListMaterialsParams{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		fail(w, err, "list materials", "failed to fetch materials")
		return
	}
	writeData(w, http.StatusOK, items)
}

// GetMaterial handles GET /api/materials/{id}.
//
//	@Summary		Get a single material
//	@Tags			materials
//	@Produce		json
//	@Param			id	path		int	true	"Material id"
//	@Success		200	{object}	envelope{data=Material}
//	@Failure		400	{object}	envelope
//	@Failure		404	{object}	envelope
//	@Failure		500	{object}	envelope
//	@Router			/materials/{id} [get]
func (h *Handler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid material id")
		return
	}
	m, err := h.svc.GetMaterial(r.Context(), id)
	if err != nil {
		fail(w, err, "get material", "failed to fetch material", slog.Int64("id", id))
		return
	}
	writeData(w, http.StatusOK, m)
}

// CreateMaterial handles POST /api/materials.
//
//	@Summary		Share a new URL material
//	@Tags			materials
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateMaterialRequest	true	"Material to create"
//	@Success		201		{object}	envelope{data=CreateMaterialResponse}
//	@Failure		400		{object}	envelope
//	@Failure		500		{object}	envelope
//	@Router			/materials [post]
func (h *Handler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := h.svc.CreateMaterial(r.Context(), req)
	if err != nil {
		fail(w, err, "create material", "failed to create material", slog.String("title", req.Title))
		return
	}
	writeData(w, http.StatusCreated, res)
}

// DeleteMaterial handles DELETE /api/materials/{id}.
//
//	@Summary		Delete a material
//	@Tags			materials
//	@Produce		json
//	@Param			id	path		int	true	"Material id"
//	@Success		200	{object}	envelope
//	@Failure		400	{object}	envelope
//	@Failure		404	{object}	envelope
//	@Failure		500	{object}	envelope
//	@Router			/materials/{id} [delete]
func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid material id")
		return
	}
	if err := h.svc.DeleteMaterial(r.Context(), id); err != nil {
		fail(w, err, "delete material", "failed to delete material", slog.Int64("id", id))
		return
	}
	writeMessage(w, http.StatusOK, "material deleted")
}
