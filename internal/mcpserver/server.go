// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the materials catalog as tools over stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/hoken/internal/apperr"
	"github.com/starford/hoken/internal/catalog"
	"github.com/starford/hoken/internal/models"
)

// GuideURI identifies the sharing guide resource.
const GuideURI = "hoken://sharing-guide"

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp *server.MCPServer
	svc *catalog.Service
}

// New creates a new MCP server with all catalog tools registered.
func New(svc *catalog.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Hoken",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the fixed material categories with their ids."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("search_materials",
		mcp.WithDescription("List shared materials, newest first, optionally filtered by category and a "+
			"case-sensitive substring of title, description or tags."),
		mcp.WithString("category", mcp.Description(`Category id, or "all" (default)`)),
		mcp.WithString("search", mcp.Description("Substring to look for")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results")),
	), s.searchMaterials)

	s.mcp.AddTool(mcp.NewTool("get_material",
		mcp.WithDescription("Read one material by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Material id")),
	), s.getMaterial)

	s.mcp.AddTool(mcp.NewTool("add_material",
		mcp.WithDescription("Share a new URL material. Read the sharing guide first via the "+
			"hoken://sharing-guide resource. Only URL materials are supported."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Material title")),
		mcp.WithNumber("category_id", mcp.Required(), mcp.Description("Id from list_categories")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Absolute URL of the document or video")),
		mcp.WithString("description", mcp.Description("Short description")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
	), s.addMaterial)

	s.mcp.AddTool(mcp.NewTool("delete_material",
		mcp.WithDescription("Permanently delete a material by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Material id")),
	), s.deleteMaterial)

	s.mcp.AddResource(
		mcp.NewResource(GuideURI, "Material Sharing Guide",
			mcp.WithResourceDescription("How to share a material so others can find it."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// toolError renders err for the model. Internal failures stay generic.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrUnsupported),
		errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError(apperr.Message(err, err.Error()))
	}
	return mcp.NewToolResultError("internal error")
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

func (s *Server) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := s.svc.ListCategories(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(cats), nil
}

func (s *Server) searchMaterials(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListMaterials(ctx, catalog.ListMaterialsParams{
		Category: req.GetString("category", "all"),
		Search:   req.GetString("search", ""),
		Limit:    req.GetInt("limit", 0),
	})
	if err != nil {
		return toolError(err), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no materials found"), nil
	}
	return jsonResult(items), nil
}

func (s *Server) getMaterial(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := s.svc.GetMaterial(ctx, int64(id))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(m), nil
}

func (s *Server) addMaterial(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	categoryID, err := req.RequireInt("category_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawURL, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.svc.CreateMaterial(ctx, catalog.CreateMaterialInput{
		Title:       title,
		Description: req.GetString("description", ""),
		CategoryID:  catalog.CategoryRef(categoryID),
		Type:        models.MaterialTypeURL,
		FileURL:     rawURL,
		Tags:        catalog.SplitTags(req.GetString("tags", "")),
	})
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created material %d: %s", res.ID, res.Title)), nil
}

func (s *Server) deleteMaterial(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteMaterial(ctx, int64(id)); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted material %d", id)), nil
}

func (s *Server) readGuideResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GuideURI,
			MIMEType: "text/markdown",
			Text:     strings.TrimSpace(SharingGuide),
		},
	}, nil
}
