package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

// Counter reports how many records the registry holds.
type Counter interface {
	Len(ctx context.Context) (int, error)
}

// Handler handles health check operations.
type Handler struct {
	registry Counter
}

// NewHandler creates a new health handler.
func NewHandler(registry Counter) *Handler {
	return &Handler{registry: registry}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status   string `json:"status"`
		Registry string `json:"registry"`
		Links    int    `json:"links"`
	}
}

// Check performs a health check of the application and its registry.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"

	n, err := h.registry.Len(ctx)
	if err != nil {
		resp.Body.Registry = "unhealthy"
		resp.Body.Status = "degraded"

		return resp, nil
	}

	resp.Body.Registry = "healthy"
	resp.Body.Links = n

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/api/health", h.Check)
}
