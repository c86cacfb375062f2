package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
)

// RegisterRoutes registers the short link API.
func RegisterRoutes(api huma.API, links *LinkHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/api/links",
		Summary:       "Create short link",
		Description:   "Shortens a URL under a custom or generated code that expires after the given minutes.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
	}, links.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/api/links",
		Summary:     "List short links",
		Description: "Lists every link with the whole minutes it has left.",
		Tags:        []string{"Links"},
	}, links.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID: "get-link",
		Method:      http.MethodGet,
		Path:        "/api/links/{code}",
		Summary:     "Resolve short link",
		Description: "Resolves a code. Expired codes answer 410 and are removed.",
		Tags:        []string{"Links"},
	}, links.GetLink)

	sse.Register(api, huma.Operation{
		OperationID: "follow-link",
		Method:      http.MethodGet,
		Path:        "/api/links/{code}/follow",
		Summary:     "Follow short link",
		Description: "Streams the resolution state, then the destination once the redirect delay passes.",
		Tags:        []string{"Links"},
	}, map[string]any{
		"state":    LinkState{},
		"navigate": NavigateEvent{},
	}, links.FollowLink)
}
