package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/serroba/shortlink/internal/listing"
	"github.com/serroba/shortlink/internal/resolution"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// EmptyListMessage is shown instead of an empty table.
const EmptyListMessage = "No short links yet. Create one to see it here."

// LinkHandler serves the JSON API over the three views.
type LinkHandler struct {
	service  *shortener.Service
	resolver *resolution.Resolver
	lister   *listing.Lister
	baseURL  string
	logger   *zap.Logger
}

// NewLinkHandler creates a new link handler. An empty baseURL builds short links on the request origin.
func NewLinkHandler(
	service *shortener.Service,
	resolver *resolution.Resolver,
	lister *listing.Lister,
	baseURL string,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:  service,
		resolver: resolver,
		lister:   lister,
		baseURL:  baseURL,
		logger:   logger,
	}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	shortURL, err := h.service.Shorten(ctx, shortener.Request{
		OriginalURL:     req.Body.URL,
		CustomCode:      req.Body.CustomCode,
		ValidityMinutes: req.Body.Validity,
	})
	if err != nil {
		logShortenFailure(ctx, h.logger, req.Body.URL, req.Body.CustomCode, err)

		return nil, shortenError(err)
	}

	link := shortURL.Link(Origin(ctx, h.baseURL))

	resp := &CreateLinkResponse{}
	resp.Headers.Location = link
	resp.Body.Code = string(shortURL.Code)
	resp.Body.ShortURL = link
	resp.Body.OriginalURL = shortURL.Record.DestinationURL
	resp.Body.ExpiresAt = shortURL.Record.ExpiresAt

	return resp, nil
}

func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	stats, err := h.lister.List(ctx)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list links")
	}

	origin := Origin(ctx, h.baseURL)

	resp := &ListLinksResponse{}
	resp.Body.Empty = stats.Empty
	resp.Body.Entries = make([]LinkItem, 0, len(stats.Items))

	if stats.Empty {
		resp.Body.Message = EmptyListMessage
	}

	for _, item := range stats.Items {
		resp.Body.Entries = append(resp.Body.Entries, LinkItem{
			Code:             string(item.Code),
			ShortURL:         shortener.Link(origin, item.Code),
			OriginalURL:      item.DestinationURL,
			ExpiresAt:        item.ExpiresAt,
			RemainingMinutes: item.RemainingMinutes,
		})
	}

	return resp, nil
}

func (h *LinkHandler) GetLink(ctx context.Context, req *LinkRequest) (*LinkStateResponse, error) {
	outcome, err := h.resolver.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		h.logger.Error("failed to resolve link", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to resolve link")
	}

	switch outcome.State {
	case resolution.StateNotFound:
		return nil, huma.Error404NotFound("short link not found")
	case resolution.StateExpired:
		return nil, huma.Error410Gone("short link has expired")
	}

	return &LinkStateResponse{Body: linkState(outcome)}, nil
}

// FollowLink streams the resolution view: a state event, then a navigate event once the
// redirect delay passes. Disconnecting cancels the pending navigation.
func (h *LinkHandler) FollowLink(ctx context.Context, req *LinkRequest, send sse.Sender) {
	navigate := make(chan string, 1)
	view := resolution.NewView(h.resolver, resolution.NavigatorFunc(func(destination string) {
		navigate <- destination
	}))
	defer view.Close()

	outcome, err := view.Show(ctx, shortener.Code(req.Code))
	if err != nil {
		h.logger.Error("failed to resolve link", zap.String("code", req.Code), zap.Error(err))

		return
	}

	if err = send.Data(linkState(outcome)); err != nil {
		return
	}

	if outcome.State != resolution.StateRedirecting {
		return
	}

	select {
	case destination := <-navigate:
		if err = send.Data(NavigateEvent{Destination: destination}); err != nil {
			h.logger.Debug("follow stream closed before navigate", zap.String("code", req.Code), zap.Error(err))
		}
	case <-ctx.Done():
	}
}

func linkState(outcome resolution.Outcome) LinkState {
	return LinkState{
		Code:        string(outcome.Code),
		State:       string(outcome.State),
		Destination: outcome.Destination,
		ExpiresAt:   outcome.ExpiresAt,
		DelayMs:     outcome.Delay.Milliseconds(),
	}
}

// shortenError maps creation failures to API errors.
func shortenError(err error) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidURL), errors.Is(err, shortener.ErrInvalidShortcode):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, shortener.ErrDuplicateShortcode):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, shortener.ErrCodeSpaceExhausted):
		return huma.Error503ServiceUnavailable(err.Error())
	default:
		return huma.Error500InternalServerError("failed to save url")
	}
}

// logShortenFailure records rejected input at info and anything else at error,
// together with who sent it.
func logShortenFailure(ctx context.Context, logger *zap.Logger, rawURL, customCode string, err error) {
	meta := RequestMetaFromContext(ctx)
	fields := []zap.Field{
		zap.String("url", rawURL),
		zap.String("customCode", customCode),
		zap.String("clientIp", meta.ClientIP),
		zap.String("userAgent", meta.UserAgent),
		zap.Error(err),
	}

	if isUserError(err) {
		logger.Info("shorten rejected", fields...)

		return
	}

	logger.Error("failed to shorten url", fields...)
}

func isUserError(err error) bool {
	return errors.Is(err, shortener.ErrInvalidURL) ||
		errors.Is(err, shortener.ErrInvalidShortcode) ||
		errors.Is(err, shortener.ErrDuplicateShortcode)
}
