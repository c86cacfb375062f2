package handlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/shortlink/internal/listing"
	"github.com/serroba/shortlink/internal/resolution"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page carries what the shared layout needs.
type Page struct {
	Title       string
	AutoRefresh bool
}

// HomeForm echoes the submitted form back after a failed submit.
type HomeForm struct {
	URL        string
	CustomCode string
	Validity   string
}

type homePage struct {
	Page
	Form   HomeForm
	Error  string
	Result *LinkItem
}

type statsPage struct {
	Page
	Empty        bool
	EmptyMessage string
	Rows         []LinkItem
}

type resolvePage struct {
	Page
	Code        string
	State       string
	Destination string
}

// PageHandler serves the HTML views: creation at "/", listing at "/stats",
// resolution at "/{code}".
type PageHandler struct {
	service   *shortener.Service
	resolver  *resolution.Resolver
	lister    *listing.Lister
	baseURL   string
	logger    *zap.Logger
	templates *template.Template
}

// NewPageHandler parses the embedded templates and creates the page handler.
func NewPageHandler(
	service *shortener.Service,
	resolver *resolution.Resolver,
	lister *listing.Lister,
	baseURL string,
	logger *zap.Logger,
) *PageHandler {
	return &PageHandler{
		service:   service,
		resolver:  resolver,
		lister:    lister,
		baseURL:   baseURL,
		logger:    logger,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// RegisterPages mounts the HTML views. Static paths win over "/{code}" in chi.
func RegisterPages(router chi.Router, pages *PageHandler) {
	router.Get("/", pages.Home)
	router.Post("/", pages.Submit)
	router.Get("/stats", pages.Stats)
	router.Get("/{code}", pages.Resolve)
}

func (p *PageHandler) Home(w http.ResponseWriter, _ *http.Request) {
	p.render(w, http.StatusOK, "home.html", homePage{Page: Page{Title: "Shorten a URL"}})
}

func (p *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		p.render(w, http.StatusBadRequest, "home.html", homePage{
			Page:  Page{Title: "Shorten a URL"},
			Error: "could not read the form",
		})

		return
	}

	form := HomeForm{
		URL:        r.PostForm.Get("url"),
		CustomCode: r.PostForm.Get("customCode"),
		Validity:   r.PostForm.Get("validity"),
	}

	shortURL, err := p.service.Shorten(r.Context(), shortener.Request{
		OriginalURL:     form.URL,
		CustomCode:      form.CustomCode,
		ValidityMinutes: shortener.ParseValidity(form.Validity),
	})
	if err != nil {
		logShortenFailure(r.Context(), p.logger, form.URL, form.CustomCode, err)

		p.render(w, formErrorStatus(err), "home.html", homePage{
			Page:  Page{Title: "Shorten a URL"},
			Form:  form,
			Error: formErrorMessage(err),
		})

		return
	}

	link := shortURL.Link(Origin(r.Context(), p.baseURL))

	p.render(w, http.StatusCreated, "home.html", homePage{
		Page: Page{Title: "Shorten a URL"},
		Result: &LinkItem{
			Code:        string(shortURL.Code),
			ShortURL:    link,
			OriginalURL: shortURL.Record.DestinationURL,
			ExpiresAt:   shortURL.Record.ExpiresAt,
		},
	})
}

func (p *PageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := p.lister.List(r.Context())
	if err != nil {
		p.logger.Error("failed to list links", zap.Error(err))
		http.Error(w, "failed to list links", http.StatusInternalServerError)

		return
	}

	origin := Origin(r.Context(), p.baseURL)
	rows := make([]LinkItem, 0, len(stats.Items))

	for _, item := range stats.Items {
		rows = append(rows, LinkItem{
			Code:             string(item.Code),
			ShortURL:         shortener.Link(origin, item.Code),
			OriginalURL:      item.DestinationURL,
			ExpiresAt:        item.ExpiresAt,
			RemainingMinutes: item.RemainingMinutes,
		})
	}

	p.render(w, http.StatusOK, "stats.html", statsPage{
		Page:         Page{Title: "Short links", AutoRefresh: true},
		Empty:        stats.Empty,
		EmptyMessage: EmptyListMessage,
		Rows:         rows,
	})
}

// Resolve shows the resolution view. While redirecting, the Refresh header carries the
// delay so the browser navigates on its own once it passes.
func (p *PageHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	outcome, err := p.resolver.Resolve(r.Context(), shortener.Code(code))
	if err != nil {
		p.logger.Error("failed to resolve link", zap.String("code", code), zap.Error(err))
		http.Error(w, "failed to resolve link", http.StatusInternalServerError)

		return
	}

	data := resolvePage{
		Code:        code,
		State:       string(outcome.State),
		Destination: outcome.Destination,
	}

	switch outcome.State {
	case resolution.StateNotFound:
		data.Title = "Link not found"
		p.render(w, http.StatusNotFound, "resolve.html", data)
	case resolution.StateExpired:
		data.Title = "Link expired"
		p.render(w, http.StatusGone, "resolve.html", data)
	default:
		data.Title = "Redirecting"
		w.Header().Set("Refresh", refreshHeader(outcome))
		p.render(w, http.StatusOK, "resolve.html", data)
	}
}

func (p *PageHandler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		p.logger.Error("failed to render page", zap.String("template", name), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func refreshHeader(outcome resolution.Outcome) string {
	seconds := strconv.FormatFloat(outcome.Delay.Seconds(), 'f', -1, 64)

	return seconds + "; url=" + outcome.Destination
}

func formErrorStatus(err error) int {
	var statusErr huma.StatusError
	if errors.As(shortenError(err), &statusErr) {
		return statusErr.GetStatus()
	}

	return http.StatusInternalServerError
}

func formErrorMessage(err error) string {
	if isUserError(err) || errors.Is(err, shortener.ErrCodeSpaceExhausted) {
		return err.Error()
	}

	return "Something went wrong. Please try again."
}
