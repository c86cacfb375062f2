package middleware

import (
	"net/http"
	"strings"

	"github.com/serroba/shortlink/internal/handlers"
)

// RequestMeta adds the request origin, client IP and user-agent to the request context.
// It runs in front of both the API and the pages so short links share one origin.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := handlers.RequestMeta{
			Origin:    extractOrigin(r),
			ClientIP:  extractClientIP(r),
			UserAgent: r.UserAgent(),
		}

		next.ServeHTTP(w, r.WithContext(handlers.ContextWithRequestMeta(r.Context(), meta)))
	})
}

func extractOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	if proto := firstValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = proto
	}

	host := r.Host
	if fwd := firstValue(r.Header.Get("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}

	if host == "" {
		return ""
	}

	return scheme + "://" + host
}

func extractClientIP(r *http.Request) string {
	// X-Forwarded-For may carry a chain; the first entry is the client
	if xff := firstValue(r.Header.Get("X-Forwarded-For")); xff != "" {
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}

	return addr
}

func firstValue(header string) string {
	if idx := strings.Index(header, ","); idx != -1 {
		header = header[:idx]
	}

	return strings.TrimSpace(header)
}
