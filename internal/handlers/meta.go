package handlers

import "context"

// fallbackOrigin is used when neither a base URL nor a request origin is known.
const fallbackOrigin = "http://localhost"

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata shared by the API and the pages.
type RequestMeta struct {
	// Origin is scheme://host as the client addressed this server.
	Origin    string
	ClientIP  string
	UserAgent string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// Origin picks the origin short links are built on: the configured base URL,
// then the request's own origin.
func Origin(ctx context.Context, baseURL string) string {
	if baseURL != "" {
		return baseURL
	}

	if meta := RequestMetaFromContext(ctx); meta.Origin != "" {
		return meta.Origin
	}

	return fallbackOrigin
}
