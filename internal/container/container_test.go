package container_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/container"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts *container.Options) *httptest.Server {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RegistryPackage(injector)
	container.MessagingPackage(injector)
	container.ShortenerPackage(injector)
	container.HTTPPackage(injector)

	require.NoError(t, do.MustInvoke[*messaging.ConsumerGroup](injector).Start(context.Background()))

	router := do.MustInvoke[*chi.Mux](injector)
	_ = do.MustInvoke[huma.API](injector)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		_ = injector.Shutdown()
	})

	return server
}

func defaultOptions() *container.Options {
	return &container.Options{
		CodeLength:      6,
		MaxCodeAttempts: 100,
		DefaultValidity: 30,
		RedirectDelayMs: 1000,
		LogFormat:       "json",
		LogLevel:        "error",
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("console and json formats", func(t *testing.T) {
		for _, format := range []string{"console", "json"} {
			logger, err := container.NewLogger(format, "debug")

			require.NoError(t, err)
			assert.NotNil(t, logger)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := container.NewLogger("console", "loud")

		assert.Error(t, err)
	})
}

func TestHTTPPackage(t *testing.T) {
	t.Run("generated code uses the request origin", func(t *testing.T) {
		server := newTestServer(t, defaultOptions())

		resp, err := http.Post(server.URL+"/api/links", "application/json",
			strings.NewReader(`{"url":"https://example.com/path"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Code     string `json:"code"`
			ShortURL string `json:"shortUrl"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

		assert.Len(t, body.Code, 6)
		assert.Equal(t, server.URL+"/"+body.Code, body.ShortURL)
	})

	t.Run("configured base url wins", func(t *testing.T) {
		opts := defaultOptions()
		opts.BaseURL = "https://sho.rt"
		server := newTestServer(t, opts)

		resp, err := http.Post(server.URL+"/api/links", "application/json",
			strings.NewReader(`{"url":"https://example.com","customCode":"mine"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "https://sho.rt/mine", resp.Header.Get("Location"))
	})

	t.Run("pages and api share the registry", func(t *testing.T) {
		server := newTestServer(t, defaultOptions())

		resp, err := http.Post(server.URL+"/api/links", "application/json",
			strings.NewReader(`{"url":"https://example.com","customCode":"shared"}`))
		require.NoError(t, err)
		resp.Body.Close()

		client := server.Client()
		client.CheckRedirect = func(_ *http.Request, _ []*http.Request) error { return http.ErrUseLastResponse }

		page, err := client.Get(server.URL + "/shared")
		require.NoError(t, err)
		page.Body.Close()

		assert.Equal(t, http.StatusOK, page.StatusCode)
		assert.Equal(t, "1; url=https://example.com", page.Header.Get("Refresh"))

		health, err := client.Get(server.URL + "/api/health")
		require.NoError(t, err)
		defer health.Body.Close()

		var status struct {
			Status string `json:"status"`
			Links  int    `json:"links"`
		}
		require.NoError(t, json.NewDecoder(health.Body).Decode(&status))
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, 1, status.Links)
	})
	t.Run("docs and health are free to use as codes", func(t *testing.T) {
		server := newTestServer(t, defaultOptions())

		client := server.Client()
		client.CheckRedirect = func(_ *http.Request, _ []*http.Request) error { return http.ErrUseLastResponse }

		for _, code := range []string{"docs", "health", "openapi", "schemas"} {
			resp, err := http.Post(server.URL+"/api/links", "application/json",
				strings.NewReader(`{"url":"https://example.com/`+code+`","customCode":"`+code+`"}`))
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, http.StatusCreated, resp.StatusCode, code)

			page, err := client.Get(server.URL + "/" + code)
			require.NoError(t, err)
			page.Body.Close()

			assert.Equal(t, http.StatusOK, page.StatusCode, code)
			assert.Equal(t, "1; url=https://example.com/"+code, page.Header.Get("Refresh"), code)
		}
	})

	t.Run("api docs are served under /api", func(t *testing.T) {
		server := newTestServer(t, defaultOptions())

		resp, err := http.Get(server.URL + "/api/openapi.json")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestNewAPIConfig(t *testing.T) {
	config := container.NewAPIConfig()

	assert.Equal(t, "/api/openapi", config.OpenAPIPath)
	assert.Equal(t, "/api/docs", config.DocsPath)
	assert.Equal(t, "/api/schemas", config.SchemasPath)
}
