package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	// Point config resolution at a file that does not exist so the
	// built-in defaults apply.
	t.Setenv("PRAXIS_CONFIG", "does-not-exist.yaml")

	app, err := NewApplication()
	require.NoError(t, err)
	return app
}

func TestApplicationRoutes(t *testing.T) {
	app := newTestApplication(t)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health", http.MethodGet, "/healthz", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"session state", http.MethodGet, "/api/session", http.StatusOK},
		{"tariff aggregates without upload", http.MethodGet, "/api/tariffs/aggregates", http.StatusNotFound},
		{"billing liquidity without upload", http.MethodGet, "/api/billing/liquidity", http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound},
		{"upload without module", http.MethodPost, "/api/upload", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	app := newTestApplication(t)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Frame-Options"))
}
