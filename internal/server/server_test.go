package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/app"
	"github.com/ternarybob/sticker/internal/common"
)

func newTestServer(t *testing.T, marketURL string) http.Handler {
	t.Helper()

	cfg := common.NewDefaultConfig()
	cfg.Storage.Badger.Path = filepath.Join(t.TempDir(), "db")
	cfg.EODHD.APIKey = "test-key"
	cfg.EODHD.BaseURL = marketURL
	cfg.EODHD.RateLimit = 1000
	cfg.Scheduler.Enabled = true

	application, err := app.New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { application.Close() })

	return New(application).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestRoutes_WatchlistLifecycle(t *testing.T) {
	h := newTestServer(t, "http://127.0.0.1:0")

	rec, created := do(t, h, http.MethodPost, "/api/watchlist",
		`{"ticker":"ko","name":"Coca-Cola","current_price":45,"eps":2.5,"growth_rate":0.10,"historical_high_pe":25}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id, _ := created["id"].(string)
	require.True(t, strings.HasPrefix(id, "wl_"))
	assert.Equal(t, "KO", created["ticker"])

	rec, row := do(t, h, http.MethodGet, "/api/watchlist/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Coca-Cola", row["name"])
	assert.Contains(t, row, "valuation")
	assert.Contains(t, row, "display")

	rec, _ = do(t, h, http.MethodGet, "/api/watchlist", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)

	rec, dash := do(t, h, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, dash["watchlist_count"])

	rec, _ = do(t, h, http.MethodDelete, "/api/watchlist/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/api/watchlist/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodPatch, "/api/watchlist", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRoutes_Settings(t *testing.T) {
	h := newTestServer(t, "http://127.0.0.1:0")

	rec, settings := do(t, h, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "USD", settings["currency"])
	assert.Equal(t, 50.0, settings["target_mos"])

	rec, settings = do(t, h, http.MethodPut, "/api/settings", `{"currency":"eur","target_mos":30}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "EUR", settings["currency"])

	rec, _ = do(t, h, http.MethodPut, "/api/settings", `{"currency":"XYZ","target_mos":30}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/api/settings", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRoutes_QuoteThroughMarketProvider(t *testing.T) {
	market := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/real-time/"):
			w.Write([]byte(`{"code":"AAPL.US","timestamp":1700000000,"close":189.5,"previousClose":188}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(market.Close)

	h := newTestServer(t, market.URL)

	rec, quote := do(t, h, http.MethodGet, "/api/stock/aapl", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 189.5, quote["price"])
	assert.Equal(t, "AAPL.US", quote["symbol"])
}

func TestRoutes_SystemAndFallbacks(t *testing.T) {
	h := newTestServer(t, "http://127.0.0.1:0")

	rec, health := do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", health["status"])

	rec, version := do(t, h, http.MethodGet, "/api/version", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, common.GetVersion(), version["version"])

	rec, jobs := do(t, h, http.MethodGet, "/api/scheduler/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, jobs["jobs"], 1)

	rec, valuation := do(t, h, http.MethodPost, "/api/valuation", `{"current_price":8,"eps":2,"growth_rate":0.1,"historical_high_pe":15}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 15.0, valuation["future_pe"])

	rec, notFound := do(t, h, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/api/nope", notFound["path"])

	rec, _ = do(t, h, http.MethodOptions, "/api/watchlist", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDMiddleware(t *testing.T) {
	h := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}
