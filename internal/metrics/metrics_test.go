package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestInstrumentHandlerUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/tasks/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	body := scrape(t)
	assert.Contains(t, body, `lifequest_http_requests_total{method="GET",route="/api/tasks/{id}",status="404"} 2`)
	assert.NotContains(t, body, `route="/api/tasks/a"`)
}

func TestDomainCounters(t *testing.T) {
	RecordLedgerEntry("coins", "spent")
	RecordExchange(25)
	RecordExchange(-3)
	RecordJob("", time.Millisecond, true)
	RecordPurchase("coin_shop", "ok")

	body := scrape(t)
	assert.Contains(t, body, `lifequest_ledger_entries_total{currency="coins",kind="spent"} 1`)
	assert.Contains(t, body, `lifequest_exchange_coins_total 25`)
	assert.Contains(t, body, `lifequest_jobs_runs_total{job="unknown",success="true"} 1`)
	assert.Contains(t, body, `lifequest_catalog_purchases_total{catalog="coin_shop",outcome="ok"} 1`)
}
