package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeDaemon(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/get_stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","stats":{"total_entries":3,"total_minutes":100,"active_days":2,"categories":[{"category":"Exercise","minutes":70,"entries":2,"percent":70}]}}`))
	})
	mux.HandleFunc("/get_trends", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "14", r.URL.Query().Get("days"))
		w.Write([]byte(`{"status":"success","trends":[{"date":"15-01-2024","minutes":45},{"date":"16-01-2024","minutes":55}]}`))
	})
	mux.HandleFunc("/get_goals", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","goals":[{"id":"g1","title":"Reading","type":"category","category":"Reading","period":"weekly","target":300,"current_progress":180,"progress_percentage":60}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetch(t *testing.T) {
	srv := newFakeDaemon(t)
	client := NewClient(srv.URL)
	ctx := context.Background()

	stats, err := client.FetchStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, stats.TotalMinutes)
	require.Len(t, stats.Categories, 1)
	assert.Equal(t, "Exercise", stats.Categories[0].Category)

	trends, err := client.FetchTrends(ctx, 14)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, 55, trends[1].Minutes)

	stored, err := client.FetchGoals(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.InDelta(t, 60.0, stored[0].ProgressPercentage, 0.001)
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL)
	_, err := client.FetchStats(context.Background())
	assert.Error(t, err)
}
