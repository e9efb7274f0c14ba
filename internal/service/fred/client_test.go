package fred

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MacroPull/pkg/cache"
	xhttp "MacroPull/pkg/http"
	"MacroPull/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func observationsPayload(obs [][2]string) map[string]interface{} {
	list := make([]map[string]string, 0, len(obs))
	for _, o := range obs {
		list = append(list, map[string]string{"date": o[0], "value": o[1]})
	}
	return map[string]interface{}{"observations": list}
}

func fredServer(t *testing.T, obs [][2]string, hits *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/series/observations", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		if r.URL.Query().Get("api_key") == "" {
			http.Error(w, "missing api key", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(observationsPayload(obs))
	})
	mux.HandleFunc("/series", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"seriess": []map[string]string{{
				"id":        r.URL.Query().Get("series_id"),
				"title":     "Gross Domestic Product",
				"units":     "Billions of Dollars",
				"frequency": "Quarterly",
			}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSeriesFetchSkipsMissingValues(t *testing.T) {
	srv := fredServer(t, [][2]string{
		{"1947-01-01", "100.5"},
		{"1947-04-01", "."},
		{"1947-07-01", "101.2"},
	}, nil)

	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	src, err := New("key", srv.URL, xhttp.NewClient(), mem, testLogger(t))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	s, err := src.Series(context.Background(), "GDP")
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("observations = %d, want 2 after skipping missing", s.Len())
	}
	if s.Observations[0].Value != 100.5 || s.Observations[1].Value != 101.2 {
		t.Fatalf("values = %+v", s.Observations)
	}
	if !s.Observations[0].Date.Before(s.Observations[1].Date) {
		t.Fatalf("observations not ordered")
	}
}

func TestSeriesSecondReadHitsCache(t *testing.T) {
	hits := 0
	srv := fredServer(t, [][2]string{{"1947-01-01", "1"}}, &hits)

	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	src, err := New("key", srv.URL, xhttp.NewClient(), mem, testLogger(t))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := context.Background()
	if _, err := src.Series(ctx, "GDP"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := src.Series(ctx, "GDP"); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if hits != 1 {
		t.Fatalf("api hits = %d, want 1", hits)
	}
}

func TestSeriesForceRefreshBypassesCache(t *testing.T) {
	hits := 0
	srv := fredServer(t, [][2]string{{"1947-01-01", "1"}}, &hits)

	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	src, err := New("key", srv.URL, xhttp.NewClient(), mem, testLogger(t), WithForceRefresh(true))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := context.Background()
	if _, err := src.Series(ctx, "GDP"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := src.Series(ctx, "GDP"); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if hits != 2 {
		t.Fatalf("api hits = %d, want 2", hits)
	}
}

func TestSeriesNoNetworkRequiresCache(t *testing.T) {
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	src, err := New("", "http://unused", xhttp.NewClient(), mem, testLogger(t), WithNoNetwork(true))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = src.Series(context.Background(), "GDP")
	if !errors.Is(err, ErrNetworkDisabled) {
		t.Fatalf("expected ErrNetworkDisabled, got %v", err)
	}
}

func TestSeriesNoNetworkServesDurableCache(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}

	srv := fredServer(t, [][2]string{{"1947-01-01", "3.14"}}, nil)
	online, err := New("key", srv.URL, xhttp.NewClient(), fc, testLogger(t), WithCacheTTL(time.Hour))
	if err != nil {
		t.Fatalf("new online: %v", err)
	}
	if _, err := online.Series(context.Background(), "GDP"); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	// Same directory, a fresh FileCache, an offline client.
	fc2, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}
	offline, err := New("", "http://unused", xhttp.NewClient(), fc2, testLogger(t), WithNoNetwork(true))
	if err != nil {
		t.Fatalf("new offline: %v", err)
	}
	s, err := offline.Series(context.Background(), "GDP")
	if err != nil {
		t.Fatalf("offline read: %v", err)
	}
	if s.Len() != 1 || s.Observations[0].Value != 3.14 {
		t.Fatalf("offline series = %+v", s)
	}
}

func TestNewRequiresAPIKeyOnline(t *testing.T) {
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	if _, err := New("", "http://unused", xhttp.NewClient(), mem, testLogger(t)); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestMetadataOfflineFallback(t *testing.T) {
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	src, err := New("", "http://unused", xhttp.NewClient(), mem, testLogger(t), WithNoNetwork(true))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	meta, err := src.Metadata(context.Background(), "GDP")
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.Title != "Gross Domestic Product" {
		t.Fatalf("title = %q", meta.Title)
	}
}

func TestMetadataFetch(t *testing.T) {
	srv := fredServer(t, nil, nil)
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	src, err := New("key", srv.URL, xhttp.NewClient(), mem, testLogger(t))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	meta, err := src.Metadata(context.Background(), "GDP")
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.Units != "Billions of Dollars" || meta.Frequency != "Quarterly" {
		t.Fatalf("meta = %+v", meta)
	}
}
