package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/bazaarsetu/internal/model"
)

func intPtr(v int) *int { return &v }

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("http://localhost:8000/api/v1")

		if c.baseURL != "http://localhost:8000/api/v1" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "http://localhost:8000/api/v1")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 0 {
			t.Errorf("maxRetries = %d, want 0", c.maxRetries)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
		if !strings.HasPrefix(c.userAgent, "bazaarsetu-dashboard/") {
			t.Errorf("userAgent = %q", c.userAgent)
		}
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		c := NewClient("http://localhost:8000/api/v1/")
		if c.baseURL != "http://localhost:8000/api/v1" {
			t.Errorf("baseURL = %q", c.baseURL)
		}
	})

	t.Run("ignores zero values", func(t *testing.T) {
		c := NewClient("http://x", WithTimeout(0), WithLogger(nil), WithRetries(-2, time.Second))
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want default", c.httpClient.Timeout)
		}
		if c.logger == nil {
			t.Error("nil logger replaced the default")
		}
		if c.maxRetries != 0 {
			t.Errorf("maxRetries = %d, want 0", c.maxRetries)
		}
	})

	t.Run("with options", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		hc := &http.Client{}
		c := NewClient("http://x",
			WithHTTPClient(hc),
			WithTimeout(15*time.Second),
			WithRetries(2, 500*time.Millisecond),
			WithLogger(logger),
		)
		if c.httpClient != hc {
			t.Error("custom HTTP client not set")
		}
		if c.httpClient.Timeout != 15*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 15*time.Second)
		}
		if c.maxRetries != 2 || c.retryBackoff != 500*time.Millisecond {
			t.Errorf("retries = (%d, %v), want (2, 500ms)", c.maxRetries, c.retryBackoff)
		}
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})
}

// TestAPIError tests the APIError type.
func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "Not Found"}
	if got := err.Error(); got != "price api error 404: Not Found" {
		t.Errorf("Error() = %q", got)
	}
	if !err.IsNotFound() {
		t.Error("IsNotFound() = false for 404")
	}

	tests := []struct {
		code int
		want bool
	}{
		{500, true}, {503, true}, {429, true},
		{400, false}, {404, false}, {422, false},
	}
	for _, tt := range tests {
		e := &APIError{StatusCode: tt.code}
		if got := e.IsRetryable(); got != tt.want {
			t.Errorf("IsRetryable() for %d = %v, want %v", tt.code, got, tt.want)
		}
	}
}

// TestDoRequest tests the HTTP request functionality.
func TestDoRequest(t *testing.T) {
	t.Run("sets headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept header = %q, want %q", r.Header.Get("Accept"), "application/json")
			}
			if r.Header.Get("User-Agent") != "test-agent" {
				t.Errorf("User-Agent = %q, want test-agent", r.Header.Get("User-Agent"))
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := NewClient(server.URL, WithUserAgent("test-agent"))
		body, err := c.doRequest(context.Background(), http.MethodGet, "/states", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != `[]` {
			t.Errorf("body = %q, want %q", string(body), `[]`)
		}
	})

	t.Run("fastapi detail becomes message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "No prices found for commodity 9"}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).doRequest(context.Background(), http.MethodGet, "/x", nil)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.Message != "No prices found for commodity 9" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})

	t.Run("non-json error body uses status text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`upstream down`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).doRequest(context.Background(), http.MethodGet, "/x", nil)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.Message != "Bad Gateway" {
			t.Errorf("Message = %q, want %q", apiErr.Message, "Bad Gateway")
		}
		if string(apiErr.Body) != "upstream down" {
			t.Errorf("Body = %q", apiErr.Body)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewClient(server.URL).doRequest(ctx, http.MethodGet, "/x", nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

// TestDoWithRetry tests the retry logic.
func TestDoWithRetry(t *testing.T) {
	t.Run("no retries by default", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).doWithRetry(context.Background(), http.MethodGet, "/x", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if strings.Contains(err.Error(), "max retries") {
			t.Errorf("single attempt should not report retries: %v", err)
		}
		if got := attempts.Load(); got != 1 {
			t.Errorf("attempts = %d, want 1", got)
		}
	})

	t.Run("retries on 5xx when enabled", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"ok": true}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		if _, err := c.doWithRetry(context.Background(), http.MethodGet, "/x", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := attempts.Load(); got != 3 {
			t.Errorf("attempts = %d, want 3", got)
		}
	})

	t.Run("max retries exceeded", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(2, 10*time.Millisecond))
		_, err := c.doWithRetry(context.Background(), http.MethodGet, "/x", nil)
		if err == nil || !strings.Contains(err.Error(), "max retries exceeded") {
			t.Errorf("err = %v, want max retries exceeded", err)
		}
		if got := attempts.Load(); got != 3 {
			t.Errorf("attempts = %d, want 3", got)
		}
	})

	t.Run("does not retry 4xx", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		if _, err := c.doWithRetry(context.Background(), http.MethodGet, "/x", nil); err == nil {
			t.Fatal("expected error, got nil")
		}
		if got := attempts.Load(); got != 1 {
			t.Errorf("attempts = %d, want 1", got)
		}
	})
}

func TestGetStates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/states" {
			t.Errorf("path = %q, want /api/v1/states", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "name": "Telangana", "name_telugu": "తెలంగాణ", "name_hindi": null, "code": "TG"},
			{"id": 2, "name": "Delhi", "code": "DL"}
		]`))
	}))
	defer server.Close()

	states, err := NewClient(server.URL + "/api/v1").GetStates(context.Background())
	if err != nil {
		t.Fatalf("GetStates failed: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("len(states) = %d, want 2", len(states))
	}
	if states[0].Names.Telugu != "తెలంగాణ" || states[0].Names.Hindi != "" {
		t.Errorf("states[0].Names = %+v", states[0].Names)
	}
	if states[1].Code != "DL" {
		t.Errorf("states[1].Code = %q, want DL", states[1].Code)
	}
}

func TestGetTodayPrices(t *testing.T) {
	t.Run("query parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if r.URL.Path != "/prices/today" {
				t.Errorf("path = %q", r.URL.Path)
			}
			if q.Get("state_id") != "3" {
				t.Errorf("state_id = %q, want 3", q.Get("state_id"))
			}
			if q.Get("market_id") != "11" {
				t.Errorf("market_id = %q, want 11", q.Get("market_id"))
			}
			if q.Get("category") != "poultry" {
				t.Errorf("category = %q, want poultry", q.Get("category"))
			}
			if q.Get("sort_by") != "price" || q.Get("sort_order") != "desc" {
				t.Errorf("sort = %q/%q, want price/desc", q.Get("sort_by"), q.Get("sort_order"))
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).GetTodayPrices(context.Background(), model.PricesQuery{
			StateID:  intPtr(3),
			MarketID: intPtr(11),
			Category: model.CategoryPoultry,
			Sort:     model.SortPriceDesc,
		})
		if err != nil {
			t.Fatalf("GetTodayPrices failed: %v", err)
		}
	})

	t.Run("omits unset filters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			for _, k := range []string{"state_id", "market_id", "category"} {
				if q.Has(k) {
					t.Errorf("%s should be omitted, got %q", k, q.Get(k))
				}
			}
			if q.Get("sort_by") != "name" || q.Get("sort_order") != "asc" {
				t.Errorf("sort = %q/%q, want name/asc", q.Get("sort_by"), q.Get("sort_order"))
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		records, err := NewClient(server.URL).GetTodayPrices(context.Background(), model.PricesQuery{Category: model.CategoryAll})
		if err != nil {
			t.Fatalf("GetTodayPrices failed: %v", err)
		}
		if records == nil || len(records) != 0 {
			t.Errorf("records = %#v, want empty", records)
		}
	})

	t.Run("decodes records", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{
				"commodity_id": 4, "commodity_name": "Tomato", "commodity_name_hindi": "टमाटर",
				"market_id": 2, "market_name": "Bowenpally", "district": "Hyderabad",
				"state_id": 1, "state_name": "Telangana",
				"min_price": 18, "max_price": 25, "modal_price": 20.5,
				"price_date": "2024-01-15", "price_change_percent": -3.25, "category": "vegetable"
			}]`))
		}))
		defer server.Close()

		records, err := NewClient(server.URL).GetTodayPrices(context.Background(), model.PricesQuery{})
		if err != nil {
			t.Fatalf("GetTodayPrices failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(records))
		}
		r := records[0]
		if r.ModalPrice != 20.5 || r.Unit != "kg" || r.CommodityNames.Hindi != "टमाटर" {
			t.Errorf("record = %+v", r)
		}
		if r.ChangePercent == nil || *r.ChangePercent != -3.25 {
			t.Errorf("ChangePercent = %v, want -3.25", r.ChangePercent)
		}
		if r.Category == nil || *r.Category != model.CategoryVegetable {
			t.Errorf("Category = %v, want vegetable", r.Category)
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).GetTodayPrices(context.Background(), model.PricesQuery{})
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 {
			t.Errorf("err = %v, want wrapped 500 APIError", err)
		}
		if !strings.HasPrefix(err.Error(), "get today prices: ") {
			t.Errorf("err = %q, want get today prices prefix", err.Error())
		}
	})
}

func TestGetMarket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets/12" {
			t.Errorf("path = %q, want /markets/12", r.URL.Path)
		}
		w.Write([]byte(`{"id": 12, "name": "Azadpur", "district": "North Delhi",
			"state_id": 2, "is_active": true, "state": {"id": 2, "name": "Delhi", "code": "DL"}}`))
	}))
	defer server.Close()

	m, err := NewClient(server.URL).GetMarket(context.Background(), 12)
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}
	if m.Name != "Azadpur" || m.District != "North Delhi" || m.StateName != "Delhi" {
		t.Errorf("market = %+v", m)
	}
}

func TestGetTrend(t *testing.T) {
	t.Run("query and decode", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/prices/trend/5" {
				t.Errorf("path = %q", r.URL.Path)
			}
			if r.URL.Query().Get("days") != "30" {
				t.Errorf("days = %q, want 30", r.URL.Query().Get("days"))
			}
			if r.URL.Query().Get("market_id") != "8" {
				t.Errorf("market_id = %q, want 8", r.URL.Query().Get("market_id"))
			}
			w.Write([]byte(`{
				"commodity_id": 5, "commodity_name": "Onion",
				"prices": [
					{"date": "2024-01-01", "min_price": 20, "max_price": 30, "modal_price": 25},
					{"date": "2024-01-02", "min_price": 22, "max_price": 32, "modal_price": 27}
				],
				"avg_price": 26, "change_percent": 8
			}`))
		}))
		defer server.Close()

		s, err := NewClient(server.URL).GetTrend(context.Background(), model.TrendQuery{CommodityID: 5, MarketID: intPtr(8)})
		if err != nil {
			t.Fatalf("GetTrend failed: %v", err)
		}
		if len(s.Points) != 2 || s.Points[1].MaxPrice != 32 {
			t.Errorf("points = %+v", s.Points)
		}
		if s.Summary.AvgPrice == nil || *s.Summary.AvgPrice != 26 {
			t.Errorf("AvgPrice = %v, want 26", s.Summary.AvgPrice)
		}
		if s.Summary.MinPrice != nil {
			t.Errorf("MinPrice = %v, want nil", *s.Summary.MinPrice)
		}
	})

	t.Run("legacy trend_data", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"commodity_name": "Onion", "trend_data": [{"date": "2024-01-01", "modal_price": 25}]}`))
		}))
		defer server.Close()

		s, err := NewClient(server.URL).GetTrend(context.Background(), model.TrendQuery{CommodityID: 5, Days: 400})
		if err != nil {
			t.Fatalf("GetTrend failed: %v", err)
		}
		if s.CommodityID != 5 {
			t.Errorf("CommodityID = %d, want 5", s.CommodityID)
		}
		if len(s.Points) != 1 {
			t.Fatalf("len(points) = %d, want 1", len(s.Points))
		}
		p := s.Points[0]
		if p.MinPrice != 25 || p.MaxPrice != 25 {
			t.Errorf("point = %+v, want min = max = modal", p)
		}
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "No prices found for commodity 5"}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).GetTrend(context.Background(), model.TrendQuery{CommodityID: 5})
		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsNotFound() {
			t.Errorf("err = %v, want 404 APIError", err)
		}
	})
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status": "healthy"}`))
	}))
	defer server.Close()

	if err := NewClient(server.URL + "/api/v1").Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	server.Close()
	if err := NewClient(server.URL + "/api/v1").Ping(context.Background()); err == nil {
		t.Error("Ping against closed server should fail")
	}
}

func TestAPIErrorMatchesNotFound(t *testing.T) {
	err := fmt.Errorf("get market 3: %w", &APIError{StatusCode: 404})
	if !errors.Is(err, model.ErrNotFound) {
		t.Error("404 should match model.ErrNotFound")
	}
	if errors.Is(&APIError{StatusCode: 500}, model.ErrNotFound) {
		t.Error("500 should not match model.ErrNotFound")
	}
}
