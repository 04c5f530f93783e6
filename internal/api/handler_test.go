package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/coin-change/internal/coins"
	"github.com/eugenenazirov/coin-change/internal/storage"
)

type controllableClock struct {
	mu  sync.RWMutex
	now time.Time
}

func newControllableClock(initial time.Time) *controllableClock {
	return &controllableClock{now: initial}
}

func (c *controllableClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *controllableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupTestRouter(t *testing.T, opts ...HandlerOption) (http.Handler, *controllableClock) {
	t.Helper()

	store := storage.NewMemoryStorage()
	clock := newControllableClock(time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC))

	handler := NewHandler(store, append([]HandlerOption{WithClock(clock.Now)}, opts...)...)
	logger := zaptest.NewLogger(t)
	router := NewRouter(handler, logger, WithLogging(false))

	return router, clock
}

func doJSON(t *testing.T, router http.Handler, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type changeBody struct {
	Amount       int            `json:"amount"`
	Algorithm    string         `json:"algorithm"`
	Coins        map[string]int `json:"coins"`
	TotalCoins   int            `json:"totalCoins"`
	TotalAmount  int            `json:"totalAmount"`
	FrontierPeak int            `json:"frontierPeak"`
	Optimal      bool           `json:"optimal"`
}

func decodeChange(t *testing.T, rec *httptest.ResponseRecorder) changeBody {
	t.Helper()
	var body changeBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	resp := httptest.NewRecorder()
	writeInternalError(resp, assertError("boom"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got %d", resp.Code)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

func TestHealthEndpoint(t *testing.T) {
	router, clock := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(clock.Now()) {
		t.Fatalf("expected timestamp %s, got %s", clock.Now(), body.Timestamp)
	}
}

func TestGetDenominationsReturnsDefaults(t *testing.T) {
	router, clock := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/denominations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Denominations []int     `json:"denominations"`
		UpdatedAt     time.Time `json:"updatedAt"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := storage.DefaultDenominations()
	if len(body.Denominations) != len(want) {
		t.Fatalf("expected %d denominations, got %d", len(want), len(body.Denominations))
	}
	for i, value := range want {
		if body.Denominations[i] != value {
			t.Fatalf("expected denomination %d at position %d, got %d", value, i, body.Denominations[i])
		}
	}
	if !body.UpdatedAt.Equal(clock.Now()) {
		t.Fatalf("expected updatedAt %s, got %s", clock.Now(), body.UpdatedAt)
	}
}

func TestPutDenominationsUpdatesStorage(t *testing.T) {
	router, clock := setupTestRouter(t)

	clock.Advance(time.Hour)

	rec := doJSON(t, router, http.MethodPut, "/api/denominations", map[string]any{
		"denominations": []int{4, 1, 3},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Denominations []int     `json:"denominations"`
		UpdatedAt     time.Time `json:"updatedAt"`
		Message       string    `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Message == "" {
		t.Fatalf("expected success message, got empty string")
	}
	want := []int{1, 3, 4}
	if len(body.Denominations) != len(want) {
		t.Fatalf("expected %d denominations, got %d", len(want), len(body.Denominations))
	}
	for i, value := range want {
		if body.Denominations[i] != value {
			t.Fatalf("expected denomination %d at position %d, got %d", value, i, body.Denominations[i])
		}
	}
	if !body.UpdatedAt.Equal(clock.Now()) {
		t.Fatalf("expected updatedAt %s, got %s", clock.Now(), body.UpdatedAt)
	}
}

func TestPutDenominationsValidatesInput(t *testing.T) {
	router, _ := setupTestRouter(t)

	tooMany := make([]int, 0, storage.MaxDenominations+1)
	for value := 1; value <= storage.MaxDenominations+1; value++ {
		tooMany = append(tooMany, value)
	}

	for _, values := range [][]int{{}, {0, 1}, {-3}, tooMany} {
		rec := doJSON(t, router, http.MethodPut, "/api/denominations", map[string]any{"denominations": values})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400 for %v, got %d", values, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPut, "/api/denominations", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestAlgorithmsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, WithDefaultAlgorithm(coins.DynamicProgramming))

	rec := doJSON(t, router, http.MethodGet, "/api/algorithms", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Algorithms []string `json:"algorithms"`
		Default    string   `json:"default"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Algorithms) != len(coins.Algorithms()) {
		t.Fatalf("unexpected algorithms: %v", body.Algorithms)
	}
	if body.Default != string(coins.DynamicProgramming) {
		t.Fatalf("unexpected default: %s", body.Default)
	}
}

func TestChangeEndpointSuccess(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/change", map[string]any{"amount": 388})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeChange(t, rec)
	if body.Amount != 388 || body.TotalAmount != 388 {
		t.Fatalf("unexpected amounts: %+v", body)
	}
	if body.TotalCoins != 8 {
		t.Fatalf("expected 8 coins, got %d", body.TotalCoins)
	}
	if body.Algorithm != string(coins.BranchAndBound) || !body.Optimal {
		t.Fatalf("unexpected algorithm report: %+v", body)
	}
	paid := 0
	for value, count := range body.Coins {
		var coin int
		if _, err := fmt.Sscanf(value, "%d", &coin); err != nil {
			t.Fatalf("unexpected coin key %q", value)
		}
		paid += coin * count
	}
	if paid != 388 {
		t.Fatalf("breakdown %v pays %d, want 388", body.Coins, paid)
	}
	if body.FrontierPeak < 1 {
		t.Fatalf("expected frontier peak to be reported, got %d", body.FrontierPeak)
	}
}

func TestChangeEndpointZeroAmount(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/change", map[string]any{"amount": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeChange(t, rec)
	if body.TotalCoins != 0 || len(body.Coins) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", body)
	}
}

func TestChangeEndpointAlgorithmSelection(t *testing.T) {
	router, _ := setupTestRouter(t)

	if rec := doJSON(t, router, http.MethodPut, "/api/denominations", map[string]any{"denominations": []int{1, 3, 4}}); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for denominations update, got %d", rec.Code)
	}

	cases := []struct {
		algorithm   string
		wantCoins   int
		wantOptimal bool
	}{
		{"bnb", 2, true},
		{"dp", 2, true},
		{"backtracking", 2, true},
		{"greedy", 3, false},
	}
	for _, tc := range cases {
		t.Run(tc.algorithm, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/change", map[string]any{"amount": 6, "algorithm": tc.algorithm})
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			body := decodeChange(t, rec)
			if body.TotalCoins != tc.wantCoins || body.Optimal != tc.wantOptimal {
				t.Fatalf("unexpected result for %s: %+v", tc.algorithm, body)
			}
		})
	}
}

func TestChangeEndpointRejectsInvalidRequests(t *testing.T) {
	router, _ := setupTestRouter(t, WithMaxAmount(1000))

	cases := map[string]map[string]any{
		"missing amount":    {},
		"negative amount":   {"amount": -5},
		"above maximum":     {"amount": 1001},
		"unknown algorithm": {"amount": 5, "algorithm": "quantum"},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/change", payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestChangeEndpointWithoutUnitCoin(t *testing.T) {
	router, _ := setupTestRouter(t)

	if rec := doJSON(t, router, http.MethodPut, "/api/denominations", map[string]any{"denominations": []int{2, 5}}); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for denominations update, got %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/change", map[string]any{"amount": 9})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for branch-and-bound without unit coin, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/change", map[string]any{"amount": 9, "algorithm": "dp"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 from dynamic programming, got %d", rec.Code)
	}
	if body := decodeChange(t, rec); body.TotalCoins != 3 {
		t.Fatalf("expected 3 coins, got %d", body.TotalCoins)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/change", map[string]any{"amount": 3, "algorithm": "dp"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	var body struct {
		Suggestion string `json:"suggestion"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Suggestion == "" {
		t.Fatalf("expected suggestion to be populated")
	}
}

type blockingSolver struct{}

func (blockingSolver) MinCoins(ctx context.Context, _ int, _ []int) (coins.Result, error) {
	<-ctx.Done()
	return coins.Result{}, fmt.Errorf("%w: %w", coins.ErrSearchInterrupted, ctx.Err())
}

func TestChangeEndpointTimesOut(t *testing.T) {
	factory := func(coins.Algorithm) (coins.Solver, error) { return blockingSolver{}, nil }
	router, _ := setupTestRouter(t, WithSolverFactory(factory), WithSolveTimeout(10*time.Millisecond))

	rec := doJSON(t, router, http.MethodPost, "/api/change", map[string]any{"amount": 10})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestChangeEndpointRejectsOversizedTable(t *testing.T) {
	router, _ := setupTestRouter(t, WithMaxAmount(2*coins.MaxTableAmount))

	rec := doJSON(t, router, http.MethodPost, "/api/change", map[string]any{
		"amount":    coins.MaxTableAmount + 1,
		"algorithm": "dp",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestChangeEndpointLogsSolverRun(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router, _ := setupTestRouter(t, WithHandlerLogger(zap.New(core)))

	rec := doJSON(t, router, http.MethodPost, "/api/change", map[string]any{"amount": 42})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	entries := logs.FilterMessage("solver finished").All()
	if len(entries) != 1 {
		t.Fatalf("expected one solver log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["algorithm"]; got != string(coins.BranchAndBound) {
		t.Fatalf("unexpected algorithm field: %v", got)
	}
}

func TestCorsPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/change", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected Access-Control-Allow-Origin header to be set")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "test-request-id" {
		t.Fatalf("expected X-Request-ID header to be echoed, got %s", got)
	}
}
