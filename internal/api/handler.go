package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/coin-change/internal/coins"
	"github.com/eugenenazirov/coin-change/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	defaultMaxAmount    = 100_000
	defaultSolveTimeout = 5 * time.Second
)

// SolverFactory builds the solver registered under an algorithm name.
type SolverFactory func(alg coins.Algorithm) (coins.Solver, error)

// Handler wires solver and storage dependencies into HTTP handlers.
type Handler struct {
	storage   storage.Storage
	newSolver SolverFactory
	logger    *zap.Logger

	defaultAlgorithm coins.Algorithm
	maxAmount        int
	solveTimeout     time.Duration

	clock func() time.Time

	mu                     sync.RWMutex
	denominationsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithSolverFactory overrides how solvers are constructed.
func WithSolverFactory(factory SolverFactory) HandlerOption {
	return func(h *Handler) {
		h.newSolver = factory
	}
}

// WithDefaultAlgorithm selects the algorithm used when a request names none.
func WithDefaultAlgorithm(alg coins.Algorithm) HandlerOption {
	return func(h *Handler) {
		h.defaultAlgorithm = alg
	}
}

// WithMaxAmount caps the amount a single request may ask for.
func WithMaxAmount(limit int) HandlerOption {
	return func(h *Handler) {
		if limit > 0 {
			h.maxAmount = limit
		}
	}
}

// WithSolveTimeout bounds how long a single search may run.
func WithSolveTimeout(timeout time.Duration) HandlerOption {
	return func(h *Handler) {
		if timeout > 0 {
			h.solveTimeout = timeout
		}
	}
}

// WithHandlerLogger attaches a logger for solver diagnostics.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage: store,
		newSolver: func(alg coins.Algorithm) (coins.Solver, error) {
			return coins.NewSolver(alg)
		},
		logger:           zap.NewNop(),
		defaultAlgorithm: coins.BranchAndBound,
		maxAmount:        defaultMaxAmount,
		solveTimeout:     defaultSolveTimeout,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.denominationsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetDenominations(w http.ResponseWriter, _ *http.Request) {
	values, err := h.storage.GetDenominations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := denominationsResponse{
		Denominations: values,
		UpdatedAt:     h.currentDenominationsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutDenominations(w http.ResponseWriter, r *http.Request) {
	var req denominationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Denominations) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid denominations", "denominations must contain at least one value")
		return
	}

	if err := h.storage.SetDenominations(req.Denominations); err != nil {
		if errors.Is(err, storage.ErrInvalidDenominations) {
			writeError(w, http.StatusBadRequest, "Invalid denominations", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markDenominationsUpdated()

	values, err := h.storage.GetDenominations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := denominationsResponse{
		Denominations: values,
		UpdatedAt:     h.currentDenominationsUpdatedAt(),
		Message:       "Denominations updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAlgorithms(w http.ResponseWriter, _ *http.Request) {
	resp := algorithmsResponse{
		Algorithms: coins.Algorithms(),
		Default:    h.defaultAlgorithm,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleChange(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "amount is required")
		return
	}
	amount := *req.Amount
	if amount < 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "amount must be a non-negative integer")
		return
	}
	if amount > h.maxAmount {
		writeError(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("amount must not exceed %d", h.maxAmount))
		return
	}

	alg := h.defaultAlgorithm
	if req.Algorithm != "" {
		parsed, err := coins.ParseAlgorithm(req.Algorithm)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid algorithm", err.Error())
			return
		}
		alg = parsed
	}

	solver, err := h.newSolver(alg)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid algorithm", err.Error())
		return
	}

	denominations, err := h.storage.GetDenominations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.solveTimeout)
	defer cancel()

	start := time.Now()
	result, solveErr := solver.MinCoins(ctx, amount, denominations)
	elapsed := time.Since(start)

	h.logger.Debug("solver finished",
		zap.String("algorithm", string(alg)),
		zap.Int("amount", amount),
		zap.Ints("denominations", denominations),
		zap.Int("total_coins", result.TotalCoins),
		zap.Int("frontier_peak", result.FrontierPeak),
		zap.Duration("duration", elapsed),
		zap.String("request_id", requestIDFromContext(r.Context())),
		zap.Error(solveErr),
	)

	if solveErr != nil {
		switch {
		case errors.Is(solveErr, coins.ErrInvalidAmount), errors.Is(solveErr, coins.ErrAmountTooLarge):
			writeError(w, http.StatusBadRequest, "Invalid request", solveErr.Error())
		case errors.Is(solveErr, coins.ErrMissingUnitCoin):
			writeError(w, http.StatusBadRequest, "Invalid denominations", solveErr.Error(),
				fmt.Sprintf("Add the unit coin 1 or choose the %s algorithm", coins.DynamicProgramming))
		case errors.Is(solveErr, coins.ErrNoSolution):
			suggestion := fmt.Sprintf("Consider adding a denomination that divides %d or adjust the amount", amount)
			writeError(w, http.StatusUnprocessableEntity, "Cannot pay exactly", solveErr.Error(), suggestion)
		case errors.Is(solveErr, coins.ErrSearchInterrupted):
			writeError(w, http.StatusServiceUnavailable, "Search interrupted", solveErr.Error(),
				"Retry with a smaller amount or a different algorithm")
		case errors.Is(solveErr, coins.ErrInvalidDenominations):
			writeError(w, http.StatusInternalServerError, "Internal error", solveErr.Error())
		default:
			writeInternalError(w, solveErr)
		}
		return
	}

	values := make([]int, 0, len(result.Coins))
	for value := range result.Coins {
		values = append(values, value)
	}
	sort.Ints(values)

	breakdown := make(map[string]int, len(values))
	for _, value := range values {
		breakdown[strconv.Itoa(value)] = result.Coins[value]
	}

	resp := changeResponse{
		Amount:            amount,
		Algorithm:         alg,
		Coins:             breakdown,
		TotalCoins:        result.TotalCoins,
		TotalAmount:       result.TotalAmount,
		FrontierPeak:      result.FrontierPeak,
		Optimal:           result.Optimal,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) currentDenominationsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.denominationsUpdatedAt
}

func (h *Handler) markDenominationsUpdated() {
	h.mu.Lock()
	h.denominationsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type denominationsRequest struct {
	Denominations []int `json:"denominations"`
}

type changeRequest struct {
	Amount    *int   `json:"amount"`
	Algorithm string `json:"algorithm,omitempty"`
}

type changeResponse struct {
	Amount            int             `json:"amount"`
	Algorithm         coins.Algorithm `json:"algorithm"`
	Coins             map[string]int  `json:"coins"`
	TotalCoins        int             `json:"totalCoins"`
	TotalAmount       int             `json:"totalAmount"`
	FrontierPeak      int             `json:"frontierPeak"`
	Optimal           bool            `json:"optimal"`
	CalculationTimeMs int64           `json:"calculationTimeMs"`
}

type denominationsResponse struct {
	Denominations []int     `json:"denominations"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Message       string    `json:"message,omitempty"`
}

type algorithmsResponse struct {
	Algorithms []coins.Algorithm `json:"algorithms"`
	Default    coins.Algorithm   `json:"default"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
