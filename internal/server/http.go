package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/Setheum-sub001/internal/ledger"
	"github.com/Setheum-Labs/Setheum-sub001/internal/observability"
)

// InventoryQuerier answers the inventory queries. The implementation routes
// each call through the engine's serialized command loop, so readers never
// race a state transition.
type InventoryQuerier interface {
	ReserveInAuction(ctx context.Context, currency ledger.CurrencyID) (int64, error)
	TargetInAuction(ctx context.Context) (int64, error)
	StandardInAuction(ctx context.Context) (int64, error)
	SurplusInAuction(ctx context.Context) (int64, error)
}

// HTTPServer is the operational surface: probes, metrics, and the inventory
// query endpoints.
type HTTPServer struct {
	server *http.Server
	log    zerolog.Logger
}

func NewHTTPServer(addr string, health *observability.HealthChecker, queries InventoryQuerier, log zerolog.Logger) *HTTPServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", health.LivenessHandler)
	mux.HandleFunc("/readyz", health.ReadinessHandler)
	mux.Handle("/metrics", promhttp.Handler())

	h := &inventoryHandler{queries: queries, log: log}
	mux.HandleFunc("/v1/inventory", h.totals)
	mux.HandleFunc("/v1/inventory/reserve", h.reserve)

	return &HTTPServer{
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Serve blocks until Shutdown.
func (s *HTTPServer) Serve() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type inventoryHandler struct {
	queries InventoryQuerier
	log     zerolog.Logger
}

// totals returns the three scalar aggregates plus every reserve asset.
func (h *inventoryHandler) totals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target, err := h.queries.TargetInAuction(ctx)
	if err != nil {
		h.fail(w, err)
		return
	}
	standard, err := h.queries.StandardInAuction(ctx)
	if err != nil {
		h.fail(w, err)
		return
	}
	surplus, err := h.queries.SurplusInAuction(ctx)
	if err != nil {
		h.fail(w, err)
		return
	}

	reserves := make(map[string]int64)
	for _, currency := range ledger.ReserveCurrencies() {
		amount, err := h.queries.ReserveInAuction(ctx, currency)
		if err != nil {
			h.fail(w, err)
			return
		}
		symbol, _ := ledger.GetCurrencySymbol(currency)
		reserves[symbol] = amount
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reserve_in_auction":  reserves,
		"target_in_auction":   target,
		"standard_in_auction": standard,
		"surplus_in_auction":  surplus,
	})
}

// reserve returns one asset's locked collateral: /v1/inventory/reserve?currency=DOT
func (h *inventoryHandler) reserve(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("currency")
	currency, ok := ledger.GetCurrencyID(symbol)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("unknown currency %q", symbol),
		})
		return
	}

	amount, err := h.queries.ReserveInAuction(r.Context(), currency)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"currency":           symbol,
		"reserve_in_auction": amount,
	})
}

func (h *inventoryHandler) fail(w http.ResponseWriter, err error) {
	h.log.Error().Err(err).Msg("inventory query failed")
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "query unavailable"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
