// Package api exposes the coordination core over HTTP: ship status, the
// transaction history, derived statistics, and the two entry points UI
// surfaces use to feed the ledger.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apperrors "github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/app/errors"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ship"
)

// ShipReader reads current ship state
type ShipReader interface {
	ShipStatus(ctx context.Context, shipAddress common.Address) (*ship.Ship, error)
}

// Ledger is the ledger surface the API serves and feeds
type Ledger interface {
	ledger.Registry
	Entries() []*ledger.Entry
	Stats() ledger.Stats
	Clear() error
}

// NewRouter builds the HTTP router for the coordination service
func NewRouter(ships ShipReader, led Ledger, logger *zap.Logger, metricsEnabled bool) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ships/{address}", handleGetShip(ships, logger))
		r.Get("/transactions", handleGetTransactions(led, logger))
		r.Post("/transactions", handleAddTransaction(led, logger))
		r.Post("/transactions/{hash}/status", handleUpdateStatus(led, logger))
		r.Delete("/transactions", handleClearTransactions(led, logger))
		r.Get("/stats", handleGetStats(led, logger))
	})

	return r
}

type shipResponse struct {
	*ship.Ship
	LaunchEligible bool `json:"launch_eligible"`
}

func handleGetShip(ships ShipReader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "address")
		if !common.IsHexAddress(raw) {
			writeError(w, logger, apperrors.BadRequestError(nil, "Invalid ship address."))
			return
		}

		status, err := ships.ShipStatus(r.Context(), common.HexToAddress(raw))
		if err != nil {
			writeError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, shipResponse{
			Ship:           status,
			LaunchEligible: status.LaunchEligible(),
		})
	}
}

func handleGetTransactions(led Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]interface{}{
			"transactions": led.Entries(),
		})
	}
}

func handleAddTransaction(led Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entry ledger.Entry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			writeError(w, logger, apperrors.BadRequestError(err, "Invalid transaction payload."))
			return
		}

		recorded, err := led.AddTransaction(&entry)
		if err != nil {
			writeError(w, logger, apperrors.BadRequestError(err, err.Error()))
			return
		}
		writeJSON(w, logger, http.StatusCreated, recorded)
	}
}

type statusUpdate struct {
	Status  ledger.Status   `json:"status"`
	Outcome *ledger.Outcome `json:"outcome,omitempty"`
}

func handleUpdateStatus(led Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hash := chi.URLParam(r, "hash")

		var update statusUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, logger, apperrors.BadRequestError(err, "Invalid status payload."))
			return
		}

		if err := led.UpdateTransactionStatus(hash, update.Status, update.Outcome); err != nil {
			writeError(w, logger, apperrors.BadRequestError(err, err.Error()))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleClearTransactions(led Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := led.Clear(); err != nil {
			writeError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleGetStats(led Ledger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, led.Stats())
	}
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		status = svcErr.StatusCode()
	}

	logger.Warn("Request failed", zap.Int("status", status), zap.Error(err))
	writeJSON(w, logger, status, map[string]string{
		"error": apperrors.UserMessage(err),
	})
}
