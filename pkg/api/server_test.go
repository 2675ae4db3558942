package api

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/app/errors"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ship"
)

// MockShipReader is a mock implementation of ShipReader
type MockShipReader struct {
	ShipStatusFunc func(ctx context.Context, shipAddress common.Address) (*ship.Ship, error)
}

func (m *MockShipReader) ShipStatus(ctx context.Context, shipAddress common.Address) (*ship.Ship, error) {
	if m.ShipStatusFunc != nil {
		return m.ShipStatusFunc(ctx, shipAddress)
	}
	return nil, nil
}

func newTestRouter(t *testing.T, ships ShipReader) (http.Handler, *ledger.Ledger) {
	t.Helper()
	led, err := ledger.Open(ledger.NewMemoryKV(), "test_tx", "0xowner", zap.NewNop())
	if err != nil {
		t.Fatalf("Open ledger failed: %v", err)
	}
	return NewRouter(ships, led, zap.NewNop(), false), led
}

func TestGetShip(t *testing.T) {
	shipAddr := common.HexToAddress("0x00000000000000000000000000000000000000c1")
	ships := &MockShipReader{
		ShipStatusFunc: func(ctx context.Context, address common.Address) (*ship.Ship, error) {
			if address != shipAddr {
				t.Errorf("Expected ship %s, got %s", shipAddr.Hex(), address.Hex())
			}
			return &ship.Ship{
				ID:                big.NewInt(3),
				Address:           address,
				Capacity:          2,
				CurrentPassengers: 2,
				CollectedFees:     big.NewInt(200),
				CCIPFee:           big.NewInt(100),
			}, nil
		},
	}
	router, _ := newTestRouter(t, ships)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ships/"+shipAddr.Hex(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var body struct {
		Capacity       uint8 `json:"capacity"`
		LaunchEligible bool  `json:"launch_eligible"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if body.Capacity != 2 || !body.LaunchEligible {
		t.Errorf("Unexpected body: %+v", body)
	}
}

func TestGetShip_InvalidAddress(t *testing.T) {
	router, _ := newTestRouter(t, &MockShipReader{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ships/not-an-address", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestGetShip_ReadFailureMapsCategory(t *testing.T) {
	ships := &MockShipReader{
		ShipStatusFunc: func(ctx context.Context, address common.Address) (*ship.Ship, error) {
			return nil, apperrors.NetworkError(nil)
		},
	}
	router, _ := newTestRouter(t, ships)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/ships/0x00000000000000000000000000000000000000c1", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("Expected 504 for network error, got %d", rec.Code)
	}
}

func TestTransactionLifecycleOverHTTP(t *testing.T) {
	router, led := newTestRouter(t, &MockShipReader{})

	// Record a submission.
	payload := `{"type":"ship_boarding","hash":"0xdead","amount":"0.001","ship_address":"0xc1"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(payload)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body)
	}

	// Resolve its outcome.
	update := `{"status":"confirmed","outcome":{"block_number":10,"gas_used":50000}}`
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/transactions/0xdead/status", strings.NewReader(update)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", rec.Code, rec.Body)
	}

	entries := led.Entries()
	if len(entries) != 1 || entries[0].Status != ledger.StatusConfirmed {
		t.Fatalf("Expected one confirmed entry, got %+v", entries)
	}
	if !entries[0].Amount.Equal(decimal.RequireFromString("0.001")) {
		t.Errorf("Expected amount 0.001, got %s", entries[0].Amount)
	}

	// List and clear.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "0xdead") {
		t.Errorf("Expected listed transaction, got %d: %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/transactions", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204 on clear, got %d", rec.Code)
	}
	if len(led.Entries()) != 0 {
		t.Errorf("Expected ledger cleared, got %d entries", len(led.Entries()))
	}
}

func TestAddTransaction_RejectsMissingHash(t *testing.T) {
	router, _ := newTestRouter(t, &MockShipReader{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/transactions",
		strings.NewReader(`{"type":"ship_creation","amount":"0"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for entry without hash, got %d", rec.Code)
	}
}

func TestGetStats(t *testing.T) {
	router, led := newTestRouter(t, &MockShipReader{})

	if _, err := led.Record(&ledger.Entry{
		Type:   ledger.TypeShipCreation,
		Hash:   "0x1",
		Amount: decimal.RequireFromString("0.01"),
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := led.Reconcile("0x1", ledger.StatusConfirmed, &ledger.Outcome{BlockNumber: 1}); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var stats ledger.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if stats.Total != 1 || stats.Confirmed != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if !stats.ConfirmedVolume.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("Expected volume 0.01, got %s", stats.ConfirmedVolume)
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, &MockShipReader{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}
