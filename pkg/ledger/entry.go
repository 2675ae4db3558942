package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType identifies the kind of submitted action an entry records
type EntryType string

const (
	TypeShipCreation  EntryType = "ship_creation"
	TypeShipBoarding  EntryType = "ship_boarding"
	TypeShipLaunch    EntryType = "ship_launch"
	TypeTokenApproval EntryType = "token_approval"
)

// Valid reports whether the entry type is one of the known kinds
func (t EntryType) Valid() bool {
	switch t {
	case TypeShipCreation, TypeShipBoarding, TypeShipLaunch, TypeTokenApproval:
		return true
	}
	return false
}

// Status is the lifecycle state of an entry. It starts pending and
// transitions exactly once to a terminal state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is an end state
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// Detail is the type-specific metadata of an entry. Each entry type declares
// its own variant so creation and approval payloads cannot be confused.
type Detail interface {
	EntryType() EntryType
}

// CreationDetail describes a ship_creation entry
type CreationDetail struct {
	DestinationChain string   `json:"destination_chain"`
	Capacity         uint8    `json:"capacity"`
	Tokens           []string `json:"tokens"`
	Amounts          []string `json:"amounts"`
}

func (CreationDetail) EntryType() EntryType { return TypeShipCreation }

// BoardingDetail describes a ship_boarding entry
type BoardingDetail struct {
	Ship    string   `json:"ship"`
	Tokens  []string `json:"tokens"`
	Amounts []string `json:"amounts"`
}

func (BoardingDetail) EntryType() EntryType { return TypeShipBoarding }

// LaunchDetail describes a ship_launch entry
type LaunchDetail struct {
	Ship string `json:"ship"`
}

func (LaunchDetail) EntryType() EntryType { return TypeShipLaunch }

// ApprovalDetail describes a token_approval entry
type ApprovalDetail struct {
	Token   string `json:"token"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

func (ApprovalDetail) EntryType() EntryType { return TypeTokenApproval }

// Outcome carries the metadata merged in when the monitor resolves an entry
type Outcome struct {
	BlockNumber uint64 `json:"block_number,omitempty"`
	GasUsed     uint64 `json:"gas_used,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Entry is one client-local record of a submitted transaction, reconciled
// against on-chain truth by hash. Fields other than Status and Outcome are
// immutable after creation.
type Entry struct {
	ID        string
	Type      EntryType
	Hash      string
	Status    Status
	Amount    decimal.Decimal
	Token     string
	Ship      string
	Timestamp time.Time
	Detail    Detail
	Outcome   *Outcome
}

type entryJSON struct {
	ID        string          `json:"id"`
	Type      EntryType       `json:"type"`
	Hash      string          `json:"hash"`
	Status    Status          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Token     string          `json:"token,omitempty"`
	Ship      string          `json:"ship_address,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Detail    json.RawMessage `json:"metadata,omitempty"`
	Outcome   *Outcome        `json:"outcome,omitempty"`
}

// MarshalJSON encodes the entry with its detail variant tagged by Type
func (e *Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		ID:        e.ID,
		Type:      e.Type,
		Hash:      e.Hash,
		Status:    e.Status,
		Amount:    e.Amount,
		Token:     e.Token,
		Ship:      e.Ship,
		Timestamp: e.Timestamp,
		Outcome:   e.Outcome,
	}
	if e.Detail != nil {
		raw, err := json.Marshal(e.Detail)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s detail: %w", e.Type, err)
		}
		out.Detail = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the entry, selecting the detail variant from Type
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.ID = raw.ID
	e.Type = raw.Type
	e.Hash = raw.Hash
	e.Status = raw.Status
	e.Amount = raw.Amount
	e.Token = raw.Token
	e.Ship = raw.Ship
	e.Timestamp = raw.Timestamp
	e.Outcome = raw.Outcome
	e.Detail = nil

	if len(raw.Detail) == 0 {
		return nil
	}

	switch raw.Type {
	case TypeShipCreation:
		var d CreationDetail
		if err := json.Unmarshal(raw.Detail, &d); err != nil {
			return err
		}
		e.Detail = d
	case TypeShipBoarding:
		var d BoardingDetail
		if err := json.Unmarshal(raw.Detail, &d); err != nil {
			return err
		}
		e.Detail = d
	case TypeShipLaunch:
		var d LaunchDetail
		if err := json.Unmarshal(raw.Detail, &d); err != nil {
			return err
		}
		e.Detail = d
	case TypeTokenApproval:
		var d ApprovalDetail
		if err := json.Unmarshal(raw.Detail, &d); err != nil {
			return err
		}
		e.Detail = d
	default:
		return fmt.Errorf("unknown entry type %q", raw.Type)
	}
	return nil
}
