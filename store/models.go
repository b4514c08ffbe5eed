// Package store contains the GORM-backed SQLite models used by the HTLC
// ledger.
//
// Database structure (database file: htlc_ledger.db):
//
//	htlc_ledger.db
//	├── swap_records        — primary swap-id → record mapping
//	├── active_commitments  — side index: commitment → active swap id
//	├── payout_jobs         — two-phase payout bookkeeping
//	├── swap_events         — Created/Withdrawn/Refunded event log
//	├── supported_assets    — admin allowlist
//	├── config_entries      — admin key/value (peer coordinator reference)
//	└── ledger_counters     — monotonic counters (swap id nonce)
package store

import (
	"gorm.io/gorm"
)

// Swap states. Transitions are strictly one-directional:
// active → withdrawn, or active → refunded. Both targets are terminal.
const (
	SwapStateActive    = "active"
	SwapStateWithdrawn = "withdrawn"
	SwapStateRefunded  = "refunded"
)

// Payout statuses for the asynchronous settlement leg. The swap state
// transition commits before the payout is dispatched; these only track the
// fund movement that follows.
const (
	PayoutStatusNone      = "none"
	PayoutStatusPending   = "pending"
	PayoutStatusConfirmed = "confirmed"
	PayoutStatusFailed    = "failed"
)

// SwapRecord is the durable HTLC record. Every field except State,
// RevealedSecret and PayoutStatus is immutable after creation.
type SwapRecord struct {
	gorm.Model
	SwapID             string `gorm:"uniqueIndex;not null"` // Opaque id allocated at creation
	Sender             string `gorm:"index;not null"`       // Account that locked the funds (maker)
	Receiver           string `gorm:"index;not null"`       // Account that may claim with the secret (taker)
	Asset              string `gorm:"not null"`             // Asset identifier ("native" or a fungible-asset ledger id)
	Amount             uint64 `gorm:"not null"`             // Locked quantity, > 0
	HashCommitment     string `gorm:"index;not null"`       // Canonical hex keccak256 commitment
	Deadline           int64  `gorm:"not null"`             // Unix seconds; refund legal at or after
	RevealedSecret     string // Plaintext secret, set exactly once on withdrawal
	PeerOrderReference string // Correlates with the counterpart record on the other chain
	State              string `gorm:"index;not null"`    // "active", "withdrawn", "refunded"
	PayoutStatus       string `gorm:"default:'none'"`    // "none", "pending", "confirmed", "failed"
	LedgerCreatedAt    int64  `gorm:"not null"`          // Ledger time at creation, unix seconds
}

// ActiveCommitment is the side index enforcing commitment uniqueness among
// active swaps. Rows are inserted and removed in the same transaction as the
// primary record so the two can never diverge.
type ActiveCommitment struct {
	gorm.Model
	HashCommitment string `gorm:"uniqueIndex;not null"`
	SwapID         string `gorm:"uniqueIndex;not null"`
}

// PayoutJob tracks one settlement transfer owed to a party after a terminal
// transition. Jobs are created in the transition's transaction and picked up
// by the payout worker afterwards.
type PayoutJob struct {
	gorm.Model
	SwapID    string `gorm:"uniqueIndex;not null"` // One payout per swap, by conservation
	Recipient string `gorm:"not null"`
	Asset     string `gorm:"not null"`
	Amount    uint64 `gorm:"not null"`
	Status    string `gorm:"index;not null"` // "pending", "confirmed", "failed"
	Attempts  uint   // Dispatch attempts so far
	ErrorMsg  string `gorm:"type:text"` // Last dispatch error, if any
}

// SwapEvent is the durable event log consumed by the external orchestrator.
// The row is written inside the transition's transaction, so an event exists
// exactly when (and only when) its transition committed.
type SwapEvent struct {
	gorm.Model
	Type   string `gorm:"index;not null"` // "htlc_created", "htlc_withdrawn", "htlc_refunded"
	SwapID string `gorm:"index;not null"`
	Data   []byte // JSON-encoded event payload
}

// TableName keeps the event table name short.
func (SwapEvent) TableName() string {
	return "swap_events"
}

// SupportedAsset is one allowlisted fungible-asset identifier.
type SupportedAsset struct {
	gorm.Model
	AssetID string `gorm:"uniqueIndex;not null"`
}

// ConfigEntry is owner-managed mutable configuration, keyed by name.
type ConfigEntry struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// LedgerCounter is a named monotonic counter.
type LedgerCounter struct {
	gorm.Model
	Name  string `gorm:"uniqueIndex;not null"`
	Value uint64 `gorm:"not null"`
}
