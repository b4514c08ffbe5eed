package ledger

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/fusionswap/htlc-node/store"
)

// Event types consumed by the external orchestrator. The withdrawn event
// carries the plaintext secret: that is the cross-chain atomicity signal the
// peer chain's coordinator waits for.
const (
	EventTypeCreated   = "htlc_created"
	EventTypeWithdrawn = "htlc_withdrawn"
	EventTypeRefunded  = "htlc_refunded"
)

// CreatedEvent is emitted once when a swap record is created.
type CreatedEvent struct {
	SwapID             string `json:"swap_id"`
	Sender             string `json:"sender"`
	Receiver           string `json:"receiver"`
	Asset              string `json:"asset"`
	Amount             uint64 `json:"amount"`
	HashCommitment     string `json:"hash_commitment"`
	Deadline           int64  `json:"deadline"`
	PeerOrderReference string `json:"peer_order_reference,omitempty"`
}

// WithdrawnEvent is emitted exactly once, exactly when the withdraw
// transition commits.
type WithdrawnEvent struct {
	SwapID   string `json:"swap_id"`
	Receiver string `json:"receiver"`
	Secret   string `json:"secret"`
	Amount   uint64 `json:"amount"`
}

// RefundedEvent is emitted once when a swap is refunded.
type RefundedEvent struct {
	SwapID string `json:"swap_id"`
	Sender string `json:"sender"`
	Amount uint64 `json:"amount"`
}

// appendEvent writes the event row inside the transition's transaction.
// Emission is therefore exactly-once-at-commit: the event exists if and only
// if the transition committed.
func appendEvent(tx *gorm.DB, eventType, swapID string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&store.SwapEvent{
		Type:   eventType,
		SwapID: swapID,
		Data:   data,
	}).Error
}

// logEvent mirrors a committed event onto the log stream for off-process
// consumers tailing the daemon.
func (e *Engine) logEvent(eventType, swapID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		e.log.Error().Err(err).Str("event", eventType).Msg("failed to encode event")
		return
	}
	e.log.Info().
		Str("event", eventType).
		Str("swap_id", swapID).
		RawJSON("data", data).
		Msg("EVENT_JSON")
}
