// Package ledger implements the destination-chain half of the cross-chain
// atomic swap: the HTLC state machine, the fungible-asset receipt adapter,
// the owner-gated admin surface, and the asynchronous payout worker.
//
// Every operation executes as a single serialized database transaction. A
// failure anywhere rolls back all of its effects, including the fund lock,
// so a record never exists without locked value and value is never locked
// without a record.
package ledger

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/fusionswap/htlc-node/bank"
	"github.com/fusionswap/htlc-node/cache"
	"github.com/fusionswap/htlc-node/config"
	"github.com/fusionswap/htlc-node/db"
	"github.com/fusionswap/htlc-node/store"
)

// Clock supplies ledger time. Deadlines are evaluated against this, never
// against wall-clock time directly, so tests and embedders can pin it.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// swapNonceCounter names the monotonic counter used for swap id derivation.
const swapNonceCounter = "swap_nonce"

// Engine is the HTLC state machine bound to its record store and asset
// ledger.
type Engine struct {
	database *db.DB
	bank     bank.Ledger
	clock    Clock
	cache    *cache.Cache
	cfg      config.Config
	log      zerolog.Logger
}

// NewEngine wires the state machine. It primes the admin-config cache from
// the store so read paths are hot immediately.
func NewEngine(database *db.DB, assetLedger bank.Ledger, clock Clock, cfg config.Config, log zerolog.Logger) (*Engine, error) {
	e := &Engine{
		database: database,
		bank:     assetLedger,
		clock:    clock,
		cache:    cache.New(log),
		cfg:      cfg,
		log:      log.With().Str("component", "ledger").Logger(),
	}
	if err := e.refreshCache(); err != nil {
		return nil, errors.Wrap(err, "failed to prime admin config cache")
	}
	return e, nil
}

// Owner returns the admin owner account.
func (e *Engine) Owner() string {
	return e.cfg.OwnerAccount
}

// Cache exposes the admin-config snapshot for read surfaces.
func (e *Engine) Cache() *cache.Cache {
	return e.cache
}

// deadlineMargin is the minimum distance between ledger time and an
// acceptable new deadline.
func (e *Engine) deadlineMargin() time.Duration {
	return time.Duration(e.cfg.MinDeadlineMarginSeconds) * time.Second
}

// nextNonce increments and returns the swap id nonce inside tx.
func nextNonce(tx *gorm.DB) (uint64, error) {
	var counter store.LedgerCounter
	err := tx.Where(store.LedgerCounter{Name: swapNonceCounter}).
		FirstOrCreate(&counter).Error
	if err != nil {
		return 0, err
	}
	counter.Value++
	if err := tx.Save(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// loadSwap fetches a record by swap id inside tx.
func loadSwap(tx *gorm.DB, swapID string) (*store.SwapRecord, error) {
	var rec store.SwapRecord
	err := tx.Where("swap_id = ?", swapID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
