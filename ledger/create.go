package ledger

import (
	"context"
	"time"

	"gorm.io/gorm"

	swaperrors "github.com/fusionswap/htlc-node/errors"
	"github.com/fusionswap/htlc-node/htlc"
	"github.com/fusionswap/htlc-node/metrics"
	"github.com/fusionswap/htlc-node/store"
)

// CreateParams are the caller-supplied swap parameters. Every field is
// immutable once the record exists.
type CreateParams struct {
	Receiver           string `json:"receiver"`
	Asset              string `json:"asset"`
	Amount             uint64 `json:"amount"`
	HashCommitment     string `json:"hash_commitment"`
	Deadline           int64  `json:"deadline"` // unix seconds
	PeerOrderReference string `json:"peer_order_reference,omitempty"`
}

// CreateSwap locks funds and creates a new active swap in one indivisible
// operation. The caller is the sender; an empty asset means the native unit.
// The fund lock is the last step inside the transaction, so any rejection
// leaves the caller's balance untouched.
func (e *Engine) CreateSwap(ctx context.Context, caller string, p CreateParams) (string, error) {
	if p.Asset == "" {
		p.Asset = e.cfg.NativeAssetID
	}
	return e.createSwap(ctx, caller, p, true, "native")
}

// createSwap is the shared creation path for the native entry point and the
// asset receipt adapter. lockFunds controls whether the engine debits the
// sender itself; the receipt path arrives with funds already moved.
func (e *Engine) createSwap(ctx context.Context, sender string, p CreateParams, lockFunds bool, path string) (string, error) {
	if sender == "" || p.Receiver == "" {
		return "", swaperrors.New(swaperrors.CodeInvalidParams, "sender and receiver are required")
	}
	if p.Amount == 0 {
		return "", swaperrors.New(swaperrors.CodeInvalidAmount, "amount must be positive")
	}

	commitment, ok := htlc.NormalizeCommitment(p.HashCommitment)
	if !ok {
		return "", swaperrors.New(swaperrors.CodeInvalidParams, "hash commitment must be 64 hex characters")
	}

	now := e.clock.Now()
	deadline := time.Unix(p.Deadline, 0)
	if !htlc.ValidDeadline(now, deadline, e.deadlineMargin()) {
		return "", swaperrors.Newf(swaperrors.CodeInvalidParams,
			"deadline must be at least %s past ledger time", e.deadlineMargin())
	}

	var swapID string
	err := e.database.Client().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := e.checkAssetSupported(tx, p.Asset); err != nil {
			return err
		}
		if err := e.checkCommitmentFree(tx, commitment); err != nil {
			return err
		}

		nonce, err := nextNonce(tx)
		if err != nil {
			return swaperrors.Database(err, "failed to allocate swap nonce")
		}
		swapID = htlc.DeriveSwapID(sender, p.Receiver, commitment, nonce)

		rec := store.SwapRecord{
			SwapID:             swapID,
			Sender:             sender,
			Receiver:           p.Receiver,
			Asset:              p.Asset,
			Amount:             p.Amount,
			HashCommitment:     commitment,
			Deadline:           p.Deadline,
			PeerOrderReference: p.PeerOrderReference,
			State:              store.SwapStateActive,
			PayoutStatus:       store.PayoutStatusNone,
			LedgerCreatedAt:    now.Unix(),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return swaperrors.Database(err, "failed to store swap record")
		}
		if err := tx.Create(&store.ActiveCommitment{
			HashCommitment: commitment,
			SwapID:         swapID,
		}).Error; err != nil {
			return swaperrors.Database(err, "failed to index commitment")
		}

		if err := appendEvent(tx, EventTypeCreated, swapID, CreatedEvent{
			SwapID:             swapID,
			Sender:             sender,
			Receiver:           p.Receiver,
			Asset:              p.Asset,
			Amount:             p.Amount,
			HashCommitment:     commitment,
			Deadline:           p.Deadline,
			PeerOrderReference: p.PeerOrderReference,
		}); err != nil {
			return swaperrors.Database(err, "failed to record creation event")
		}

		if lockFunds {
			// Last step: if the debit fails, everything above rolls back and
			// the caller has lost nothing.
			if err := e.bank.Transfer(ctx, p.Asset, sender, e.cfg.ModuleAccount, p.Amount); err != nil {
				return swaperrors.New(swaperrors.CodeInvalidAmount, "failed to lock funds").
					WithCause(err)
			}
		}
		return nil
	})
	if err != nil {
		metrics.Rejections.WithLabelValues("create", string(swaperrors.CodeOf(err))).Inc()
		return "", err
	}

	metrics.SwapsCreated.WithLabelValues(path).Inc()
	e.logEvent(EventTypeCreated, swapID, CreatedEvent{
		SwapID:             swapID,
		Sender:             sender,
		Receiver:           p.Receiver,
		Asset:              p.Asset,
		Amount:             p.Amount,
		HashCommitment:     commitment,
		Deadline:           p.Deadline,
		PeerOrderReference: p.PeerOrderReference,
	})
	return swapID, nil
}

// checkAssetSupported enforces the allowlist. The native unit is always
// supported; everything else must have been added by the owner.
func (e *Engine) checkAssetSupported(tx *gorm.DB, asset string) error {
	if asset == e.cfg.NativeAssetID {
		return nil
	}
	var count int64
	if err := tx.Model(&store.SupportedAsset{}).
		Where("asset_id = ?", asset).Count(&count).Error; err != nil {
		return swaperrors.Database(err, "failed to query asset allowlist")
	}
	if count == 0 {
		return swaperrors.Newf(swaperrors.CodeUnsupportedAsset, "asset %q is not supported", asset)
	}
	return nil
}

// checkCommitmentFree enforces commitment uniqueness. The active-only check
// is backed by the side index; strict mode additionally rejects commitments
// seen on terminal records, closing the replay vector across sequential
// swap attempts.
func (e *Engine) checkCommitmentFree(tx *gorm.DB, commitment string) error {
	var count int64
	if err := tx.Model(&store.ActiveCommitment{}).
		Where("hash_commitment = ?", commitment).Count(&count).Error; err != nil {
		return swaperrors.Database(err, "failed to query commitment index")
	}
	if count > 0 {
		return swaperrors.New(swaperrors.CodeDuplicateCommitment,
			"hash commitment already bound to an active swap")
	}

	if !e.cfg.AllowCommitmentReuse {
		if err := tx.Model(&store.SwapRecord{}).
			Where("hash_commitment = ?", commitment).Count(&count).Error; err != nil {
			return swaperrors.Database(err, "failed to query commitment history")
		}
		if count > 0 {
			return swaperrors.New(swaperrors.CodeDuplicateCommitment,
				"hash commitment was already used by a previous swap")
		}
	}
	return nil
}
