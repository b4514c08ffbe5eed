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

// Withdraw claims an active swap by revealing the secret. Only the receiver
// may withdraw, only before the deadline, and only with a secret that hashes
// to the recorded commitment. On success the revealed secret is persisted,
// the swap becomes terminal, and the payout to the receiver is queued.
func (e *Engine) Withdraw(ctx context.Context, caller, swapID, secret string) error {
	var event WithdrawnEvent
	err := e.database.Client().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := loadSwap(tx, swapID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return swaperrors.New(swaperrors.CodeNotFound, "swap not found").WithSwap(swapID)
			}
			return swaperrors.Database(err, "failed to load swap record")
		}

		if rec.State != store.SwapStateActive {
			return swaperrors.Newf(swaperrors.CodeInvalidState,
				"swap is %s, not active", rec.State).WithSwap(swapID)
		}
		if caller != rec.Receiver {
			return swaperrors.New(swaperrors.CodeUnauthorized,
				"only the receiver can withdraw").WithSwap(swapID)
		}
		if htlc.Expired(e.clock.Now(), time.Unix(rec.Deadline, 0)) {
			return swaperrors.New(swaperrors.CodeExpired,
				"withdrawal period has expired").WithSwap(swapID)
		}
		if !htlc.VerifySecret([]byte(secret), rec.HashCommitment) {
			return swaperrors.New(swaperrors.CodeInvalidSecret,
				"secret does not match hash commitment").WithSwap(swapID)
		}

		rec.State = store.SwapStateWithdrawn
		rec.RevealedSecret = secret
		rec.PayoutStatus = store.PayoutStatusPending
		if err := tx.Save(rec).Error; err != nil {
			return swaperrors.Database(err, "failed to update swap record")
		}
		// Hard delete: the unique index on the commitment must free up for
		// active-only uniqueness, and soft-deleted rows would still hold it.
		if err := tx.Unscoped().Where("swap_id = ?", swapID).
			Delete(&store.ActiveCommitment{}).Error; err != nil {
			return swaperrors.Database(err, "failed to release commitment index")
		}
		if err := tx.Create(&store.PayoutJob{
			SwapID:    swapID,
			Recipient: rec.Receiver,
			Asset:     rec.Asset,
			Amount:    rec.Amount,
			Status:    store.PayoutStatusPending,
		}).Error; err != nil {
			return swaperrors.Database(err, "failed to queue payout")
		}

		event = WithdrawnEvent{
			SwapID:   swapID,
			Receiver: rec.Receiver,
			Secret:   secret,
			Amount:   rec.Amount,
		}
		return appendEvent(tx, EventTypeWithdrawn, swapID, event)
	})
	if err != nil {
		metrics.Rejections.WithLabelValues("withdraw", string(swaperrors.CodeOf(err))).Inc()
		return err
	}

	metrics.SwapsWithdrawn.Inc()
	e.logEvent(EventTypeWithdrawn, swapID, event)
	return nil
}
