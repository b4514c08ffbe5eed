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

// Refund reclaims an active swap after its deadline. Only the sender may
// refund, and only at or after the deadline. On success the swap becomes
// terminal and the payout back to the sender is queued.
func (e *Engine) Refund(ctx context.Context, caller, swapID string) error {
	var event RefundedEvent
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
		if caller != rec.Sender {
			return swaperrors.New(swaperrors.CodeUnauthorized,
				"only the sender can refund").WithSwap(swapID)
		}
		if !htlc.Expired(e.clock.Now(), time.Unix(rec.Deadline, 0)) {
			return swaperrors.New(swaperrors.CodeNotYetExpired,
				"deadline has not been reached").WithSwap(swapID)
		}

		rec.State = store.SwapStateRefunded
		rec.PayoutStatus = store.PayoutStatusPending
		if err := tx.Save(rec).Error; err != nil {
			return swaperrors.Database(err, "failed to update swap record")
		}
		// Hard delete, same reason as withdraw: the unique index must free up.
		if err := tx.Unscoped().Where("swap_id = ?", swapID).
			Delete(&store.ActiveCommitment{}).Error; err != nil {
			return swaperrors.Database(err, "failed to release commitment index")
		}
		if err := tx.Create(&store.PayoutJob{
			SwapID:    swapID,
			Recipient: rec.Sender,
			Asset:     rec.Asset,
			Amount:    rec.Amount,
			Status:    store.PayoutStatusPending,
		}).Error; err != nil {
			return swaperrors.Database(err, "failed to queue payout")
		}

		event = RefundedEvent{
			SwapID: swapID,
			Sender: rec.Sender,
			Amount: rec.Amount,
		}
		return appendEvent(tx, EventTypeRefunded, swapID, event)
	})
	if err != nil {
		metrics.Rejections.WithLabelValues("refund", string(swaperrors.CodeOf(err))).Inc()
		return err
	}

	metrics.SwapsRefunded.Inc()
	e.logEvent(EventTypeRefunded, swapID, event)
	return nil
}
