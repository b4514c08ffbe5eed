package ledger

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	swaperrors "github.com/fusionswap/htlc-node/errors"
	"github.com/fusionswap/htlc-node/metrics"
	"github.com/fusionswap/htlc-node/store"
)

// PayoutWorker drives the second phase of settlement: it scans for payout
// jobs committed by withdraw/refund transitions and dispatches the actual
// asset transfers. A failed dispatch marks the job and the record failed for
// manual follow-up; it never reverts the state transition.
type PayoutWorker struct {
	engine   *Engine
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewPayoutWorker creates a worker scanning at the configured interval.
func NewPayoutWorker(engine *Engine) *PayoutWorker {
	return &PayoutWorker{
		engine:   engine,
		interval: time.Duration(engine.cfg.PayoutIntervalSeconds) * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the background scan loop.
func (w *PayoutWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.engine.log.Info().Dur("interval", w.interval).Msg("payout worker started")
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			case <-ticker.C:
				if _, err := w.engine.DispatchPendingPayouts(ctx); err != nil {
					w.engine.log.Error().Err(err).Msg("payout scan failed")
				}
			}
		}
	}()
}

// Stop shuts the worker down and waits for the loop to exit.
func (w *PayoutWorker) Stop() {
	close(w.stopCh)
	w.wg.Wait()
}

// DispatchPendingPayouts runs one scan over pending payout jobs and returns
// how many were dispatched (confirmed or failed). Exported so tests and the
// worker share one code path.
func (e *Engine) DispatchPendingPayouts(ctx context.Context) (int, error) {
	var jobs []store.PayoutJob
	err := e.database.Client().WithContext(ctx).
		Where("status = ?", store.PayoutStatusPending).
		Order("id asc").
		Find(&jobs).Error
	if err != nil {
		return 0, swaperrors.Database(err, "failed to list pending payouts")
	}

	dispatched := 0
	for _, job := range jobs {
		if err := e.dispatchPayout(ctx, job); err != nil {
			return dispatched, err
		}
		dispatched++
	}
	return dispatched, nil
}

// dispatchPayout attempts one settlement transfer and records the outcome.
// The transfer happens outside any store transaction (it is an external
// call); only the bookkeeping that follows is transactional.
func (e *Engine) dispatchPayout(ctx context.Context, job store.PayoutJob) error {
	transferErr := e.bank.Transfer(ctx, job.Asset, e.cfg.ModuleAccount, job.Recipient, job.Amount)

	status := store.PayoutStatusConfirmed
	errMsg := ""
	if transferErr != nil {
		status = store.PayoutStatusFailed
		errMsg = transferErr.Error()
	}

	err := e.database.Client().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":    status,
			"attempts":  gorm.Expr("attempts + 1"),
			"error_msg": errMsg,
		}
		if err := tx.Model(&store.PayoutJob{}).
			Where("id = ?", job.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&store.SwapRecord{}).
			Where("swap_id = ?", job.SwapID).
			Update("payout_status", status).Error
	})
	if err != nil {
		return swaperrors.Database(err, "failed to record payout outcome")
	}

	metrics.PayoutsDispatched.WithLabelValues(status).Inc()
	if transferErr != nil {
		e.log.Error().Err(transferErr).
			Str("swap_id", job.SwapID).
			Str("recipient", job.Recipient).
			Uint64("amount", job.Amount).
			Msg("payout failed, flagged for manual follow-up")
	} else {
		e.log.Info().
			Str("swap_id", job.SwapID).
			Str("recipient", job.Recipient).
			Uint64("amount", job.Amount).
			Msg("payout confirmed")
	}
	return nil
}
