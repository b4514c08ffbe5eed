package ledger

import (
	"context"

	"gorm.io/gorm"

	"github.com/fusionswap/htlc-node/cache"
	swaperrors "github.com/fusionswap/htlc-node/errors"
	"github.com/fusionswap/htlc-node/store"
)

// peerCoordinatorKey names the config entry holding the peer-chain
// coordinator reference.
const peerCoordinatorKey = "peer_coordinator"

// assertOwner is the flat capability check guarding every admin operation.
func (e *Engine) assertOwner(caller string) error {
	if caller != e.cfg.OwnerAccount {
		return swaperrors.New(swaperrors.CodeUnauthorized, "caller is not the owner")
	}
	return nil
}

// SetPeerCoordinator records the reference to the counterpart chain's
// coordinator contract. Owner only. Does not touch swap state.
func (e *Engine) SetPeerCoordinator(ctx context.Context, caller, reference string) error {
	if err := e.assertOwner(caller); err != nil {
		return err
	}
	err := e.database.Client().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry store.ConfigEntry
		if err := tx.Where(store.ConfigEntry{Key: peerCoordinatorKey}).
			FirstOrCreate(&entry).Error; err != nil {
			return err
		}
		entry.Value = reference
		return tx.Save(&entry).Error
	})
	if err != nil {
		return swaperrors.Database(err, "failed to store peer coordinator reference")
	}
	e.log.Info().Str("reference", reference).Msg("peer coordinator updated")
	return e.refreshCache()
}

// AddSupportedAsset adds an asset id to the allowlist. Owner only.
func (e *Engine) AddSupportedAsset(ctx context.Context, caller, asset string) error {
	if err := e.assertOwner(caller); err != nil {
		return err
	}
	if asset == "" || asset == e.cfg.NativeAssetID {
		return swaperrors.New(swaperrors.CodeInvalidParams, "asset id must be a non-native identifier")
	}
	err := e.database.Client().WithContext(ctx).
		Where(store.SupportedAsset{AssetID: asset}).
		FirstOrCreate(&store.SupportedAsset{AssetID: asset}).Error
	if err != nil {
		return swaperrors.Database(err, "failed to add supported asset")
	}
	e.log.Info().Str("asset", asset).Msg("asset added to allowlist")
	return e.refreshCache()
}

// RemoveSupportedAsset removes an asset id from the allowlist. Owner only.
// Existing swaps in that asset are unaffected; only new creations are
// blocked.
func (e *Engine) RemoveSupportedAsset(ctx context.Context, caller, asset string) error {
	if err := e.assertOwner(caller); err != nil {
		return err
	}
	err := e.database.Client().WithContext(ctx).Unscoped().
		Where("asset_id = ?", asset).
		Delete(&store.SupportedAsset{}).Error
	if err != nil {
		return swaperrors.Database(err, "failed to remove supported asset")
	}
	e.log.Info().Str("asset", asset).Msg("asset removed from allowlist")
	return e.refreshCache()
}

// RequeuePayout is the manual follow-up for a failed settlement transfer:
// it moves the payout job back to pending so the worker retries it. Owner
// only. It never re-runs the state transition that queued the payout.
func (e *Engine) RequeuePayout(ctx context.Context, caller, swapID string) error {
	if err := e.assertOwner(caller); err != nil {
		return err
	}
	return e.database.Client().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job store.PayoutJob
		if err := tx.Where("swap_id = ?", swapID).First(&job).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return swaperrors.New(swaperrors.CodeNotFound, "no payout for swap").WithSwap(swapID)
			}
			return swaperrors.Database(err, "failed to load payout job")
		}
		if job.Status != store.PayoutStatusFailed {
			return swaperrors.Newf(swaperrors.CodeInvalidState,
				"payout is %s, only failed payouts can be requeued", job.Status).WithSwap(swapID)
		}

		job.Status = store.PayoutStatusPending
		job.ErrorMsg = ""
		if err := tx.Save(&job).Error; err != nil {
			return swaperrors.Database(err, "failed to requeue payout")
		}
		return tx.Model(&store.SwapRecord{}).
			Where("swap_id = ?", swapID).
			Update("payout_status", store.PayoutStatusPending).Error
	})
}

// refreshCache reloads the admin snapshot from the store.
func (e *Engine) refreshCache() error {
	client := e.database.Client()

	var assets []store.SupportedAsset
	if err := client.Find(&assets).Error; err != nil {
		return swaperrors.Database(err, "failed to load asset allowlist")
	}
	ids := make([]string, 0, len(assets))
	for _, a := range assets {
		ids = append(ids, a.AssetID)
	}

	var entry store.ConfigEntry
	coordinator := ""
	err := client.Where("key = ?", peerCoordinatorKey).First(&entry).Error
	if err == nil {
		coordinator = entry.Value
	} else if err != gorm.ErrRecordNotFound {
		return swaperrors.Database(err, "failed to load peer coordinator reference")
	}

	e.cache.Update(cache.AdminConfig{
		SupportedAssets: ids,
		PeerCoordinator: coordinator,
	})
	return nil
}
