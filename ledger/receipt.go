package ledger

import (
	"context"
	"encoding/json"

	swaperrors "github.com/fusionswap/htlc-node/errors"
)

// AssetTransferNotify is the receipt adapter for fungible-asset deposits.
// An external asset ledger calls it after moving `amount` of its asset to
// the module account, passing the swap parameters as opaque accompanying
// data. Acceptance is all-or-nothing: on success the full amount is consumed
// (returns 0); on any rejection the full amount is returned so the caller
// refunds the depositor.
//
// The caller is the notifying asset ledger itself and must match the asset
// named in the params, so a deposit of token A can never create a swap
// denominated in token B.
func (e *Engine) AssetTransferNotify(ctx context.Context, caller, depositor string, amount uint64, encodedParams []byte) (uint64, error) {
	var p CreateParams
	if err := json.Unmarshal(encodedParams, &p); err != nil {
		return amount, swaperrors.New(swaperrors.CodeInvalidParams,
			"malformed swap parameters in transfer message").WithCause(err)
	}

	if p.Asset != caller {
		return amount, swaperrors.Newf(swaperrors.CodeInvalidParams,
			"asset %q in params does not match notifying ledger %q", p.Asset, caller)
	}
	if p.Amount != 0 && p.Amount != amount {
		return amount, swaperrors.Newf(swaperrors.CodeInvalidAmount,
			"deposited amount %d does not match declared amount %d", amount, p.Amount)
	}
	p.Amount = amount

	if _, err := e.createSwap(ctx, depositor, p, false, "receipt"); err != nil {
		return amount, err
	}
	return 0, nil
}
