// Package bank defines the asset-ledger port the HTLC engine settles
// against. The engine only ever moves value between accounts it names; how
// a transfer actually happens (native unit, fungible-asset contract, test
// double) is behind the Ledger interface.
package bank

import "context"

// Ledger moves value between accounts of a single asset ledger.
//
// Transfer must be all-or-nothing: either the full amount moves or an error
// is returned and balances are untouched. The engine calls it synchronously
// when locking funds at creation, and asynchronously (after the state
// transition committed) for payout legs.
type Ledger interface {
	Transfer(ctx context.Context, asset, from, to string, amount uint64) error
}
