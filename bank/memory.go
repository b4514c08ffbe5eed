package bank

import (
	"context"
	"fmt"
	"sync"
)

// MemoryLedger is an in-process Ledger backed by a balance map. It exists so
// the engine can run hermetically in tests and local deployments; real
// deployments implement Ledger against their chain's transfer primitive.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]map[string]uint64 // asset → account → balance
	failErr  error
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]map[string]uint64),
	}
}

// Mint credits an account out of thin air. Test/bootstrap helper.
func (m *MemoryLedger) Mint(asset, account string, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountsFor(asset)[account] += amount
}

// Balance returns the current balance of an account for an asset.
func (m *MemoryLedger) Balance(asset, account string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accountsFor(asset)[account]
}

// FailWith makes every subsequent Transfer return err until cleared with
// FailWith(nil). Used to exercise the payout-failure path.
func (m *MemoryLedger) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Transfer implements Ledger.
func (m *MemoryLedger) Transfer(_ context.Context, asset, from, to string, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return m.failErr
	}
	if amount == 0 {
		return fmt.Errorf("transfer amount must be positive")
	}

	accounts := m.accountsFor(asset)
	if accounts[from] < amount {
		return fmt.Errorf("insufficient %s balance for %s: have %d, need %d",
			asset, from, accounts[from], amount)
	}

	accounts[from] -= amount
	accounts[to] += amount
	return nil
}

func (m *MemoryLedger) accountsFor(asset string) map[string]uint64 {
	accounts, ok := m.balances[asset]
	if !ok {
		accounts = make(map[string]uint64)
		m.balances[asset] = accounts
	}
	return accounts
}
