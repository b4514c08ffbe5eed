package bank

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedger_Transfer(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	ledger.Mint("native", "alice", 100)

	t.Run("moves full amount", func(t *testing.T) {
		require.NoError(t, ledger.Transfer(ctx, "native", "alice", "bob", 40))
		assert.Equal(t, uint64(60), ledger.Balance("native", "alice"))
		assert.Equal(t, uint64(40), ledger.Balance("native", "bob"))
	})

	t.Run("rejects insufficient balance untouched", func(t *testing.T) {
		err := ledger.Transfer(ctx, "native", "alice", "bob", 1000)
		require.ErrorContains(t, err, "insufficient")
		assert.Equal(t, uint64(60), ledger.Balance("native", "alice"))
		assert.Equal(t, uint64(40), ledger.Balance("native", "bob"))
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		require.Error(t, ledger.Transfer(ctx, "native", "alice", "bob", 0))
	})

	t.Run("assets are independent", func(t *testing.T) {
		assert.Equal(t, uint64(0), ledger.Balance("usdc.token", "alice"))
	})
}

func TestMemoryLedger_FailureInjection(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	ledger.Mint("native", "alice", 100)

	boom := errors.New("rpc unavailable")
	ledger.FailWith(boom)
	require.ErrorIs(t, ledger.Transfer(ctx, "native", "alice", "bob", 10), boom)
	assert.Equal(t, uint64(100), ledger.Balance("native", "alice"))

	ledger.FailWith(nil)
	require.NoError(t, ledger.Transfer(ctx, "native", "alice", "bob", 10))
}
