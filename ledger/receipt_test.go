package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	swaperrors "github.com/fusionswap/htlc-node/errors"
	"github.com/fusionswap/htlc-node/htlc"
	"github.com/fusionswap/htlc-node/store"
)

const testToken = "usdc.token"

func encodeParams(t *testing.T, env *testEnv, asset string, amount uint64) []byte {
	t.Helper()
	raw, err := json.Marshal(CreateParams{
		Receiver:       testReceiver,
		Asset:          asset,
		Amount:         amount,
		HashCommitment: htlc.Commit([]byte(testSecret)),
		Deadline:       env.clock.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	return raw
}

func TestAssetTransferNotify(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes full deposit and creates the swap", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.engine.AddSupportedAsset(ctx, testOwner, testToken))

		refund, err := env.engine.AssetTransferNotify(ctx, testToken, testSender, 250, encodeParams(t, env, testToken, 250))
		require.NoError(t, err)
		assert.Equal(t, uint64(0), refund)

		swaps, err := env.engine.ListActive(0, 10)
		require.NoError(t, err)
		require.Len(t, swaps, 1)
		assert.Equal(t, testToken, swaps[0].Asset)
		assert.Equal(t, uint64(250), swaps[0].Amount)
		assert.Equal(t, testSender, swaps[0].Sender)
	})

	t.Run("declared amount zero means whole deposit", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.engine.AddSupportedAsset(ctx, testOwner, testToken))

		refund, err := env.engine.AssetTransferNotify(ctx, testToken, testSender, 99, encodeParams(t, env, testToken, 0))
		require.NoError(t, err)
		assert.Equal(t, uint64(0), refund)

		swaps, err := env.engine.ListActive(0, 10)
		require.NoError(t, err)
		require.Len(t, swaps, 1)
		assert.Equal(t, uint64(99), swaps[0].Amount)
	})

	t.Run("malformed params refund everything", func(t *testing.T) {
		env := newTestEnv(t)
		refund, err := env.engine.AssetTransferNotify(ctx, testToken, testSender, 250, []byte("{not json"))
		assert.True(t, swaperrors.IsCode(err, swaperrors.CodeInvalidParams))
		assert.Equal(t, uint64(250), refund)
	})

	t.Run("asset must match the notifying ledger", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.engine.AddSupportedAsset(ctx, testOwner, testToken))

		refund, err := env.engine.AssetTransferNotify(ctx, "wbtc.token", testSender, 250, encodeParams(t, env, testToken, 250))
		assert.True(t, swaperrors.IsCode(err, swaperrors.CodeInvalidParams))
		assert.Equal(t, uint64(250), refund)
	})

	t.Run("amount mismatch refunds everything", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.engine.AddSupportedAsset(ctx, testOwner, testToken))

		refund, err := env.engine.AssetTransferNotify(ctx, testToken, testSender, 250, encodeParams(t, env, testToken, 100))
		assert.True(t, swaperrors.IsCode(err, swaperrors.CodeInvalidAmount))
		assert.Equal(t, uint64(250), refund)
	})

	t.Run("unsupported asset refunds everything", func(t *testing.T) {
		env := newTestEnv(t)
		refund, err := env.engine.AssetTransferNotify(ctx, testToken, testSender, 250, encodeParams(t, env, testToken, 250))
		assert.True(t, swaperrors.IsCode(err, swaperrors.CodeUnsupportedAsset))
		assert.Equal(t, uint64(250), refund)

		info, infoErr := env.engine.Info()
		require.NoError(t, infoErr)
		assert.Zero(t, info.TotalSwaps)
	})

	t.Run("token swap settles through the payout worker", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.engine.AddSupportedAsset(ctx, testOwner, testToken))
		env.bank.Mint(testToken, testModule, 250)

		_, err := env.engine.AssetTransferNotify(ctx, testToken, testSender, 250, encodeParams(t, env, testToken, 250))
		require.NoError(t, err)

		swaps, err := env.engine.ListActive(0, 10)
		require.NoError(t, err)
		require.Len(t, swaps, 1)

		require.NoError(t, env.engine.Withdraw(ctx, testReceiver, swaps[0].SwapID, testSecret))
		_, err = env.engine.DispatchPendingPayouts(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(250), env.bank.Balance(testToken, testReceiver))

		payouts, err := env.engine.ListPayouts(store.PayoutStatusConfirmed)
		require.NoError(t, err)
		require.Len(t, payouts, 1)
		assert.Equal(t, testToken, payouts[0].Asset)
	})
}
