package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusionswap/htlc-node/bank"
	"github.com/fusionswap/htlc-node/config"
	"github.com/fusionswap/htlc-node/db"
	"github.com/fusionswap/htlc-node/htlc"
	"github.com/fusionswap/htlc-node/ledger"
	"github.com/fusionswap/htlc-node/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *ledger.Engine, *bank.MemoryLedger) {
	t.Helper()

	database, err := db.OpenInMemoryDB(true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	assetLedger := bank.NewMemoryLedger()
	assetLedger.Mint("native", "alice.acct", 1_000)

	engine, err := ledger.NewEngine(database, assetLedger, ledger.SystemClock{}, config.Config{
		OwnerAccount:             "owner.acct",
		ModuleAccount:            "htlc_module",
		NativeAssetID:            "native",
		MinDeadlineMarginSeconds: 1,
	}, zerolog.Nop())
	require.NoError(t, err)

	s := &Server{logger: zerolog.Nop(), engine: engine}
	ts := httptest.NewServer(s.setupRoutes())
	t.Cleanup(ts.Close)
	return ts, engine, assetLedger
}

func createTestSwap(t *testing.T, engine *ledger.Engine, secret string) string {
	t.Helper()
	id, err := engine.CreateSwap(context.Background(), "alice.acct", ledger.CreateParams{
		Receiver:           "bob.acct",
		Amount:             100,
		HashCommitment:     htlc.Commit([]byte(secret)),
		Deadline:           time.Now().Add(time.Hour).Unix(),
		PeerOrderReference: "order-hash-1",
	})
	require.NoError(t, err)
	return id
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t)
	status := getJSON(t, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestSwapEndpoint(t *testing.T) {
	ts, engine, _ := newTestServer(t)
	id := createTestSwap(t, engine, "mysecret")

	t.Run("returns the swap", func(t *testing.T) {
		var resp struct {
			Data ledger.SwapView `json:"data"`
		}
		status := getJSON(t, ts.URL+"/api/v1/swap?id="+id, &resp)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, id, resp.Data.SwapID)
		assert.Equal(t, store.SwapStateActive, resp.Data.State)
	})

	t.Run("unknown id is 404 with code", func(t *testing.T) {
		var resp ErrorResponse
		status := getJSON(t, ts.URL+"/api/v1/swap?id=ffffffffffffffffffffffffffffffff", &resp)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", resp.Code)
	})

	t.Run("missing id is 400", func(t *testing.T) {
		status := getJSON(t, ts.URL+"/api/v1/swap", &ErrorResponse{})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("rejects non-GET", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/v1/swap?id="+id, "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestActiveSwapsEndpoint(t *testing.T) {
	ts, engine, _ := newTestServer(t)
	for i := 0; i < 3; i++ {
		createTestSwap(t, engine, fmt.Sprintf("secret-%d", i))
	}

	var resp struct {
		Data []ledger.SwapView `json:"data"`
	}
	status := getJSON(t, ts.URL+"/api/v1/swaps/active", &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Data, 3)

	status = getJSON(t, ts.URL+"/api/v1/swaps/active?offset=2&limit=5", &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Data, 1)
}

func TestCrossChainEndpoint(t *testing.T) {
	ts, engine, _ := newTestServer(t)
	id := createTestSwap(t, engine, "mysecret")
	require.NoError(t, engine.Withdraw(context.Background(), "bob.acct", id, "mysecret"))

	var resp struct {
		Data ledger.CrossChainInfo `json:"data"`
	}
	status := getJSON(t, ts.URL+"/api/v1/swap/cross-chain?id="+id, &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "order-hash-1", resp.Data.PeerOrderReference)
	assert.Equal(t, "mysecret", resp.Data.RevealedSecret)
}

func TestEventsEndpoint(t *testing.T) {
	ts, engine, _ := newTestServer(t)
	id := createTestSwap(t, engine, "mysecret")
	require.NoError(t, engine.Withdraw(context.Background(), "bob.acct", id, "mysecret"))

	var resp struct {
		Data []ledger.EventView `json:"data"`
	}
	status := getJSON(t, ts.URL+"/api/v1/events", &resp)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Data, 2)

	// Cursor resume: only events after the given id come back.
	cursor := resp.Data[0].ID
	status = getJSON(t, ts.URL+fmt.Sprintf("/api/v1/events?after=%d", cursor), &resp)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, ledger.EventTypeWithdrawn, resp.Data[0].Type)
}

func TestPayoutsEndpoint(t *testing.T) {
	ts, engine, _ := newTestServer(t)
	id := createTestSwap(t, engine, "mysecret")
	require.NoError(t, engine.Withdraw(context.Background(), "bob.acct", id, "mysecret"))

	var resp struct {
		Data []ledger.PayoutView `json:"data"`
	}
	status := getJSON(t, ts.URL+"/api/v1/payouts?status="+store.PayoutStatusPending, &resp)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, id, resp.Data[0].SwapID)
}

func TestInfoEndpoint(t *testing.T) {
	ts, engine, _ := newTestServer(t)
	createTestSwap(t, engine, "mysecret")
	require.NoError(t, engine.SetPeerCoordinator(context.Background(), "owner.acct", "0xabc"))

	var resp struct {
		Data ledger.LedgerInfo `json:"data"`
	}
	status := getJSON(t, ts.URL+"/api/v1/info", &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), resp.Data.TotalSwaps)
	assert.Equal(t, int64(1), resp.Data.ActiveSwaps)
	assert.Equal(t, "0xabc", resp.Data.PeerCoordinator)
	assert.Equal(t, "owner.acct", resp.Data.Owner)
}

func TestServerStartStop(t *testing.T) {
	_, engine, _ := newTestServer(t)

	s := NewServer(zerolog.Nop(), engine, 0)
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())
}
