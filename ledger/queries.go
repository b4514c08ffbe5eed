package ledger

import (
	"encoding/json"

	"gorm.io/gorm"

	swaperrors "github.com/fusionswap/htlc-node/errors"
	"github.com/fusionswap/htlc-node/store"
)

// Pagination bounds for list queries.
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// SwapView is the read-only projection of a swap record.
type SwapView struct {
	SwapID             string `json:"swap_id"`
	Sender             string `json:"sender"`
	Receiver           string `json:"receiver"`
	Asset              string `json:"asset"`
	Amount             uint64 `json:"amount"`
	HashCommitment     string `json:"hash_commitment"`
	Deadline           int64  `json:"deadline"`
	RevealedSecret     string `json:"revealed_secret,omitempty"`
	PeerOrderReference string `json:"peer_order_reference,omitempty"`
	State              string `json:"state"`
	PayoutStatus       string `json:"payout_status"`
	LedgerCreatedAt    int64  `json:"created_at"`
}

// CrossChainInfo is the slice of a swap the peer chain's coordinator needs.
type CrossChainInfo struct {
	SwapID             string `json:"swap_id"`
	PeerOrderReference string `json:"peer_order_reference,omitempty"`
	HashCommitment     string `json:"hash_commitment"`
	State              string `json:"state"`
	RevealedSecret     string `json:"revealed_secret,omitempty"`
}

// PayoutView is the read-only projection of a payout job.
type PayoutView struct {
	SwapID    string `json:"swap_id"`
	Recipient string `json:"recipient"`
	Asset     string `json:"asset"`
	Amount    uint64 `json:"amount"`
	Status    string `json:"status"`
	Attempts  uint   `json:"attempts"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}

// EventView is one entry of the durable event log.
type EventView struct {
	ID     uint            `json:"id"`
	Type   string          `json:"type"`
	SwapID string          `json:"swap_id"`
	Data   json.RawMessage `json:"data"`
}

// LedgerInfo summarizes the ledger for the info endpoint.
type LedgerInfo struct {
	Owner           string   `json:"owner"`
	TotalSwaps      int64    `json:"total_swaps"`
	ActiveSwaps     int64    `json:"active_swaps"`
	PeerCoordinator string   `json:"peer_coordinator,omitempty"`
	SupportedAssets []string `json:"supported_assets"`
}

func toView(rec *store.SwapRecord) *SwapView {
	return &SwapView{
		SwapID:             rec.SwapID,
		Sender:             rec.Sender,
		Receiver:           rec.Receiver,
		Asset:              rec.Asset,
		Amount:             rec.Amount,
		HashCommitment:     rec.HashCommitment,
		Deadline:           rec.Deadline,
		RevealedSecret:     rec.RevealedSecret,
		PeerOrderReference: rec.PeerOrderReference,
		State:              rec.State,
		PayoutStatus:       rec.PayoutStatus,
		LedgerCreatedAt:    rec.LedgerCreatedAt,
	}
}

// GetSwap returns a swap by id.
func (e *Engine) GetSwap(swapID string) (*SwapView, error) {
	rec, err := loadSwap(e.database.Client(), swapID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, swaperrors.New(swaperrors.CodeNotFound, "swap not found").WithSwap(swapID)
		}
		return nil, swaperrors.Database(err, "failed to load swap record")
	}
	return toView(rec), nil
}

// GetSecret returns the revealed secret of a swap, or empty while the swap
// has not been withdrawn. Cross-chain coordination helper.
func (e *Engine) GetSecret(swapID string) (string, error) {
	view, err := e.GetSwap(swapID)
	if err != nil {
		return "", err
	}
	return view.RevealedSecret, nil
}

// GetCrossChainInfo returns the coordination slice of a swap.
func (e *Engine) GetCrossChainInfo(swapID string) (*CrossChainInfo, error) {
	view, err := e.GetSwap(swapID)
	if err != nil {
		return nil, err
	}
	return &CrossChainInfo{
		SwapID:             view.SwapID,
		PeerOrderReference: view.PeerOrderReference,
		HashCommitment:     view.HashCommitment,
		State:              view.State,
		RevealedSecret:     view.RevealedSecret,
	}, nil
}

// ListActive returns active swaps in creation order with offset/limit
// pagination.
func (e *Engine) ListActive(offset, limit int) ([]SwapView, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var recs []store.SwapRecord
	err := e.database.Client().
		Where("state = ?", store.SwapStateActive).
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, swaperrors.Database(err, "failed to list active swaps")
	}

	views := make([]SwapView, 0, len(recs))
	for i := range recs {
		views = append(views, *toView(&recs[i]))
	}
	return views, nil
}

// ListPayouts returns payout jobs, optionally filtered by status. This is
// the query the orchestrator uses to detect a stuck settlement.
func (e *Engine) ListPayouts(status string) ([]PayoutView, error) {
	q := e.database.Client().Model(&store.PayoutJob{}).Order("id asc")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var jobs []store.PayoutJob
	if err := q.Find(&jobs).Error; err != nil {
		return nil, swaperrors.Database(err, "failed to list payouts")
	}

	views := make([]PayoutView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, PayoutView{
			SwapID:    job.SwapID,
			Recipient: job.Recipient,
			Asset:     job.Asset,
			Amount:    job.Amount,
			Status:    job.Status,
			Attempts:  job.Attempts,
			ErrorMsg:  job.ErrorMsg,
		})
	}
	return views, nil
}

// ListEvents returns event-log entries with id greater than afterID, oldest
// first. Orchestrators poll this to resume from their last cursor.
func (e *Engine) ListEvents(afterID uint, limit int) ([]EventView, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var rows []store.SwapEvent
	err := e.database.Client().
		Where("id > ?", afterID).
		Order("id asc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, swaperrors.Database(err, "failed to list events")
	}

	views := make([]EventView, 0, len(rows))
	for _, row := range rows {
		views = append(views, EventView{
			ID:     row.ID,
			Type:   row.Type,
			SwapID: row.SwapID,
			Data:   json.RawMessage(row.Data),
		})
	}
	return views, nil
}

// Info summarizes the ledger.
func (e *Engine) Info() (*LedgerInfo, error) {
	client := e.database.Client()

	var total, active int64
	if err := client.Model(&store.SwapRecord{}).Count(&total).Error; err != nil {
		return nil, swaperrors.Database(err, "failed to count swaps")
	}
	if err := client.Model(&store.SwapRecord{}).
		Where("state = ?", store.SwapStateActive).Count(&active).Error; err != nil {
		return nil, swaperrors.Database(err, "failed to count active swaps")
	}

	return &LedgerInfo{
		Owner:           e.cfg.OwnerAccount,
		TotalSwaps:      total,
		ActiveSwaps:     active,
		PeerCoordinator: e.cache.PeerCoordinator(),
		SupportedAssets: e.cache.SupportedAssets(),
	}, nil
}
