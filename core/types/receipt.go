package types

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// ReceiptStatusFailed is the status code of a transaction whose writes
	// were reverted.
	ReceiptStatusFailed = uint64(0)

	// ReceiptStatusSuccessful is the status code of a transaction whose
	// writes were kept.
	ReceiptStatusSuccessful = uint64(1)
)

// Receipt records the outcome of one transaction.
type Receipt struct {
	TxHash  common.Hash `json:"transactionHash"`
	TxIndex uint64      `json:"transactionIndex"`
	Action  string      `json:"action"`
	Status  uint64      `json:"status"`
	Error   string      `json:"error,omitempty"`
}

// Failed reports whether the transaction was reverted.
func (r *Receipt) Failed() bool { return r.Status == ReceiptStatusFailed }

// Receipts implements DerivableList for receipts.
type Receipts []*Receipt

// Len returns the number of receipts in this list.
func (rs Receipts) Len() int { return len(rs) }
