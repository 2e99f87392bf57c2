package core

import (
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/log"

	"github.com/tos-network/gtickets/core/types"
	"github.com/tos-network/gtickets/sysaction"
)

// StateProcessor transitions state from one block to the next by running
// every transaction through the system action registry.
type StateProcessor struct {
	registry *sysaction.Registry
}

// NewStateProcessor initialises a new StateProcessor.
func NewStateProcessor(registry *sysaction.Registry) *StateProcessor {
	return &StateProcessor{registry: registry}
}

// Process applies the block's transactions to statedb in order and returns
// one receipt per transaction. A transaction that fails has all of its
// writes reverted and gets a failed receipt; it never fails the block.
func (p *StateProcessor) Process(block *types.Block, statedb *state.StateDB) types.Receipts {
	receipts := make(types.Receipts, 0, len(block.Txs))
	for i, tx := range block.Transactions() {
		receipts = append(receipts, p.applyTransaction(block.Number, uint64(i), tx, statedb))
	}
	return receipts
}

func (p *StateProcessor) applyTransaction(number, index uint64, tx *types.Transaction, statedb *state.StateDB) *types.Receipt {
	receipt := &types.Receipt{TxHash: tx.Hash(), TxIndex: index}
	ctx := &sysaction.Context{
		From:        tx.From,
		BlockNumber: number,
		StateDB:     statedb,
	}
	snapshot := statedb.Snapshot()
	kind, err := p.registry.Execute(ctx, tx.Data)
	receipt.Action = string(kind)
	if err != nil {
		statedb.RevertToSnapshot(snapshot)
		receipt.Status = types.ReceiptStatusFailed
		receipt.Error = err.Error()
		txRevertedMeter.Mark(1)
		log.Debug("Reverted transaction", "block", number, "index", index, "action", kind, "from", tx.From, "err", err)
		return receipt
	}
	// Update the state with pending changes.
	statedb.Finalise(false)
	receipt.Status = types.ReceiptStatusSuccessful
	txAppliedMeter.Mark(1)
	return receipt
}
