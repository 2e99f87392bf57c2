package core

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/tos-network/gtickets/balances"
	"github.com/tos-network/gtickets/core/rawdb"
	"github.com/tos-network/gtickets/core/types"
	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
	"github.com/tos-network/gtickets/tickets"
)

var errMissingHead = errors.New("missing head block")

// BlockChain is a single-writer chain of system-action blocks. Blocks are
// sealed locally as soon as they are inserted; there is no fork choice.
type BlockChain struct {
	db         ethdb.Database
	stateCache state.Database
	genesis    *Genesis
	profile    *params.DistributorProfile
	minter     *balances.Ledger
	processor  *StateProcessor

	mu      sync.RWMutex // guards current and serialises inserts
	current *types.Block
}

// NewBlockChain opens the chain stored in db. The database must have been
// initialised with SetupGenesis; genesis may be nil to accept the stored one.
func NewBlockChain(db ethdb.Database, genesis *Genesis) (*BlockChain, error) {
	stored, err := SetupGenesis(db, genesis)
	if err != nil {
		return nil, err
	}
	profile, err := stored.DistributorProfile()
	if err != nil {
		return nil, err
	}
	number, ok := rawdb.ReadHeadBlockNumber(db)
	if !ok {
		return nil, errMissingHead
	}
	head := rawdb.ReadBlock(db, number)
	if head == nil {
		return nil, fmt.Errorf("%w: #%d", errMissingHead, number)
	}
	minter := balances.NewLedger()
	bc := &BlockChain{
		db:         db,
		stateCache: state.NewDatabase(db),
		genesis:    stored,
		profile:    profile,
		minter:     minter,
		processor:  NewStateProcessor(sysaction.NewRegistry(tickets.NewHandler(profile, minter))),
		current:    head,
	}
	log.Info("Loaded ticket chain", "profile", profile.Name, "number", head.Number, "root", head.Root)
	return bc, nil
}

// Genesis returns the genesis the chain runs under.
func (bc *BlockChain) Genesis() *Genesis { return bc.genesis }

// Profile returns the distributor profile fixed at genesis.
func (bc *BlockChain) Profile() *params.DistributorProfile { return bc.profile }

// Minter returns the balance ledger claim tokens are minted into.
func (bc *BlockChain) Minter() *balances.Ledger { return bc.minter }

// CurrentBlock returns the head of the chain.
func (bc *BlockChain) CurrentBlock() *types.Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.current
}

// GetBlockByNumber retrieves a block from the database by number.
func (bc *BlockChain) GetBlockByNumber(number uint64) *types.Block {
	return rawdb.ReadBlock(bc.db, number)
}

// GetReceiptsByNumber retrieves the receipts of the block with the given number.
func (bc *BlockChain) GetReceiptsByNumber(number uint64) types.Receipts {
	return rawdb.ReadReceipts(bc.db, number)
}

// State returns a mutable copy of the state at the head block.
func (bc *BlockChain) State() (*state.StateDB, error) {
	return state.New(bc.CurrentBlock().Root, bc.stateCache, nil)
}

// InsertBlock seals the transactions into the next block on top of the head,
// commits the resulting state and advances the head.
func (bc *BlockChain) InsertBlock(txs []*types.Transaction) (*types.Block, types.Receipts, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	start := time.Now()
	parent := bc.current
	statedb, err := state.New(parent.Root, bc.stateCache, nil)
	if err != nil {
		return nil, nil, err
	}
	pending := types.NewBlock(parent.Number+1, parent.Hash(), parent.Root, txs)
	receipts := bc.processor.Process(pending, statedb)

	root, err := statedb.Commit(false)
	if err != nil {
		return nil, nil, err
	}
	if err := bc.stateCache.TrieDB().Commit(root, false, nil); err != nil {
		return nil, nil, err
	}
	block := types.NewBlock(pending.Number, pending.ParentHash, root, txs)

	batch := bc.db.NewBatch()
	rawdb.WriteBlock(batch, block)
	rawdb.WriteReceipts(batch, block.Number, receipts)
	rawdb.WriteHeadBlockNumber(batch, block.Number)
	if err := batch.Write(); err != nil {
		return nil, nil, err
	}
	bc.current = block
	blockInsertTimer.UpdateSince(start)

	var failed int
	for _, r := range receipts {
		if r.Failed() {
			failed++
		}
	}
	log.Info("Imported new block", "number", block.Number, "hash", block.Hash(), "txs", len(txs), "failed", failed, "elapsed", time.Since(start))
	return block, receipts, nil
}
