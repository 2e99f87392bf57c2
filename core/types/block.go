package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// Block is an ordered batch of transactions applied atomically per
// transaction. Root is the state root after the last transaction.
type Block struct {
	Number     uint64
	ParentHash common.Hash
	Root       common.Hash
	Txs        Transactions
}

// NewBlock assembles a block. The transaction list is copied.
func NewBlock(number uint64, parent common.Hash, root common.Hash, txs []*Transaction) *Block {
	b := &Block{Number: number, ParentHash: parent, Root: root}
	if len(txs) > 0 {
		b.Txs = make(Transactions, len(txs))
		copy(b.Txs, txs)
	}
	return b
}

// Hash returns the keccak256 hash of the block's RLP encoding.
func (b *Block) Hash() common.Hash {
	return rlpHash(b)
}

// Transactions returns the block's transactions.
func (b *Block) Transactions() Transactions { return b.Txs }
