package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Transaction is a system action submitted by From. Data carries the JSON
// sysaction envelope. Transactions are unsigned; the host trusts From.
type Transaction struct {
	From common.Address
	Data []byte
}

// NewTransaction creates a transaction carrying data on behalf of from.
func NewTransaction(from common.Address, data []byte) *Transaction {
	return &Transaction{From: from, Data: common.CopyBytes(data)}
}

// Hash returns the keccak256 hash of the RLP encoding of tx.
func (tx *Transaction) Hash() common.Hash {
	return rlpHash(tx)
}

// Transactions implements DerivableList for transactions.
type Transactions []*Transaction

// Len returns the length of s.
func (s Transactions) Len() int { return len(s) }

func rlpHash(x interface{}) common.Hash {
	enc, err := rlp.EncodeToBytes(x)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}
