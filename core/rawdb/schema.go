// Package rawdb contains the low level chain database accessors of the
// ticket node: blocks, receipts, the head pointer and the stored genesis.
package rawdb

import "encoding/binary"

var (
	// headBlockKey tracks the latest known block number.
	headBlockKey = []byte("LastBlock")

	// genesisKey holds the JSON-encoded genesis the database was initialised with.
	genesisKey = []byte("TicketGenesis")

	blockPrefix    = []byte("b") // blockPrefix + num (uint64 big endian) -> block RLP
	receiptsPrefix = []byte("r") // receiptsPrefix + num (uint64 big endian) -> receipts RLP
)

// encodeBlockNumber encodes a block number as big endian uint64.
func encodeBlockNumber(number uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, number)
	return enc
}

// blockKey = blockPrefix + num (uint64 big endian)
func blockKey(number uint64) []byte {
	return append(append([]byte{}, blockPrefix...), encodeBlockNumber(number)...)
}

// receiptsKey = receiptsPrefix + num (uint64 big endian)
func receiptsKey(number uint64) []byte {
	return append(append([]byte{}, receiptsPrefix...), encodeBlockNumber(number)...)
}
