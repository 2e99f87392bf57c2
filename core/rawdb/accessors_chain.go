package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tos-network/gtickets/core/types"
)

// ReadHeadBlockNumber retrieves the number of the current head block.
func ReadHeadBlockNumber(db ethdb.KeyValueReader) (uint64, bool) {
	data, _ := db.Get(headBlockKey)
	if len(data) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(data), true
}

// WriteHeadBlockNumber stores the number of the current head block.
func WriteHeadBlockNumber(db ethdb.KeyValueWriter, number uint64) {
	if err := db.Put(headBlockKey, encodeBlockNumber(number)); err != nil {
		log.Crit("Failed to store last block's number", "err", err)
	}
}

// ReadBlock retrieves the block with the given number, or nil if missing.
func ReadBlock(db ethdb.KeyValueReader, number uint64) *types.Block {
	data, _ := db.Get(blockKey(number))
	if len(data) == 0 {
		return nil
	}
	block := new(types.Block)
	if err := rlp.DecodeBytes(data, block); err != nil {
		log.Error("Invalid block RLP", "number", number, "err", err)
		return nil
	}
	return block
}

// WriteBlock stores a block under its number.
func WriteBlock(db ethdb.KeyValueWriter, block *types.Block) {
	data, err := rlp.EncodeToBytes(block)
	if err != nil {
		log.Crit("Failed to RLP encode block", "err", err)
	}
	if err := db.Put(blockKey(block.Number), data); err != nil {
		log.Crit("Failed to store block", "err", err)
	}
}

// ReadReceipts retrieves the receipts of the block with the given number.
func ReadReceipts(db ethdb.KeyValueReader, number uint64) types.Receipts {
	data, _ := db.Get(receiptsKey(number))
	if len(data) == 0 {
		return nil
	}
	var receipts types.Receipts
	if err := rlp.DecodeBytes(data, &receipts); err != nil {
		log.Error("Invalid receipt array RLP", "number", number, "err", err)
		return nil
	}
	return receipts
}

// WriteReceipts stores the receipts of the block with the given number.
func WriteReceipts(db ethdb.KeyValueWriter, number uint64, receipts types.Receipts) {
	data, err := rlp.EncodeToBytes(receipts)
	if err != nil {
		log.Crit("Failed to encode block receipts", "err", err)
	}
	if err := db.Put(receiptsKey(number), data); err != nil {
		log.Crit("Failed to store block receipts", "err", err)
	}
}
