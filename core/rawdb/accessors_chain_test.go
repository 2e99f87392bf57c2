package rawdb

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"

	"github.com/tos-network/gtickets/core/types"
)

func TestBlockStorage(t *testing.T) {
	db := rawdb.NewMemoryDatabase()

	if _, ok := ReadHeadBlockNumber(db); ok {
		t.Fatal("head present in fresh database")
	}
	block := types.NewBlock(3, common.Hash{0x01}, common.Hash{0x02}, []*types.Transaction{
		types.NewTransaction(common.Address{0x0a}, []byte(`{"action":"TICKET_RESET_COUNTERS"}`)),
	})
	if ReadBlock(db, 3) != nil {
		t.Fatal("non-existent block returned")
	}
	WriteBlock(db, block)
	WriteHeadBlockNumber(db, 3)

	if entry := ReadBlock(db, 3); entry == nil || entry.Hash() != block.Hash() {
		t.Fatalf("stored block mismatch: have %v, want %v", entry, block)
	}
	if n, ok := ReadHeadBlockNumber(db); !ok || n != 3 {
		t.Fatalf("head number: have %d %v", n, ok)
	}
}

func TestReceiptStorage(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	receipts := types.Receipts{
		{TxHash: common.Hash{0x01}, TxIndex: 0, Action: "TICKET_ADD_CODE", Status: types.ReceiptStatusSuccessful},
		{TxHash: common.Hash{0x02}, TxIndex: 1, Action: "TICKET_REGISTER_TOP", Status: types.ReceiptStatusFailed, Error: "tickets: tier is full"},
	}
	WriteReceipts(db, 1, receipts)

	stored := ReadReceipts(db, 1)
	if len(stored) != 2 {
		t.Fatalf("receipt count: have %d", len(stored))
	}
	if *stored[1] != *receipts[1] {
		t.Fatalf("receipt mismatch: have %+v, want %+v", stored[1], receipts[1])
	}
	if ReadReceipts(db, 2) != nil {
		t.Fatal("receipts for unknown block")
	}
}
