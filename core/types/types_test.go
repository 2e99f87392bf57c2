package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

type devnull struct{ len int }

func (d *devnull) Write(p []byte) (int, error) {
	d.len += len(p)
	return len(p), nil
}

func testBlock() *Block {
	from := common.HexToAddress("0xe8b0087eec10090b15f4fc4bc96aaa54e2d44c29")
	txs := []*Transaction{
		NewTransaction(from, []byte(`{"action":"TICKET_RESET_COUNTERS"}`)),
		NewTransaction(from, []byte(`{"action":"TICKET_ADD_CODE","payload":{"code":"0xb"}}`)),
	}
	return NewBlock(7, common.Hash{0x01}, common.Hash{0x02}, txs)
}

func TestBlockEncoding(t *testing.T) {
	block := testBlock()
	enc, err := rlp.EncodeToBytes(block)
	if err != nil {
		t.Fatal(err)
	}
	var dec Block
	if err := rlp.DecodeBytes(enc, &dec); err != nil {
		t.Fatal(err)
	}
	if dec.Hash() != block.Hash() {
		t.Fatalf("hash mismatch: want %x, got %x", block.Hash(), dec.Hash())
	}
	if dec.Number != 7 || len(dec.Txs) != 2 || dec.Txs[1].Hash() != block.Txs[1].Hash() {
		t.Fatalf("decoded block differs: %+v", dec)
	}
}

func TestTransactionHashCoversSender(t *testing.T) {
	data := []byte(`{"action":"TICKET_RESET_COUNTERS"}`)
	a := NewTransaction(common.Address{1}, data)
	b := NewTransaction(common.Address{2}, data)
	if a.Hash() == b.Hash() {
		t.Fatal("transactions from different senders share a hash")
	}
	data[0] = 'x'
	if a.Data[0] == 'x' {
		t.Fatal("transaction aliases caller data")
	}
}

func BenchmarkEncodeRLP(b *testing.B) {
	block := testBlock()
	var null = &devnull{}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rlp.Encode(null, block)
	}
	b.SetBytes(int64(null.len / b.N))
}
