package core

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethrawdb "github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/holiman/uint256"

	"github.com/tos-network/gtickets/core/types"
	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
	"github.com/tos-network/gtickets/tickets"
)

var (
	testOperator = common.HexToAddress("0x71562b71999873DB5b286dF957af199Ec94617F7")
	testUserA    = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	testUserB    = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func newTestChain(t *testing.T) *BlockChain {
	t.Helper()
	bc, err := NewBlockChain(gethrawdb.NewMemoryDatabase(), DefaultGenesis(testOperator))
	if err != nil {
		t.Fatalf("failed to create chain: %v", err)
	}
	return bc
}

func makeTx(t *testing.T, from common.Address, kind sysaction.ActionKind, payload interface{}) *types.Transaction {
	t.Helper()
	data, err := sysaction.MakeSysAction(kind, payload)
	if err != nil {
		t.Fatal(err)
	}
	return types.NewTransaction(from, data)
}

func codeHex(n uint64) *tickets.CodePayload {
	return &tickets.CodePayload{Code: tickets.CodeToHex(new(uint256.Int).SetUint64(n))}
}

func registerTx(t *testing.T, from common.Address, kind sysaction.ActionKind, code uint64) *types.Transaction {
	return makeTx(t, from, kind, tickets.RegisterPayload{Code: codeHex(code).Code})
}

// TestSameCodeTwiceInOneBlock checks that ordering within a block decides
// which of two registrations using the same code wins.
func TestSameCodeTwiceInOneBlock(t *testing.T) {
	bc := newTestChain(t)
	_, receipts, err := bc.InsertBlock([]*types.Transaction{
		makeTx(t, testOperator, sysaction.ActionAddCode, codeHex(11)),
		registerTx(t, testUserA, sysaction.ActionRegisterStandard, 11),
		registerTx(t, testUserB, sysaction.ActionRegisterStandard, 11),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(receipts) != 3 {
		t.Fatalf("receipt count: want 3, got %d", len(receipts))
	}
	if receipts[1].Failed() {
		t.Fatalf("first registration failed: %s", receipts[1].Error)
	}
	if !receipts[2].Failed() || !strings.Contains(receipts[2].Error, tickets.ErrCodeInvalidOrUsed.Error()) {
		t.Fatalf("second registration: want code error, got %+v", receipts[2])
	}
	statedb, err := bc.State()
	if err != nil {
		t.Fatal(err)
	}
	if n := tickets.ReadCounter(statedb, tickets.Standard); n != 1 {
		t.Fatalf("standard counter: want 1, got %d", n)
	}
	if addr, _ := tickets.ReadRegistration(statedb, tickets.Standard, 0); addr != testUserA {
		t.Fatalf("slot 0: want %x, got %x", testUserA, addr)
	}
}

// TestFailedTransactionReverted checks that a failing transaction leaves no
// trace in state while its neighbours still apply.
func TestFailedTransactionReverted(t *testing.T) {
	bc := newTestChain(t)
	before, err := bc.State()
	if err != nil {
		t.Fatal(err)
	}
	rootBefore := before.IntermediateRoot(false)

	block, receipts, err := bc.InsertBlock([]*types.Transaction{
		makeTx(t, testUserA, sysaction.ActionAddCode, codeHex(5)),
		makeTx(t, testOperator, sysaction.ActionDistributeStandard, tickets.DistributePayload{Indices: []uint64{0, 1, 2, 3, 4}}),
		types.NewTransaction(testUserA, []byte("not json")),
		makeTx(t, testUserA, "TRANSFER", nil),
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range receipts {
		if !r.Failed() {
			t.Errorf("tx %d: want failure, got success", i)
		}
	}
	if receipts[3].Action != "TRANSFER" || !strings.Contains(receipts[3].Error, sysaction.ErrUnknownAction.Error()) {
		t.Errorf("unknown action receipt: %+v", receipts[3])
	}
	if block.Root != rootBefore {
		t.Fatalf("state root moved: %x -> %x", rootBefore, block.Root)
	}
}

func TestProcessorKeepsOrder(t *testing.T) {
	bc := newTestChain(t)
	statedb, err := bc.State()
	if err != nil {
		t.Fatal(err)
	}
	block := types.NewBlock(1, common.Hash{}, common.Hash{}, []*types.Transaction{
		registerTx(t, testUserA, sysaction.ActionRegisterTop, 1),
		makeTx(t, testOperator, sysaction.ActionAddCode, codeHex(1)),
		registerTx(t, testUserA, sysaction.ActionRegisterTop, 1),
	})
	receipts := bc.processor.Process(block, statedb)
	want := []uint64{types.ReceiptStatusFailed, types.ReceiptStatusSuccessful, types.ReceiptStatusSuccessful}
	for i, r := range receipts {
		if r.TxIndex != uint64(i) || r.Status != want[i] {
			t.Errorf("receipt %d: want index %d status %d, got %+v", i, i, want[i], r)
		}
	}
	if n := tickets.ReadCounter(statedb, tickets.Top); n != 1 {
		t.Fatalf("top counter: want 1, got %d", n)
	}
}

func TestClaimDrawAcrossBlocks(t *testing.T) {
	bc := newTestChain(t)
	codes := make([]*uint256.Int, params.SmallProfile.CodeBatchSize)
	for i := range codes {
		codes[i] = new(uint256.Int).SetUint64(uint64(i + 1))
	}
	txs := []*types.Transaction{
		makeTx(t, testOperator, sysaction.ActionResetCounters, nil),
		makeTx(t, testOperator, sysaction.ActionAddCodes, tickets.CodesPayload{Codes: tickets.CodesToHex(codes)}),
	}
	if _, _, err := bc.InsertBlock(txs); err != nil {
		t.Fatal(err)
	}
	registrants := make([]common.Address, 15)
	txs = txs[:0]
	for i := range registrants {
		registrants[i] = common.BytesToAddress([]byte{0x10, byte(i)})
		txs = append(txs, registerTx(t, registrants[i], sysaction.ActionRegisterStandard, uint64(i+1)))
	}
	if _, _, err := bc.InsertBlock(txs); err != nil {
		t.Fatal(err)
	}
	_, receipts, err := bc.InsertBlock([]*types.Transaction{
		makeTx(t, testOperator, sysaction.ActionDistributeStandard, tickets.DistributePayload{Indices: []uint64{11, 4, 10, 7, 2}}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if receipts[0].Failed() {
		t.Fatalf("distribution failed: %s", receipts[0].Error)
	}
	if head := bc.CurrentBlock(); head.Number != 3 {
		t.Fatalf("head: want 3, got %d", head.Number)
	}
	statedb, err := bc.State()
	if err != nil {
		t.Fatal(err)
	}
	if n := tickets.ReadClaimTokenCount(statedb); n != 5 {
		t.Fatalf("claim token count: want 5, got %d", n)
	}
	for tokenID, slot := range map[uint64]int{1: 11, 2: 4, 4: 7} {
		owner, _ := tickets.ReadClaimTokenOwner(statedb, tokenID)
		if owner != registrants[slot] {
			t.Errorf("token %d: want %x, got %x", tokenID, registrants[slot], owner)
		}
		if bal := bc.Minter().BalanceOf(statedb, tokenID, owner); bal.Uint64() != 1 {
			t.Errorf("token %d: balance %d", tokenID, bal.Uint64())
		}
	}
	if r := bc.GetReceiptsByNumber(3); len(r) != 1 || r[0].Failed() {
		t.Fatalf("stored receipts: %+v", r)
	}
}
