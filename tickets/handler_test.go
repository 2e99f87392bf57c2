package tickets

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tos-network/gtickets/balances"
	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
)

var (
	operator = tAddr(0x01)
	stranger = tAddr(0x02)
)

func newCtx(db sysaction.StateDB, from common.Address) *sysaction.Context {
	return &sysaction.Context{From: from, BlockNumber: 1, StateDB: db}
}

func mustAction(t *testing.T, kind sysaction.ActionKind, payload interface{}) *sysaction.SysAction {
	t.Helper()
	data, err := sysaction.MakeSysAction(kind, payload)
	if err != nil {
		t.Fatal(err)
	}
	sa, err := sysaction.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	return sa
}

func newOperatorState(t *testing.T) sysaction.StateDB {
	st := newTestState()
	if err := SetOperator(st, operator, true); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestHandlerClaimsTicketActions(t *testing.T) {
	h := NewHandler(params.SmallProfile, balances.NewLedger())
	for _, kind := range []sysaction.ActionKind{
		sysaction.ActionAddCode, sysaction.ActionAddCodes, sysaction.ActionResetCounters,
		sysaction.ActionDistributeStandard, sysaction.ActionDistributeTop, sysaction.ActionSetOperator,
		sysaction.ActionRegisterStandard, sysaction.ActionRegisterTop,
	} {
		if !h.CanHandle(kind) {
			t.Errorf("CanHandle(%s) = false", kind)
		}
	}
	if h.CanHandle("VALIDATOR_REGISTER") {
		t.Error("claimed a foreign action")
	}
}

func TestHandlerOperatorGate(t *testing.T) {
	st := newOperatorState(t)
	w := &writeCounter{StateDB: st}
	h := NewHandler(params.SmallProfile, balances.NewLedger())

	denied := []*sysaction.SysAction{
		mustAction(t, sysaction.ActionAddCode, CodePayload{Code: CodeToHex(code(1))}),
		mustAction(t, sysaction.ActionAddCodes, CodesPayload{Codes: CodesToHex(codeRange(1, 35))}),
		mustAction(t, sysaction.ActionResetCounters, nil),
		mustAction(t, sysaction.ActionDistributeStandard, DistributePayload{Indices: []uint64{0, 0, 0, 0, 0}}),
		mustAction(t, sysaction.ActionDistributeTop, DistributePayload{Indices: []uint64{0, 0, 0, 0, 0}}),
		mustAction(t, sysaction.ActionSetOperator, SetOperatorPayload{Address: stranger, Enabled: true}),
	}
	for _, sa := range denied {
		if err := h.Handle(newCtx(w, stranger), sa); !errors.Is(err, ErrNotOperator) {
			t.Errorf("%s by stranger: want ErrNotOperator, got %v", sa.Action, err)
		}
	}
	if w.writes != 0 {
		t.Fatalf("denied actions wrote %d slots", w.writes)
	}
}

func TestHandlerRegisterFlow(t *testing.T) {
	st := newOperatorState(t)
	h := NewHandler(params.SmallProfile, balances.NewLedger())

	add := mustAction(t, sysaction.ActionAddCode, CodePayload{Code: CodeToHex(code(11))})
	if err := h.Handle(newCtx(st, operator), add); err != nil {
		t.Fatal(err)
	}
	// Without an address the sender registers itself.
	reg := mustAction(t, sysaction.ActionRegisterTop, RegisterPayload{Code: CodeToHex(code(11))})
	if err := h.Handle(newCtx(st, stranger), reg); err != nil {
		t.Fatal(err)
	}
	if addr, ok := ReadRegistration(st, Top, 0); !ok || addr != stranger {
		t.Fatalf("top slot 0: %x %v", addr, ok)
	}
	if err := h.Handle(newCtx(st, stranger), reg); !errors.Is(err, ErrCodeInvalidOrUsed) {
		t.Fatalf("reuse: want ErrCodeInvalidOrUsed, got %v", err)
	}

	// A sender may register someone else.
	other := tAddr(0x33)
	add = mustAction(t, sysaction.ActionAddCode, CodePayload{Code: CodeToHex(code(12))})
	if err := h.Handle(newCtx(st, operator), add); err != nil {
		t.Fatal(err)
	}
	reg = mustAction(t, sysaction.ActionRegisterStandard, RegisterPayload{Code: CodeToHex(code(12)), Address: &other})
	if err := h.Handle(newCtx(st, stranger), reg); err != nil {
		t.Fatal(err)
	}
	if addr, _ := ReadRegistration(st, Standard, 0); addr != other {
		t.Fatalf("standard slot 0: %x", addr)
	}
}

func TestHandlerRejectsMalformedPayloads(t *testing.T) {
	st := newOperatorState(t)
	h := NewHandler(params.SmallProfile, balances.NewLedger())

	tests := []struct {
		name string
		data string
	}{
		{"missing code", `{"action":"TICKET_ADD_CODE","payload":{}}`},
		{"unknown field", `{"action":"TICKET_ADD_CODE","payload":{"code":"0xb","extra":1}}`},
		{"bad hex", `{"action":"TICKET_ADD_CODE","payload":{"code":"eleven"}}`},
		{"wide code", `{"action":"TICKET_ADD_CODE","payload":{"code":"0x1` + zeros(64) + `"}}`},
		{"indices type", `{"action":"TICKET_DISTRIBUTE_TOP","payload":{"indices":"1,2"}}`},
	}
	for _, tt := range tests {
		sa, err := sysaction.Decode([]byte(tt.data))
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if err := h.Handle(newCtx(st, operator), sa); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("%s: want ErrInvalidPayload, got %v", tt.name, err)
		}
	}
}

func TestHandlerDistributeAndOperators(t *testing.T) {
	st := newOperatorState(t)
	h := NewHandler(params.SmallProfile, balances.NewLedger())
	ctx := newCtx(st, operator)

	if err := h.Handle(ctx, mustAction(t, sysaction.ActionAddCodes, CodesPayload{Codes: CodesToHex(codeRange(1, 35))})); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		addr := tAddr(byte(0x50 + i))
		sa := mustAction(t, sysaction.ActionRegisterTop, RegisterPayload{Code: CodeToHex(code(uint64(i + 1))), Address: &addr})
		if err := h.Handle(newCtx(st, addr), sa); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.Handle(ctx, mustAction(t, sysaction.ActionDistributeTop, DistributePayload{Indices: []uint64{4, 3, 2, 1, 0}})); err != nil {
		t.Fatal(err)
	}
	if owner, _ := ReadClaimTokenOwner(st, 1); owner != tAddr(0x54) {
		t.Fatalf("token 1 owner: %x", owner)
	}

	// Hand over to a second operator, then retire the first.
	if err := h.Handle(ctx, mustAction(t, sysaction.ActionSetOperator, SetOperatorPayload{Address: stranger, Enabled: true})); err != nil {
		t.Fatal(err)
	}
	if err := h.Handle(newCtx(st, stranger), mustAction(t, sysaction.ActionSetOperator, SetOperatorPayload{Address: operator})); err != nil {
		t.Fatal(err)
	}
	if err := h.Handle(ctx, mustAction(t, sysaction.ActionResetCounters, nil)); !errors.Is(err, ErrNotOperator) {
		t.Fatalf("retired operator: want ErrNotOperator, got %v", err)
	}
	if err := h.Handle(newCtx(st, stranger), mustAction(t, sysaction.ActionSetOperator, SetOperatorPayload{Address: stranger})); !errors.Is(err, ErrLastOperator) {
		t.Fatalf("self removal: want ErrLastOperator, got %v", err)
	}
}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}
