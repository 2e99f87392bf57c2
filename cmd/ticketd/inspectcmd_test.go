package main

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tos-network/gtickets/core"
	"github.com/tos-network/gtickets/core/types"
	"github.com/tos-network/gtickets/sysaction"
	"github.com/tos-network/gtickets/tickets"
)

func TestWriteInspection(t *testing.T) {
	operator := common.HexToAddress("0x1000000000000000000000000000000000000001")
	user := common.HexToAddress("0x2000000000000000000000000000000000000002")
	bc, err := core.NewBlockChain(rawdb.NewMemoryDatabase(), core.DefaultGenesis(operator))
	require.NoError(t, err)

	codes, err := parseCodes([]string{"1"})
	require.NoError(t, err)
	var txs []*types.Transaction
	for _, a := range []struct {
		from    common.Address
		kind    sysaction.ActionKind
		payload interface{}
	}{
		{operator, sysaction.ActionAddCode, tickets.CodePayload{Code: tickets.CodeToHex(codes[0])}},
		{user, sysaction.ActionRegisterTop, tickets.RegisterPayload{Code: tickets.CodeToHex(codes[0])}},
		{operator, sysaction.ActionDistributeTop, tickets.DistributePayload{Indices: []uint64{0, 0, 0, 0, 0}}},
	} {
		data, err := sysaction.MakeSysAction(a.kind, a.payload)
		require.NoError(t, err)
		txs = append(txs, types.NewTransaction(a.from, data))
	}
	_, receipts, err := bc.InsertBlock(txs)
	require.NoError(t, err)
	for _, r := range receipts {
		require.False(t, r.Failed(), r.Error)
	}

	var buf bytes.Buffer
	require.NoError(t, writeInspection(&buf, bc))
	out := buf.String()
	assert.Contains(t, out, "Head block #1")
	assert.Contains(t, out, user.Hex())
	assert.Contains(t, out, "PROFILE")
}
