package ticketapi

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tos-network/gtickets/core"
	"github.com/tos-network/gtickets/core/types"
	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
	"github.com/tos-network/gtickets/tickets"
)

var (
	operator = common.HexToAddress("0x1000000000000000000000000000000000000001")
	alice    = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func newTestClient(t *testing.T) (*rpc.Client, *core.BlockChain) {
	t.Helper()
	bc, err := core.NewBlockChain(rawdb.NewMemoryDatabase(), core.DefaultGenesis(operator))
	require.NoError(t, err)

	apis, err := APIs(bc, Config{OwnerCacheSize: 16, Dev: true})
	require.NoError(t, err)
	server := rpc.NewServer()
	for _, api := range apis {
		require.NoError(t, server.RegisterName(api.Namespace, api.Service))
	}
	client := rpc.DialInProc(server)
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return client, bc
}

func send(t *testing.T, client *rpc.Client, from common.Address, kind sysaction.ActionKind, payload interface{}) *types.Receipt {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	var receipt types.Receipt
	require.NoError(t, client.Call(&receipt, "tickets_sendAction", SendActionArgs{From: from, Action: kind, Payload: raw}))
	return &receipt
}

func TestProfileAndOperators(t *testing.T) {
	client, _ := newTestClient(t)

	var profile params.DistributorProfile
	require.NoError(t, client.Call(&profile, "tickets_profile"))
	assert.Equal(t, *params.SmallProfile, profile)

	var isOp bool
	require.NoError(t, client.Call(&isOp, "tickets_isOperator", operator))
	assert.True(t, isOp)
	require.NoError(t, client.Call(&isOp, "tickets_isOperator", alice))
	assert.False(t, isOp)
}

func TestRegisterAndDraw(t *testing.T) {
	client, bc := newTestClient(t)
	code := new(uint256.Int).SetUint64(11)

	r := send(t, client, alice, sysaction.ActionAddCode, tickets.CodePayload{Code: tickets.CodeToHex(code)})
	assert.Equal(t, types.ReceiptStatusFailed, r.Status, "non-operator added a code")
	assert.Contains(t, r.Error, tickets.ErrNotOperator.Error())

	r = send(t, client, operator, sysaction.ActionAddCode, tickets.CodePayload{Code: tickets.CodeToHex(code)})
	require.Equal(t, types.ReceiptStatusSuccessful, r.Status, r.Error)

	var status string
	require.NoError(t, client.Call(&status, "tickets_codeStatus", tickets.CodeToHex(code)))
	assert.Equal(t, "valid", status)

	r = send(t, client, alice, sysaction.ActionRegisterTop, tickets.RegisterPayload{Code: tickets.CodeToHex(code)})
	require.Equal(t, types.ReceiptStatusSuccessful, r.Status, r.Error)

	require.NoError(t, client.Call(&status, "tickets_codeStatus", tickets.CodeToHex(code)))
	assert.Equal(t, "used", status)

	var counter hexutil.Uint64
	require.NoError(t, client.Call(&counter, "tickets_counter", "top"))
	assert.Equal(t, hexutil.Uint64(1), counter)
	require.NoError(t, client.Call(&counter, "tickets_counter", "standard"))
	assert.Equal(t, hexutil.Uint64(0), counter)

	var registrant *common.Address
	require.NoError(t, client.Call(&registrant, "tickets_registration", "top", hexutil.Uint64(0)))
	require.NotNil(t, registrant)
	assert.Equal(t, alice, *registrant)
	require.NoError(t, client.Call(&registrant, "tickets_registration", "top", hexutil.Uint64(1)))
	assert.Nil(t, registrant)

	var list []common.Address
	require.NoError(t, client.Call(&list, "tickets_registrations", "top"))
	assert.Equal(t, []common.Address{alice}, list)

	r = send(t, client, operator, sysaction.ActionDistributeTop, tickets.DistributePayload{Indices: []uint64{0, 0, 0, 0, 0}})
	require.Equal(t, types.ReceiptStatusSuccessful, r.Status, r.Error)

	var count hexutil.Uint64
	require.NoError(t, client.Call(&count, "tickets_claimTokenCount"))
	assert.Equal(t, hexutil.Uint64(5), count)

	for i := 0; i < 2; i++ { // second round is served from the cache
		var owner *common.Address
		require.NoError(t, client.Call(&owner, "tickets_claimTokenOwner", hexutil.Uint64(3)))
		require.NotNil(t, owner)
		assert.Equal(t, alice, *owner)
	}
	var missing *common.Address
	require.NoError(t, client.Call(&missing, "tickets_claimTokenOwner", hexutil.Uint64(6)))
	assert.Nil(t, missing)

	var balance hexutil.Big
	require.NoError(t, client.Call(&balance, "tickets_balance", hexutil.Uint64(5), alice))
	assert.Equal(t, int64(1), balance.ToInt().Int64())

	var number hexutil.Uint64
	require.NoError(t, client.Call(&number, "tickets_blockNumber"))
	assert.Equal(t, hexutil.Uint64(bc.CurrentBlock().Number), number)

	var receipts types.Receipts
	require.NoError(t, client.Call(&receipts, "tickets_receipts", number))
	require.Len(t, receipts, 1)
	assert.Equal(t, string(sysaction.ActionDistributeTop), receipts[0].Action)
}

func TestUnknownTier(t *testing.T) {
	client, _ := newTestClient(t)
	var counter hexutil.Uint64
	assert.Error(t, client.Call(&counter, "tickets_counter", "vip"))
}
