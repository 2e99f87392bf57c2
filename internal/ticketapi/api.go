package ticketapi

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	lru "github.com/hashicorp/golang-lru"
	"github.com/holiman/uint256"

	"github.com/tos-network/gtickets/core/types"
	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
	"github.com/tos-network/gtickets/tickets"
)

var (
	errCodeRange  = errors.New("code exceeds 256 bits")
	errEmptyBlock = errors.New("sealed block has no receipt")
)

// TicketAPI exposes read access to the distributor state at the chain head.
type TicketAPI struct {
	b      Backend
	owners *lru.ARCCache // token id → owner, never changes once minted
}

// NewTicketAPI creates the query service. ownerCache bounds the number of
// claim token owners kept in memory.
func NewTicketAPI(b Backend, ownerCache int) (*TicketAPI, error) {
	owners, err := lru.NewARC(ownerCache)
	if err != nil {
		return nil, err
	}
	return &TicketAPI{b: b, owners: owners}, nil
}

// Profile returns the distributor profile fixed at genesis.
func (api *TicketAPI) Profile() *params.DistributorProfile {
	return api.b.Profile()
}

// BlockNumber returns the number of the head block.
func (api *TicketAPI) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(api.b.CurrentBlock().Number)
}

// CodeStatus reports whether code is unknown, valid or used.
func (api *TicketAPI) CodeStatus(_ context.Context, code hexutil.Big) (string, error) {
	c, overflow := uint256.FromBig((*big.Int)(&code))
	if overflow {
		return "", errCodeRange
	}
	db, err := api.b.State()
	if err != nil {
		return "", err
	}
	return tickets.ReadCodeStatus(db, c).String(), nil
}

// Counter returns the number of registrations in tier since the last reset.
func (api *TicketAPI) Counter(_ context.Context, tier string) (hexutil.Uint64, error) {
	t, err := tickets.ParseTier(tier)
	if err != nil {
		return 0, err
	}
	db, err := api.b.State()
	if err != nil {
		return 0, err
	}
	return hexutil.Uint64(tickets.ReadCounter(db, t)), nil
}

// Registration returns the registrant stored at index of tier, or null if the
// slot was never written.
func (api *TicketAPI) Registration(_ context.Context, tier string, index hexutil.Uint64) (*common.Address, error) {
	t, err := tickets.ParseTier(tier)
	if err != nil {
		return nil, err
	}
	db, err := api.b.State()
	if err != nil {
		return nil, err
	}
	addr, ok := tickets.ReadRegistration(db, t, uint64(index))
	if !ok {
		return nil, nil
	}
	return &addr, nil
}

// Registrations returns the registrants of tier below its counter.
func (api *TicketAPI) Registrations(_ context.Context, tier string) ([]common.Address, error) {
	t, err := tickets.ParseTier(tier)
	if err != nil {
		return nil, err
	}
	db, err := api.b.State()
	if err != nil {
		return nil, err
	}
	return tickets.ReadRegistrations(db, t), nil
}

// ClaimTokenCount returns the highest claim token id issued so far.
func (api *TicketAPI) ClaimTokenCount(_ context.Context) (hexutil.Uint64, error) {
	db, err := api.b.State()
	if err != nil {
		return 0, err
	}
	return hexutil.Uint64(tickets.ReadClaimTokenCount(db)), nil
}

// ClaimTokenOwner returns the owner of a claim token, or null if the id has
// not been issued.
func (api *TicketAPI) ClaimTokenOwner(_ context.Context, id hexutil.Uint64) (*common.Address, error) {
	if cached, ok := api.owners.Get(uint64(id)); ok {
		owner := cached.(common.Address)
		return &owner, nil
	}
	db, err := api.b.State()
	if err != nil {
		return nil, err
	}
	owner, ok := tickets.ReadClaimTokenOwner(db, uint64(id))
	if !ok {
		return nil, nil
	}
	api.owners.Add(uint64(id), owner)
	return &owner, nil
}

// Balance returns the units of asset assetID held by addr.
func (api *TicketAPI) Balance(_ context.Context, assetID hexutil.Uint64, addr common.Address) (*hexutil.Big, error) {
	db, err := api.b.State()
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(api.b.Minter().BalanceOf(db, uint64(assetID), addr).ToBig()), nil
}

// IsOperator reports whether addr may run operator actions.
func (api *TicketAPI) IsOperator(_ context.Context, addr common.Address) (bool, error) {
	db, err := api.b.State()
	if err != nil {
		return false, err
	}
	return tickets.IsOperator(db, addr), nil
}

// Receipts returns the receipts of the block with the given number.
func (api *TicketAPI) Receipts(_ context.Context, number hexutil.Uint64) types.Receipts {
	return api.b.GetReceiptsByNumber(uint64(number))
}

// SendActionArgs is the argument of tickets_sendAction.
type SendActionArgs struct {
	From    common.Address       `json:"from"`
	Action  sysaction.ActionKind `json:"action"`
	Payload json.RawMessage      `json:"payload,omitempty"`
}

// DevAPI submits unsigned system actions on a development node. Every call
// seals a block holding that single transaction.
type DevAPI struct {
	b Backend
}

// NewDevAPI creates the development transaction service.
func NewDevAPI(b Backend) *DevAPI {
	return &DevAPI{b: b}
}

// SendAction applies the action on behalf of args.From and returns its receipt.
// A reverted action is reported through the receipt status, not as an error.
func (api *DevAPI) SendAction(_ context.Context, args SendActionArgs) (*types.Receipt, error) {
	data, err := sysaction.Encode(&sysaction.SysAction{Action: args.Action, Payload: args.Payload})
	if err != nil {
		return nil, err
	}
	_, receipts, err := api.b.InsertBlock([]*types.Transaction{types.NewTransaction(args.From, data)})
	if err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		return nil, errEmptyBlock
	}
	return receipts[0], nil
}
