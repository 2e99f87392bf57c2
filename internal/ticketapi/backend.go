// Package ticketapi implements the tickets_* RPC namespace of the ticket node.
package ticketapi

import (
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/tos-network/gtickets/balances"
	"github.com/tos-network/gtickets/core/types"
	"github.com/tos-network/gtickets/params"
)

// Backend is the chain access the API needs. *core.BlockChain implements it.
type Backend interface {
	Profile() *params.DistributorProfile
	Minter() *balances.Ledger
	CurrentBlock() *types.Block
	State() (*state.StateDB, error)
	GetReceiptsByNumber(number uint64) types.Receipts
	InsertBlock(txs []*types.Transaction) (*types.Block, types.Receipts, error)
}

// Config tunes the API services.
type Config struct {
	OwnerCacheSize int  // claim token owners kept in memory
	Dev            bool // expose tickets_sendAction
}

// DefaultConfig is the API configuration used when none is given.
var DefaultConfig = Config{
	OwnerCacheSize: 1024,
}

// APIs returns the services of the tickets namespace.
func APIs(b Backend, cfg Config) ([]rpc.API, error) {
	query, err := NewTicketAPI(b, cfg.OwnerCacheSize)
	if err != nil {
		return nil, err
	}
	apis := []rpc.API{{
		Namespace: "tickets",
		Version:   "1.0",
		Service:   query,
	}}
	if cfg.Dev {
		apis = append(apis, rpc.API{
			Namespace: "tickets",
			Version:   "1.0",
			Service:   NewDevAPI(b),
		})
	}
	return apis, nil
}
