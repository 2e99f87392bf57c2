package core

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/tos-network/gtickets/core/rawdb"
	"github.com/tos-network/gtickets/core/types"
	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/tickets"
)

var (
	errGenesisNoOperators = errors.New("genesis has no operators")
	errNoGenesis          = errors.New("database is not initialised, run init first")
)

// GenesisMismatchError is raised when trying to overwrite an existing
// genesis with an incompatible one.
type GenesisMismatchError struct {
	Stored, New string
}

func (e *GenesisMismatchError) Error() string {
	return fmt.Sprintf("database contains incompatible genesis (have %s, new %s)", e.Stored, e.New)
}

// Genesis specifies the distributor profile and the initial operator set.
// Both are fixed for the lifetime of the database.
type Genesis struct {
	Profile   string           `json:"profile"`
	Operators []common.Address `json:"operators"`
}

// DefaultGenesis returns a small-profile genesis operated by operator.
func DefaultGenesis(operator common.Address) *Genesis {
	return &Genesis{Profile: params.SmallProfileName, Operators: []common.Address{operator}}
}

// DistributorProfile resolves the genesis profile name.
func (g *Genesis) DistributorProfile() (*params.DistributorProfile, error) {
	return params.ProfileByName(g.Profile)
}

func (g *Genesis) validate() error {
	if _, err := g.DistributorProfile(); err != nil {
		return err
	}
	if len(g.Operators) == 0 {
		return errGenesisNoOperators
	}
	return nil
}

// ToBlock builds the genesis state in statedb and returns block 0 carrying
// its root.
func (g *Genesis) ToBlock(statedb *state.StateDB) (*types.Block, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	for _, op := range g.Operators {
		if err := tickets.SetOperator(statedb, op, true); err != nil {
			return nil, err
		}
	}
	root := statedb.IntermediateRoot(false)
	return types.NewBlock(0, common.Hash{}, root, nil), nil
}

// Commit writes the genesis state, block 0 and the genesis itself to db.
func (g *Genesis) Commit(db ethdb.Database) (*types.Block, error) {
	sdb := state.NewDatabase(db)
	statedb, err := state.New(common.Hash{}, sdb, nil)
	if err != nil {
		return nil, err
	}
	block, err := g.ToBlock(statedb)
	if err != nil {
		return nil, err
	}
	root, err := statedb.Commit(false)
	if err != nil {
		return nil, err
	}
	if err := sdb.TrieDB().Commit(root, false, nil); err != nil {
		return nil, err
	}
	enc, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	rawdb.WriteGenesis(db, enc)
	rawdb.WriteBlock(db, block)
	rawdb.WriteReceipts(db, 0, nil)
	rawdb.WriteHeadBlockNumber(db, 0)
	return block, nil
}

// SetupGenesis writes genesis if db is empty and returns the genesis the
// database runs under. A nil genesis accepts whatever is stored. A non-nil
// genesis that differs from the stored one is rejected.
func SetupGenesis(db ethdb.Database, genesis *Genesis) (*Genesis, error) {
	stored := rawdb.ReadGenesis(db)
	if len(stored) == 0 {
		if genesis == nil {
			return nil, errNoGenesis
		}
		log.Info("Writing genesis", "profile", genesis.Profile, "operators", len(genesis.Operators))
		if _, err := genesis.Commit(db); err != nil {
			return nil, err
		}
		return genesis, nil
	}
	var have Genesis
	if err := json.Unmarshal(stored, &have); err != nil {
		return nil, fmt.Errorf("corrupt stored genesis: %v", err)
	}
	if genesis != nil {
		enc, err := json.Marshal(genesis)
		if err != nil {
			return nil, err
		}
		if string(enc) != string(stored) {
			return nil, &GenesisMismatchError{Stored: string(stored), New: string(enc)}
		}
	}
	return &have, nil
}
