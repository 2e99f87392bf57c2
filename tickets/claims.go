package tickets

import (
	"fmt"
	"math"

	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
)

// ClaimLedger issues sequentially numbered claim tokens and records their
// owners. Token ids start at 1 and are never reused.
type ClaimLedger struct {
	db     sysaction.StateDB
	minter Minter
}

// NewClaimLedger returns a ledger crediting minted tokens through minter.
func NewClaimLedger(db sysaction.StateDB, minter Minter) *ClaimLedger {
	return &ClaimLedger{db: db, minter: minter}
}

// Count returns the highest token id assigned so far.
func (l *ClaimLedger) Count() uint64 { return ReadClaimTokenCount(l.db) }

// OwnerOf returns the owner recorded for tokenID.
func (l *ClaimLedger) OwnerOf(tokenID uint64) (common.Address, bool) {
	return ReadClaimTokenOwner(l.db, tokenID)
}

// MintTo assigns the next token id to addr and credits one unit of that asset
// through the minter. Minting twice to the same address yields two tokens.
func (l *ClaimLedger) MintTo(addr common.Address) (uint64, error) {
	count := l.Count()
	if count == math.MaxUint64 {
		return 0, ErrTokenIDOverflow
	}
	tokenID := count + 1
	amount := new(uint256.Int).SetUint64(params.ClaimTokenAmount)
	if err := l.minter.Mint(l.db, tokenID, addr, amount); err != nil {
		return 0, fmt.Errorf("tickets: mint claim token %d: %w", tokenID, err)
	}
	writeUint64(l.db, claimTokenCountSlot, tokenID)
	writeAddress(l.db, claimTokenOwnerSlot(tokenID), addr)
	return tokenID, nil
}

// Distribute mints one claim token to the registrant at each index of pool,
// in list order, and returns the new token ids. Every index is resolved
// before the first mint. Repeated indices are honoured: the registrant
// receives one token per occurrence.
func (l *ClaimLedger) Distribute(pool *TierPool, indices []uint64) ([]uint64, error) {
	winners := make([]common.Address, len(indices))
	for i, index := range indices {
		addr, ok := pool.RegistrantAt(index)
		if !ok {
			return nil, fmt.Errorf("%w: %s tier index %d", ErrUnknownRegistration, pool.Tier(), index)
		}
		winners[i] = addr
	}
	if dups := duplicateIndices(indices); len(dups) > 0 {
		log.Warn("Claim distribution repeats registrant indices", "tier", pool.Tier(), "indices", dups)
	}
	ids := make([]uint64, 0, len(winners))
	for _, winner := range winners {
		id, err := l.MintTo(winner)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func duplicateIndices(indices []uint64) []uint64 {
	seen := mapset.NewThreadUnsafeSet()
	var dups []uint64
	for _, index := range indices {
		if !seen.Add(index) {
			dups = append(dups, index)
		}
	}
	return dups
}
