package tickets

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tos-network/gtickets/sysaction"
)

// TierPool is a bounded, append-only registration list with a counter.
// Slots are filled in increasing order starting at the counter value.
type TierPool struct {
	db       sysaction.StateDB
	tier     Tier
	capacity uint64
}

// NewTierPool returns the pool for tier holding at most capacity registrations.
func NewTierPool(db sysaction.StateDB, tier Tier, capacity uint64) *TierPool {
	return &TierPool{db: db, tier: tier, capacity: capacity}
}

// Tier returns the pool's tier.
func (p *TierPool) Tier() Tier { return p.tier }

// Capacity returns the maximum number of registrations between resets.
func (p *TierPool) Capacity() uint64 { return p.capacity }

// Counter returns the number of registrations since the last reset.
func (p *TierPool) Counter() uint64 { return ReadCounter(p.db, p.tier) }

// Full reports whether the next registration would be rejected.
func (p *TierPool) Full() bool { return p.Counter() >= p.capacity }

// Register writes addr at the current counter and increments it, returning
// the assigned index. A full pool fails with ErrTierFull without writing.
func (p *TierPool) Register(addr common.Address) (uint64, error) {
	index := p.Counter()
	if index >= p.capacity {
		return 0, fmt.Errorf("%w: %s tier holds %d registrations", ErrTierFull, p.tier, p.capacity)
	}
	writeAddress(p.db, registrationSlot(p.tier, index), addr)
	writeUint64(p.db, counterSlot(p.tier), index+1)
	return index, nil
}

// ResetCounter sets the counter back to zero. Registration slots keep their
// previous registrants until a later registration reuses the index.
func (p *TierPool) ResetCounter() {
	writeUint64(p.db, counterSlot(p.tier), 0)
}

// RegistrantAt returns the address stored at index, if the slot was ever written.
func (p *TierPool) RegistrantAt(index uint64) (common.Address, bool) {
	return ReadRegistration(p.db, p.tier, index)
}
