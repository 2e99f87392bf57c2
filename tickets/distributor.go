package tickets

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
)

// Distributor composes the code registry, both tier pools and the claim
// ledger over one state handle. It holds no state of its own and is built
// per transaction.
type Distributor struct {
	profile  *params.DistributorProfile
	codes    *CodeRegistry
	standard *TierPool
	top      *TierPool
	claims   *ClaimLedger
}

// NewDistributor wires the components for profile over db. Claim tokens are
// credited through minter.
func NewDistributor(db sysaction.StateDB, profile *params.DistributorProfile, minter Minter) *Distributor {
	return &Distributor{
		profile:  profile,
		codes:    NewCodeRegistry(db),
		standard: NewTierPool(db, Standard, profile.StandardCapacity),
		top:      NewTierPool(db, Top, profile.TopCapacity),
		claims:   NewClaimLedger(db, minter),
	}
}

// Profile returns the deployment parameters.
func (d *Distributor) Profile() *params.DistributorProfile { return d.profile }

// Codes returns the access code registry.
func (d *Distributor) Codes() *CodeRegistry { return d.codes }

// Claims returns the claim token ledger.
func (d *Distributor) Claims() *ClaimLedger { return d.claims }

// Pool returns the pool of tier.
func (d *Distributor) Pool(tier Tier) *TierPool {
	if tier == Top {
		return d.top
	}
	return d.standard
}

// AddCode marks code valid.
func (d *Distributor) AddCode(code *uint256.Int) {
	d.codes.Add(code)
	codesAddedMeter.Mark(1)
}

// AddManyCodes marks a full batch of codes valid.
func (d *Distributor) AddManyCodes(codes []*uint256.Int) error {
	if err := d.codes.AddMany(codes, d.profile.CodeBatchSize); err != nil {
		return err
	}
	codesAddedMeter.Mark(int64(len(codes)))
	return nil
}

// ResetCounters zeroes both tier counters. Registration slots are kept.
func (d *Distributor) ResetCounters() {
	d.standard.ResetCounter()
	d.top.ResetCounter()
}

// RegisterStandardTier consumes code and registers addr in the standard pool.
func (d *Distributor) RegisterStandardTier(code *uint256.Int, addr common.Address) (uint64, error) {
	return d.register(d.standard, code, addr)
}

// RegisterTopTier consumes code and registers addr in the top pool.
func (d *Distributor) RegisterTopTier(code *uint256.Int, addr common.Address) (uint64, error) {
	return d.register(d.top, code, addr)
}

func (d *Distributor) register(pool *TierPool, code *uint256.Int, addr common.Address) (uint64, error) {
	// Validation phase (no state writes): the code is checked before capacity.
	if d.codes.Status(code) != CodeValid {
		codesRejectedMeter.Mark(1)
		return 0, ErrCodeInvalidOrUsed
	}
	if pool.Full() {
		tierFullMeter.Mark(1)
		return 0, fmt.Errorf("%w: %s tier holds %d registrations", ErrTierFull, pool.Tier(), pool.Capacity())
	}

	// Mutation phase.
	if err := d.codes.Consume(code); err != nil {
		return 0, err
	}
	index, err := pool.Register(addr)
	if err != nil {
		return 0, err
	}
	registrationsMeter.Mark(1)
	return index, nil
}

// DistributeStandardClaims mints a claim token to the standard registrant at
// each of the given indices, in order.
func (d *Distributor) DistributeStandardClaims(indices []uint64) ([]uint64, error) {
	return d.distribute(d.standard, indices, d.profile.StandardClaims)
}

// DistributeTopClaims mints a claim token to the top registrant at each of
// the given indices, in order.
func (d *Distributor) DistributeTopClaims(indices []uint64) ([]uint64, error) {
	return d.distribute(d.top, indices, d.profile.TopClaims)
}

func (d *Distributor) distribute(pool *TierPool, indices []uint64, want int) ([]uint64, error) {
	if len(indices) != want {
		return nil, fmt.Errorf("%w: have %d indices, want %d", ErrBatchSize, len(indices), want)
	}
	max := d.profile.MaxIndex()
	for _, index := range indices {
		if index > max {
			return nil, fmt.Errorf("%w: %d > %d", ErrIndexOutOfRange, index, max)
		}
	}
	ids, err := d.claims.Distribute(pool, indices)
	if err != nil {
		return nil, err
	}
	claimsMintedMeter.Mark(int64(len(ids)))
	return ids, nil
}
