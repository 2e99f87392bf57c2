package tickets

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
)

// CodeRegistry tracks which access codes are currently valid.
type CodeRegistry struct {
	db sysaction.StateDB
}

// NewCodeRegistry returns a registry over db.
func NewCodeRegistry(db sysaction.StateDB) *CodeRegistry {
	return &CodeRegistry{db: db}
}

func (r *CodeRegistry) write(code *uint256.Int, s CodeStatus) {
	var word common.Hash
	word[31] = byte(s)
	r.db.SetState(params.TicketDistributorAddress, codeSlot(code), word)
}

// Add marks code valid. Re-adding a consumed code reactivates it.
func (r *CodeRegistry) Add(code *uint256.Int) {
	r.write(code, CodeValid)
}

// AddMany marks every code valid. The list must hold exactly batchSize codes;
// otherwise nothing is written.
func (r *CodeRegistry) AddMany(codes []*uint256.Int, batchSize int) error {
	if len(codes) != batchSize {
		return fmt.Errorf("%w: have %d codes, want %d", ErrBatchSize, len(codes), batchSize)
	}
	for i, c := range codes {
		if c == nil {
			return fmt.Errorf("%w: code %d missing", ErrInvalidPayload, i)
		}
	}
	for _, c := range codes {
		r.Add(c)
	}
	return nil
}

// Status reports the lifecycle state of code.
func (r *CodeRegistry) Status(code *uint256.Int) CodeStatus {
	return ReadCodeStatus(r.db, code)
}

// Consume invalidates code if it is currently valid. Unknown and already
// used codes fail with ErrCodeInvalidOrUsed and are left as they are.
func (r *CodeRegistry) Consume(code *uint256.Int) error {
	if r.Status(code) != CodeValid {
		return ErrCodeInvalidOrUsed
	}
	r.write(code, CodeUsed)
	return nil
}
