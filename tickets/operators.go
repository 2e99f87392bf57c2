package tickets

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/tos-network/gtickets/sysaction"
)

// SetOperator enables or disables addr as an operator and keeps the operator
// count in step. Removing the only remaining operator fails with
// ErrLastOperator, since nobody could run operator actions afterwards.
func SetOperator(db sysaction.StateDB, addr common.Address, enabled bool) error {
	current := IsOperator(db, addr)
	if current == enabled {
		return nil
	}
	count := ReadOperatorCount(db)
	if enabled {
		writeBool(db, operatorSlot(addr), true)
		writeUint64(db, operatorCountSlot, count+1)
		return nil
	}
	if count <= 1 {
		return ErrLastOperator
	}
	writeBool(db, operatorSlot(addr), false)
	writeUint64(db, operatorCountSlot, count-1)
	return nil
}
