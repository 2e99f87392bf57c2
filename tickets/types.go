// Package tickets implements the tiered ticket distributor: single-use access
// codes, two capacity-bounded registration pools (standard and top) and claim
// tokens minted to registrants picked by an operator.
//
// Every region lives in storage slots under params.TicketDistributorAddress.
// Operations validate before they write, but they rely on the host to revert
// a failed transaction; nothing here undoes partial writes.
package tickets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/tos-network/gtickets/sysaction"
)

// Tier identifies one of the two registration pools.
type Tier uint8

const (
	Standard Tier = 0
	Top      Tier = 1
)

func (t Tier) String() string {
	switch t {
	case Standard:
		return "standard"
	case Top:
		return "top"
	}
	return fmt.Sprintf("tier(%d)", uint8(t))
}

// ParseTier maps a tier name onto a Tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "std":
		return Standard, nil
	case "top":
		return Top, nil
	}
	return 0, fmt.Errorf("tickets: unknown tier %q", s)
}

// CodeStatus is the lifecycle state of an access code.
type CodeStatus uint8

const (
	// CodeUnknown means the code was never added.
	CodeUnknown CodeStatus = 0
	// CodeValid means the code was added and not consumed since.
	CodeValid CodeStatus = 1
	// CodeUsed means the code was consumed by a registration.
	CodeUsed CodeStatus = 2
)

func (s CodeStatus) String() string {
	switch s {
	case CodeUnknown:
		return "unknown"
	case CodeValid:
		return "valid"
	case CodeUsed:
		return "used"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Minter is the minting primitive claim tokens are credited through.
type Minter interface {
	Mint(db sysaction.StateDB, assetID uint64, to common.Address, amount *uint256.Int) error
}

// Sentinel errors returned by distributor operations.
var (
	ErrCodeInvalidOrUsed   = errors.New("tickets: code is invalid or has already been used")
	ErrTierFull            = errors.New("tickets: tier is full")
	ErrUnknownRegistration = errors.New("tickets: no registration at index")
	ErrBatchSize           = errors.New("tickets: unexpected batch length")
	ErrIndexOutOfRange     = errors.New("tickets: index exceeds payload width")
	ErrTokenIDOverflow     = errors.New("tickets: claim token id overflow")
	ErrNotOperator         = errors.New("tickets: sender is not an operator")
	ErrLastOperator        = errors.New("tickets: cannot remove the last operator")
	ErrInvalidPayload      = errors.New("tickets: invalid payload")
)
