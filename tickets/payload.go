package tickets

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// CodePayload is the payload of TICKET_ADD_CODE.
type CodePayload struct {
	Code *hexutil.Big `json:"code"`
}

// CodesPayload is the payload of TICKET_ADD_CODES.
type CodesPayload struct {
	Codes []*hexutil.Big `json:"codes"`
}

// RegisterPayload is the payload of TICKET_REGISTER_STANDARD and
// TICKET_REGISTER_TOP. A missing address registers the sender.
type RegisterPayload struct {
	Code    *hexutil.Big    `json:"code"`
	Address *common.Address `json:"address,omitempty"`
}

// DistributePayload is the payload of TICKET_DISTRIBUTE_STANDARD and
// TICKET_DISTRIBUTE_TOP.
type DistributePayload struct {
	Indices []uint64 `json:"indices"`
}

// SetOperatorPayload is the payload of TICKET_SET_OPERATOR.
type SetOperatorPayload struct {
	Address common.Address `json:"address"`
	Enabled bool           `json:"enabled"`
}

// CodeToHex converts a code into its payload form.
func CodeToHex(code *uint256.Int) *hexutil.Big {
	return (*hexutil.Big)(code.ToBig())
}

// CodesToHex converts a code list into its payload form.
func CodesToHex(codes []*uint256.Int) []*hexutil.Big {
	out := make([]*hexutil.Big, len(codes))
	for i, c := range codes {
		out[i] = CodeToHex(c)
	}
	return out
}

func codeFromHex(h *hexutil.Big) (*uint256.Int, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: missing code", ErrInvalidPayload)
	}
	b := (*big.Int)(h)
	if b.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative code", ErrInvalidPayload)
	}
	code, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("%w: code exceeds 256 bits", ErrInvalidPayload)
	}
	return code, nil
}

func codesFromHex(hs []*hexutil.Big) ([]*uint256.Int, error) {
	codes := make([]*uint256.Int, len(hs))
	for i, h := range hs {
		c, err := codeFromHex(h)
		if err != nil {
			return nil, fmt.Errorf("code %d: %w", i, err)
		}
		codes[i] = c
	}
	return codes, nil
}
