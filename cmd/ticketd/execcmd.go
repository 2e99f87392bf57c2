package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/gtickets/cmd/utils"
	"github.com/tos-network/gtickets/core/types"
	"github.com/tos-network/gtickets/sysaction"
	"github.com/tos-network/gtickets/tickets"
)

var (
	tierFlag = &cli.StringFlag{
		Name:  "tier",
		Usage: `Registration tier ("standard" or "top")`,
		Value: "standard",
	}
	disableFlag = &cli.BoolFlag{
		Name:  "disable",
		Usage: "Remove the address from the operator set",
	}

	execCommand = &cli.Command{
		Name:  "exec",
		Usage: "Apply a system action to the local database as a one-transaction block",
		Description: `
Each exec subcommand seals a block holding one transaction sent by --from and
prints its receipt. A reverted action leaves the state untouched and exits
with an error.`,
		Subcommands: []*cli.Command{
			{
				Name:      "add-code",
				Usage:     "Mark one access code valid (operator)",
				ArgsUsage: "<code>",
				Flags:     []cli.Flag{utils.FromFlag},
				Action:    execAddCode,
			},
			{
				Name:      "add-codes",
				Usage:     "Mark a full batch of access codes valid (operator)",
				ArgsUsage: "<code|from..to>...",
				Flags:     []cli.Flag{utils.FromFlag},
				Action:    execAddCodes,
			},
			{
				Name:   "reset-counters",
				Usage:  "Zero both registration counters (operator)",
				Flags:  []cli.Flag{utils.FromFlag},
				Action: execResetCounters,
			},
			{
				Name:      "register",
				Usage:     "Consume a code and register an address in a tier",
				ArgsUsage: "<code> [address]",
				Flags:     []cli.Flag{utils.FromFlag, tierFlag},
				Action:    execRegister,
			},
			{
				Name:      "distribute",
				Usage:     "Mint claim tokens to the registrants at the given indices (operator)",
				ArgsUsage: "<index>...",
				Flags:     []cli.Flag{utils.FromFlag, tierFlag},
				Action:    execDistribute,
			},
			{
				Name:      "set-operator",
				Usage:     "Enable or disable an operator (operator)",
				ArgsUsage: "<address>",
				Flags:     []cli.Flag{utils.FromFlag, disableFlag},
				Action:    execSetOperator,
			},
		},
	}
)

var errReverted = errors.New("action reverted")

// parseCode reads a decimal or 0x-prefixed access code.
func parseCode(s string) (*uint256.Int, error) {
	b, ok := math.ParseBig256(s)
	if !ok || b.Sign() < 0 {
		return nil, fmt.Errorf("invalid code %q", s)
	}
	code, _ := uint256.FromBig(b)
	return code, nil
}

// parseCodes reads codes and inclusive from..to ranges.
func parseCodes(args []string) ([]*uint256.Int, error) {
	var codes []*uint256.Int
	for _, arg := range args {
		from, to, isRange := strings.Cut(arg, "..")
		if !isRange {
			c, err := parseCode(arg)
			if err != nil {
				return nil, err
			}
			codes = append(codes, c)
			continue
		}
		lo, err := parseCode(from)
		if err != nil {
			return nil, err
		}
		hi, err := parseCode(to)
		if err != nil {
			return nil, err
		}
		if hi.Lt(lo) {
			return nil, fmt.Errorf("empty code range %q", arg)
		}
		one := new(uint256.Int).SetUint64(1)
		for c := new(uint256.Int).Set(lo); !hi.Lt(c); c = new(uint256.Int).Add(c, one) {
			codes = append(codes, c)
			if c.Eq(hi) {
				break
			}
		}
	}
	return codes, nil
}

// parseIndices reads registrant indices.
func parseIndices(args []string) ([]uint64, error) {
	indices := make([]uint64, 0, len(args))
	for _, arg := range args {
		for _, part := range utils.SplitAndTrim(arg) {
			n, err := strconv.ParseUint(part, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid index %q", part)
			}
			indices = append(indices, n)
		}
	}
	return indices, nil
}

// submit seals a block holding one action sent by --from and prints the
// receipt.
func submit(ctx *cli.Context, kind sysaction.ActionKind, payload interface{}) error {
	if !ctx.IsSet(utils.FromFlag.Name) {
		return fmt.Errorf("missing --%s", utils.FromFlag.Name)
	}
	from := utils.MakeAddress(ctx, utils.FromFlag)
	data, err := sysaction.MakeSysAction(kind, payload)
	if err != nil {
		return err
	}
	cfg := makeConfig(ctx)
	db, bc := openChain(&cfg, false)
	defer db.Close()

	block, receipts, err := bc.InsertBlock([]*types.Transaction{types.NewTransaction(from, data)})
	if err != nil {
		return err
	}
	out, _ := json.MarshalIndent(struct {
		Block   uint64         `json:"block"`
		Receipt *types.Receipt `json:"receipt"`
	}{block.Number, receipts[0]}, "", "  ")
	fmt.Fprintln(os.Stdout, string(out))
	if receipts[0].Failed() {
		return fmt.Errorf("%w: %s", errReverted, receipts[0].Error)
	}
	return nil
}

func execAddCode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected one code")
	}
	code, err := parseCode(ctx.Args().First())
	if err != nil {
		return err
	}
	return submit(ctx, sysaction.ActionAddCode, tickets.CodePayload{Code: tickets.CodeToHex(code)})
}

func execAddCodes(ctx *cli.Context) error {
	codes, err := parseCodes(ctx.Args().Slice())
	if err != nil {
		return err
	}
	return submit(ctx, sysaction.ActionAddCodes, tickets.CodesPayload{Codes: tickets.CodesToHex(codes)})
}

func execResetCounters(ctx *cli.Context) error {
	return submit(ctx, sysaction.ActionResetCounters, nil)
}

func execRegister(ctx *cli.Context) error {
	if ctx.NArg() < 1 || ctx.NArg() > 2 {
		return errors.New("expected <code> [address]")
	}
	tier, err := tickets.ParseTier(ctx.String(tierFlag.Name))
	if err != nil {
		return err
	}
	code, err := parseCode(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	payload := tickets.RegisterPayload{Code: tickets.CodeToHex(code)}
	if ctx.NArg() == 2 {
		s := ctx.Args().Get(1)
		if !common.IsHexAddress(s) {
			return fmt.Errorf("invalid address %q", s)
		}
		addr := common.HexToAddress(s)
		payload.Address = &addr
	}
	kind := sysaction.ActionRegisterStandard
	if tier == tickets.Top {
		kind = sysaction.ActionRegisterTop
	}
	return submit(ctx, kind, payload)
}

func execDistribute(ctx *cli.Context) error {
	tier, err := tickets.ParseTier(ctx.String(tierFlag.Name))
	if err != nil {
		return err
	}
	indices, err := parseIndices(ctx.Args().Slice())
	if err != nil {
		return err
	}
	kind := sysaction.ActionDistributeStandard
	if tier == tickets.Top {
		kind = sysaction.ActionDistributeTop
	}
	return submit(ctx, kind, tickets.DistributePayload{Indices: indices})
}

func execSetOperator(ctx *cli.Context) error {
	s := ctx.Args().First()
	if ctx.NArg() != 1 || !common.IsHexAddress(s) {
		return errors.New("expected one address")
	}
	return submit(ctx, sysaction.ActionSetOperator, tickets.SetOperatorPayload{
		Address: common.HexToAddress(s),
		Enabled: !ctx.Bool(disableFlag.Name),
	})
}
