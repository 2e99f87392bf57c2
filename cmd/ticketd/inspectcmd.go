package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/gtickets/core"
	"github.com/tos-network/gtickets/tickets"
)

var inspectCommand = &cli.Command{
	Action:    inspect,
	Name:      "inspect",
	Usage:     "Print the distributor state at the head block",
	ArgsUsage: " ",
	Description: `
The inspect command prints the profile, both registration pools and the
issued claim tokens as tables.`,
}

func inspect(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	db, bc := openChain(&cfg, true)
	defer db.Close()
	return writeInspection(os.Stdout, bc)
}

func writeInspection(w io.Writer, bc *core.BlockChain) error {
	statedb, err := bc.State()
	if err != nil {
		return err
	}
	profile := bc.Profile()
	head := bc.CurrentBlock()
	fmt.Fprintf(w, "Head block #%d (%x)\n\n", head.Number, head.Hash())

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Profile", "Tier", "Capacity", "Counter", "Claims per draw"})
	for _, tier := range []tickets.Tier{tickets.Standard, tickets.Top} {
		capacity, claims := profile.StandardCapacity, profile.StandardClaims
		if tier == tickets.Top {
			capacity, claims = profile.TopCapacity, profile.TopClaims
		}
		table.Append([]string{
			profile.Name,
			tier.String(),
			strconv.FormatUint(capacity, 10),
			strconv.FormatUint(tickets.ReadCounter(statedb, tier), 10),
			strconv.Itoa(claims),
		})
	}
	table.Render()

	fmt.Fprintln(w)
	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{"Tier", "Index", "Registrant"})
	for _, tier := range []tickets.Tier{tickets.Standard, tickets.Top} {
		for i, addr := range tickets.ReadRegistrations(statedb, tier) {
			table.Append([]string{tier.String(), strconv.Itoa(i), addr.Hex()})
		}
	}
	table.Render()

	fmt.Fprintln(w)
	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{"Token", "Owner", "Balance"})
	count := tickets.ReadClaimTokenCount(statedb)
	for id := uint64(1); id <= count; id++ {
		owner, _ := tickets.ReadClaimTokenOwner(statedb, id)
		balance := bc.Minter().BalanceOf(statedb, id, owner)
		table.Append([]string{strconv.FormatUint(id, 10), owner.Hex(), balance.ToBig().String()})
	}
	table.Render()
	return nil
}
