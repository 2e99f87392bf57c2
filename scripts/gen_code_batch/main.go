package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/holiman/uint256"

	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
	"github.com/tos-network/gtickets/tickets"
)

// randomCode returns a uniformly random 64-bit access code.
func randomCode() (*uint256.Int, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(buf[:]), nil
}

func main() {
	name := ""
	if len(os.Args) >= 2 {
		name = os.Args[1]
	}
	profile, err := params.ProfileByName(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, "usage: gen_code_batch [small|large]:", err)
		os.Exit(1)
	}

	codes := make([]*uint256.Int, profile.CodeBatchSize)
	for i := range codes {
		if codes[i], err = randomCode(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	data, err := sysaction.MakeSysAction(sysaction.ActionAddCodes, tickets.CodesPayload{Codes: tickets.CodesToHex(codes)})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
