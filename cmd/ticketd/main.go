// ticketd is the command-line client of the tiered ticket distributor.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/gtickets/cmd/utils"
	"github.com/tos-network/gtickets/internal/debug"
	"github.com/tos-network/gtickets/internal/flags"
)

const (
	clientIdentifier = "ticketd" // Client identifier to advertise over the network
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = flags.NewApp(gitCommit, gitDate, "the tiered ticket distributor command line interface")
)

func init() {
	app.Flags = flags.Merge(utils.NodeFlags, utils.MetricsFlags, debug.Flags)
	app.Commands = []*cli.Command{
		initCommand,
		serveCommand,
		execCommand,
		inspectCommand,
		dumpConfigCommand,
		versionCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		if err := debug.Setup(ctx); err != nil {
			return err
		}
		utils.SetupMetrics(ctx)
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
