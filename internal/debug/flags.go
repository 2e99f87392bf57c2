// Package debug configures logging for the ticket node commands.
package debug

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/gtickets/internal/flags"
)

var (
	VerbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:    3,
		Category: flags.LoggingCategory,
	}
	VmoduleFlag = &cli.StringFlag{
		Name:     "vmodule",
		Usage:    "Per-module verbosity: comma-separated list of <pattern>=<level> (e.g. tickets/*=5,core/*=4)",
		Value:    "",
		Category: flags.LoggingCategory,
	}
	LogJSONFlag = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "Format logs with JSON",
		Category: flags.LoggingCategory,
	}
)

// Flags holds all command-line flags required for debugging.
var Flags = []cli.Flag{
	VerbosityFlag,
	VmoduleFlag,
	LogJSONFlag,
}

var glogger *log.GlogHandler

func init() {
	glogger = log.NewGlogHandler(log.StreamHandler(os.Stderr, log.TerminalFormat(false)))
	glogger.Verbosity(log.LvlInfo)
	log.Root().SetHandler(glogger)
}

// Setup initializes logging based on the CLI flags. It should be called as
// early as possible in the program.
func Setup(ctx *cli.Context) error {
	usecolor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	output := io.Writer(os.Stderr)
	format := log.TerminalFormat(usecolor)
	if usecolor {
		output = colorable.NewColorableStderr()
	}
	if ctx.Bool(LogJSONFlag.Name) {
		format = log.JSONFormat()
	}
	glogger = log.NewGlogHandler(log.StreamHandler(output, format))

	verbosity := ctx.Int(VerbosityFlag.Name)
	glogger.Verbosity(log.Lvl(verbosity))
	if err := glogger.Vmodule(ctx.String(VmoduleFlag.Name)); err != nil {
		return err
	}
	log.Root().SetHandler(glogger)
	return nil
}
