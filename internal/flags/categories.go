package flags

import "github.com/urfave/cli/v2"

const (
	TicketsCategory = "TICKETS"
	DevCategory     = "DEVELOPER CHAIN"
	PerfCategory    = "PERFORMANCE TUNING"
	APICategory     = "API"
	LoggingCategory = "LOGGING AND DEBUGGING"
	MetricsCategory = "METRICS AND STATS"
	MiscCategory    = "MISC"
)

func init() {
	cli.HelpFlag.(*cli.BoolFlag).Category = MiscCategory
	cli.VersionFlag.(*cli.BoolFlag).Category = MiscCategory
}
