// Copyright 2015 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.


// Package utils contains internal helper functions for gtickets commands.
package utils

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ethereum/go-ethereum/metrics/exp"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/gtickets/internal/flags"
	"github.com/tos-network/gtickets/params"
)

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.
//
// The flags are defined here so their names and help texts
// are the same for all commands.

var (
	// General settings
	ConfigFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.TicketsCategory,
	}
	DataDirFlag = &cli.StringFlag{
		Name:     "datadir",
		Usage:    "Data directory for the chain database",
		Value:    DefaultDataDir(),
		Category: flags.TicketsCategory,
	}
	ProfileFlag = &cli.StringFlag{
		Name:     "profile",
		Usage:    `Distributor profile written at genesis ("small" or "large")`,
		Value:    params.SmallProfileName,
		Category: flags.TicketsCategory,
	}
	OperatorFlag = &cli.StringSliceFlag{
		Name:     "operator",
		Usage:    "Address allowed to run operator actions (repeatable)",
		Category: flags.TicketsCategory,
	}
	FromFlag = &cli.StringFlag{
		Name:     "from",
		Usage:    "Sender address of the submitted action",
		Category: flags.TicketsCategory,
	}

	// Dev mode
	DeveloperFlag = &cli.BoolFlag{
		Name:     "dev",
		Usage:    "Expose tickets_sendAction, sealing one block per call",
		Category: flags.DevCategory,
	}

	// Performance tuning settings
	CacheFlag = &cli.IntFlag{
		Name:     "cache",
		Usage:    "Megabytes of memory allocated to the database cache",
		Value:    DefaultNodeConfig.DatabaseCache,
		Category: flags.PerfCategory,
	}
	OwnerCacheFlag = &cli.IntFlag{
		Name:     "cache.owners",
		Usage:    "Number of claim token owners kept in the API cache",
		Value:    1024,
		Category: flags.PerfCategory,
	}

	// RPC settings
	HTTPListenAddrFlag = &cli.StringFlag{
		Name:     "http.addr",
		Usage:    "HTTP-RPC server listening interface",
		Value:    DefaultNodeConfig.HTTPHost,
		Category: flags.APICategory,
	}
	HTTPPortFlag = &cli.IntFlag{
		Name:     "http.port",
		Usage:    "HTTP-RPC server listening port",
		Value:    DefaultNodeConfig.HTTPPort,
		Category: flags.APICategory,
	}
	HTTPCORSDomainFlag = &cli.StringFlag{
		Name:     "http.corsdomain",
		Usage:    "Comma separated list of domains from which to accept cross origin requests (browser enforced)",
		Value:    "",
		Category: flags.APICategory,
	}

	// Metrics flags
	MetricsEnabledFlag = &cli.BoolFlag{
		Name:     "metrics",
		Usage:    "Enable metrics collection and reporting",
		Category: flags.MetricsCategory,
	}
	// MetricsHTTPFlag defines the endpoint for a stand-alone metrics HTTP endpoint.
	MetricsHTTPFlag = &cli.StringFlag{
		Name:     "metrics.addr",
		Usage:    "Enable stand-alone metrics HTTP server listening interface",
		Value:    metrics.DefaultConfig.HTTP,
		Category: flags.MetricsCategory,
	}
	MetricsPortFlag = &cli.IntFlag{
		Name:     "metrics.port",
		Usage:    "Metrics HTTP server listening port",
		Value:    metrics.DefaultConfig.Port,
		Category: flags.MetricsCategory,
	}
)

var (
	// NodeFlags is the flag group shared by every command touching the database.
	NodeFlags = []cli.Flag{
		ConfigFileFlag,
		DataDirFlag,
		CacheFlag,
	}

	// RPCFlags is the flag group of the serve command.
	RPCFlags = []cli.Flag{
		HTTPListenAddrFlag,
		HTTPPortFlag,
		HTTPCORSDomainFlag,
		OwnerCacheFlag,
		DeveloperFlag,
	}

	// MetricsFlags is the flag group of all metrics flags.
	MetricsFlags = []cli.Flag{
		MetricsEnabledFlag,
		MetricsHTTPFlag,
		MetricsPortFlag,
	}
)

// NodeConfig holds the settings of the local node.
type NodeConfig struct {
	DataDir       string
	DatabaseCache int
	HTTPHost      string
	HTTPPort      int
	HTTPCors      []string `toml:",omitempty"`
}

// DefaultNodeConfig contains reasonable default settings.
var DefaultNodeConfig = NodeConfig{
	DataDir:       DefaultDataDir(),
	DatabaseCache: 64,
	HTTPHost:      "127.0.0.1",
	HTTPPort:      8645,
}

// HTTPEndpoint resolves the HTTP endpoint based on the configured host
// interface and port parameters.
func (c *NodeConfig) HTTPEndpoint() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// ChainDataDir returns the directory of the chain database.
func (c *NodeConfig) ChainDataDir() string {
	return filepath.Join(c.DataDir, "chaindata")
}

// DefaultDataDir is the default data directory to use for the databases.
func DefaultDataDir() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "GTickets")
	case "windows":
		if appdata := os.Getenv("LOCALAPPDATA"); appdata != "" {
			return filepath.Join(appdata, "GTickets")
		}
		return filepath.Join(home, "AppData", "Local", "GTickets")
	default:
		return filepath.Join(home, ".gtickets")
	}
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// SetNodeConfig applies node-related command line flags to the config.
func SetNodeConfig(ctx *cli.Context, cfg *NodeConfig) {
	if ctx.IsSet(DataDirFlag.Name) {
		cfg.DataDir = ctx.String(DataDirFlag.Name)
	}
	if ctx.IsSet(CacheFlag.Name) {
		cfg.DatabaseCache = ctx.Int(CacheFlag.Name)
	}
	if ctx.IsSet(HTTPListenAddrFlag.Name) {
		cfg.HTTPHost = ctx.String(HTTPListenAddrFlag.Name)
	}
	if ctx.IsSet(HTTPPortFlag.Name) {
		cfg.HTTPPort = ctx.Int(HTTPPortFlag.Name)
	}
	if ctx.IsSet(HTTPCORSDomainFlag.Name) {
		cfg.HTTPCors = SplitAndTrim(ctx.String(HTTPCORSDomainFlag.Name))
	}
	if cfg.DataDir == "" {
		Fatalf("Cannot determine default data directory, please set manually (--datadir)")
	}
}

// SplitAndTrim splits input separated by a comma
// and trims excessive white space from the substrings.
func SplitAndTrim(input string) (ret []string) {
	l := strings.Split(input, ",")
	for _, r := range l {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}

// MakeAddress parses a hex address from the named flag, terminating on
// malformed input.
func MakeAddress(ctx *cli.Context, flag *cli.StringFlag) common.Address {
	s := ctx.String(flag.Name)
	if !common.IsHexAddress(s) {
		Fatalf("Option %q: invalid address %q", flag.Name, s)
	}
	return common.HexToAddress(s)
}

// MakeOperators parses the --operator addresses.
func MakeOperators(ctx *cli.Context) ([]common.Address, error) {
	var ops []common.Address
	for _, s := range ctx.StringSlice(OperatorFlag.Name) {
		for _, part := range SplitAndTrim(s) {
			if !common.IsHexAddress(part) {
				return nil, fmt.Errorf("invalid operator address %q", part)
			}
			ops = append(ops, common.HexToAddress(part))
		}
	}
	return ops, nil
}

// SetupMetrics starts the stand-alone metrics endpoint when requested.
// Collection itself is switched on by the --metrics flag before main runs.
func SetupMetrics(ctx *cli.Context) {
	if metrics.Enabled {
		log.Info("Enabling metrics collection")

		if ctx.IsSet(MetricsHTTPFlag.Name) {
			address := fmt.Sprintf("%s:%d", ctx.String(MetricsHTTPFlag.Name), ctx.Int(MetricsPortFlag.Name))
			log.Info("Enabling stand-alone metrics HTTP endpoint", "address", address)
			exp.Setup(address)
		}
	}
}
