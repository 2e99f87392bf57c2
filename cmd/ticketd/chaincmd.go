package main

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/gtickets/cmd/utils"
	"github.com/tos-network/gtickets/core"
	"github.com/tos-network/gtickets/internal/ticketapi"
	"github.com/tos-network/gtickets/params"
)

var (
	initCommand = &cli.Command{
		Action:    initGenesis,
		Name:      "init",
		Usage:     "Bootstrap and initialize a new ticket database",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			utils.ProfileFlag,
			utils.OperatorFlag,
		},
		Description: `
The init command writes the genesis state: the distributor profile and the
initial operator set. Both are fixed for the lifetime of the database.`,
	}
	serveCommand = &cli.Command{
		Action:    serve,
		Name:      "serve",
		Usage:     "Serve the tickets JSON-RPC API over HTTP",
		ArgsUsage: " ",
		Flags:     utils.RPCFlags,
		Description: `
The serve command opens the database and answers tickets_* requests until
interrupted. With --dev, tickets_sendAction seals one block per call.`,
	}
)

// initGenesis will initialise the given database with the genesis profile
// and operators.
func initGenesis(ctx *cli.Context) error {
	operators, err := utils.MakeOperators(ctx)
	if err != nil {
		return err
	}
	profile, err := params.NormalizeProfileName(ctx.String(utils.ProfileFlag.Name))
	if err != nil {
		return err
	}
	genesis := &core.Genesis{Profile: profile, Operators: operators}

	cfg := makeConfig(ctx)
	db, err := utils.OpenDatabase(&cfg.Node, false)
	if err != nil {
		utils.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := core.SetupGenesis(db, genesis); err != nil {
		utils.Fatalf("Failed to write genesis: %v", err)
	}
	log.Info("Successfully wrote genesis state", "profile", profile, "operators", len(operators), "datadir", cfg.Node.DataDir)
	return nil
}

// openChain opens the database and the chain stored in it. The caller closes
// the returned database.
func openChain(cfg *ticketdConfig, readonly bool) (ethdb.Database, *core.BlockChain) {
	db, err := utils.OpenDatabase(&cfg.Node, readonly)
	if err != nil {
		utils.Fatalf("Failed to open database: %v", err)
	}
	bc, err := core.NewBlockChain(db, nil)
	if err != nil {
		db.Close()
		utils.Fatalf("Failed to load chain: %v", err)
	}
	return db, bc
}

// newCorsHandler wraps srv with a CORS policy for the given origins.
func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	// disable CORS support if user has not specified a custom CORS configuration
	if len(allowedOrigins) == 0 {
		return srv
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(srv)
}

// newRPCServer registers the tickets services on a fresh RPC server.
func newRPCServer(bc *core.BlockChain, cfg ticketapi.Config) (*rpc.Server, error) {
	apis, err := ticketapi.APIs(bc, cfg)
	if err != nil {
		return nil, err
	}
	srv := rpc.NewServer()
	for _, api := range apis {
		if err := srv.RegisterName(api.Namespace, api.Service); err != nil {
			return nil, err
		}
	}
	return srv, nil
}

// serve is the serve command.
func serve(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	db, bc := openChain(&cfg, false)
	defer db.Close()

	srv, err := newRPCServer(bc, cfg.Tickets)
	if err != nil {
		return err
	}
	defer srv.Stop()

	listener, err := net.Listen("tcp", cfg.Node.HTTPEndpoint())
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Handler:           newCorsHandler(srv, cfg.Node.HTTPCors),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "err", err)
		}
	}()
	log.Info("HTTP server started", "endpoint", "http://"+listener.Addr().String(), "cors", cfg.Node.HTTPCors, "dev", cfg.Tickets.Dev)

	utils.WaitForInterrupt()
	return httpSrv.Close()
}
