package core

import "github.com/ethereum/go-ethereum/metrics"

var (
	blockInsertTimer = metrics.NewRegisteredTimer("chain/inserts", nil)
	txAppliedMeter   = metrics.NewRegisteredMeter("chain/txs/applied", nil)
	txRevertedMeter  = metrics.NewRegisteredMeter("chain/txs/reverted", nil)
)
