package rawdb

import (
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
)

// ReadGenesis retrieves the encoded genesis stored at initialisation.
func ReadGenesis(db ethdb.KeyValueReader) []byte {
	data, _ := db.Get(genesisKey)
	return data
}

// WriteGenesis stores the encoded genesis.
func WriteGenesis(db ethdb.KeyValueWriter, data []byte) {
	if err := db.Put(genesisKey, data); err != nil {
		log.Crit("Failed to store genesis", "err", err)
	}
}
