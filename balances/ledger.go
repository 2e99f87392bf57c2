// Package balances implements the minting primitive used by the ticket
// distributor: unit balances keyed by (asset id, address), stored as 32-byte
// words under params.ClaimBalancesAddress.
package balances

import (
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
)

var (
	ErrZeroAmount = errors.New("balances: mint amount must be positive")
	ErrOverflow   = errors.New("balances: balance overflows 256 bits")
)

// balanceSlot hashes ("balance" || 0x00 || assetID[8B] || addr[20B]).
func balanceSlot(assetID uint64, addr common.Address) common.Hash {
	var id [8]byte
	binary.BigEndian.PutUint64(id[:], assetID)
	key := make([]byte, 0, len("balance")+1+8+common.AddressLength)
	key = append(key, "balance"...)
	key = append(key, 0x00)
	key = append(key, id[:]...)
	key = append(key, addr.Bytes()...)
	return crypto.Keccak256Hash(key)
}

// supplySlot hashes ("supply" || 0x00 || assetID[8B]).
func supplySlot(assetID uint64) common.Hash {
	var id [8]byte
	binary.BigEndian.PutUint64(id[:], assetID)
	key := make([]byte, 0, len("supply")+1+8)
	key = append(key, "supply"...)
	key = append(key, 0x00)
	key = append(key, id[:]...)
	return crypto.Keccak256Hash(key)
}

func readAmount(db sysaction.StateDB, owner common.Address, slot common.Hash) *uint256.Int {
	word := db.GetState(owner, slot)
	return new(uint256.Int).SetBytes(word.Bytes())
}

func writeAmount(db sysaction.StateDB, owner common.Address, slot common.Hash, v *uint256.Int) {
	db.SetState(owner, slot, common.Hash(v.Bytes32()))
}

// Ledger credits units of an asset to addresses. The zero value is not
// usable; construct with NewLedger.
type Ledger struct {
	owner common.Address
}

// NewLedger returns a ledger storing its state under params.ClaimBalancesAddress.
func NewLedger() *Ledger {
	return &Ledger{owner: params.ClaimBalancesAddress}
}

// Mint credits amount units of assetID to addr and grows the asset supply.
// Nothing is written unless both the balance and the supply can absorb the
// amount.
func (l *Ledger) Mint(db sysaction.StateDB, assetID uint64, to common.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	bal := readAmount(db, l.owner, balanceSlot(assetID, to))
	supply := readAmount(db, l.owner, supplySlot(assetID))

	newBal := new(uint256.Int).Add(bal, amount)
	newSupply := new(uint256.Int).Add(supply, amount)
	if newBal.Lt(bal) || newSupply.Lt(supply) {
		return ErrOverflow
	}
	writeAmount(db, l.owner, balanceSlot(assetID, to), newBal)
	writeAmount(db, l.owner, supplySlot(assetID), newSupply)

	log.Trace("balances: minted", "asset", assetID, "to", to, "amount", amount, "supply", newSupply)
	return nil
}

// BalanceOf returns the units of assetID held by addr.
func (l *Ledger) BalanceOf(db sysaction.StateDB, assetID uint64, addr common.Address) *uint256.Int {
	return readAmount(db, l.owner, balanceSlot(assetID, addr))
}

// SupplyOf returns the total units of assetID ever minted.
func (l *Ledger) SupplyOf(db sysaction.StateDB, assetID uint64) *uint256.Int {
	return readAmount(db, l.owner, supplySlot(assetID))
}
