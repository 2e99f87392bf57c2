package tickets

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
)

// Storage layout under params.TicketDistributorAddress. Every slot is
// keccak256("tickets" || 0x00 || field || 0x00 || key).
//
//	validCodes[code]            -> status word (0 unknown, 1 valid, 2 used)
//	registrations[tier][index]  -> address word
//	counter[tier]               -> uint64
//	claimTokenCount             -> uint64
//	claimTokenOwners[tokenId]   -> address word
//	operators[address]          -> bool
//	operatorCount               -> uint64
//
// Address words carry a presence marker in byte 0 so that a slot holding the
// zero address is distinguishable from a slot never written.

func distributorSlot(field string, key []byte) common.Hash {
	buf := make([]byte, 0, len("tickets")+1+len(field)+1+len(key))
	buf = append(buf, "tickets"...)
	buf = append(buf, 0x00)
	buf = append(buf, field...)
	buf = append(buf, 0x00)
	buf = append(buf, key...)
	return crypto.Keccak256Hash(buf)
}

func u64Key(n uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return b[:]
}

func codeSlot(code *uint256.Int) common.Hash {
	b := code.Bytes32()
	return distributorSlot("validCodes", b[:])
}

func registrationSlot(tier Tier, index uint64) common.Hash {
	return distributorSlot("registrations", append([]byte{byte(tier)}, u64Key(index)...))
}

func counterSlot(tier Tier) common.Hash {
	return distributorSlot("counter", []byte{byte(tier)})
}

var (
	claimTokenCountSlot = distributorSlot("claimTokenCount", nil)
	operatorCountSlot   = distributorSlot("operatorCount", nil)
)

func claimTokenOwnerSlot(tokenID uint64) common.Hash {
	return distributorSlot("claimTokenOwners", u64Key(tokenID))
}

func operatorSlot(addr common.Address) common.Hash {
	return distributorSlot("operators", addr.Bytes())
}

// --- word codecs ---

const addressPresent = 0x01

func readUint64(db sysaction.StateDB, slot common.Hash) uint64 {
	raw := db.GetState(params.TicketDistributorAddress, slot)
	return binary.BigEndian.Uint64(raw[24:])
}

func writeUint64(db sysaction.StateDB, slot common.Hash, n uint64) {
	var word common.Hash
	binary.BigEndian.PutUint64(word[24:], n) // right-aligned in 32 bytes
	db.SetState(params.TicketDistributorAddress, slot, word)
}

func readAddress(db sysaction.StateDB, slot common.Hash) (common.Address, bool) {
	raw := db.GetState(params.TicketDistributorAddress, slot)
	if raw[0] != addressPresent {
		return common.Address{}, false
	}
	return common.BytesToAddress(raw[12:]), true // address is right-aligned
}

func writeAddress(db sysaction.StateDB, slot common.Hash, addr common.Address) {
	var word common.Hash
	word[0] = addressPresent
	copy(word[12:], addr.Bytes())
	db.SetState(params.TicketDistributorAddress, slot, word)
}

func readBool(db sysaction.StateDB, slot common.Hash) bool {
	return db.GetState(params.TicketDistributorAddress, slot)[31] != 0
}

func writeBool(db sysaction.StateDB, slot common.Hash, v bool) {
	var word common.Hash
	if v {
		word[31] = 1
	}
	db.SetState(params.TicketDistributorAddress, slot, word)
}

// --- exported readers ---

// ReadCodeStatus reports whether code is unknown, valid or used.
func ReadCodeStatus(db sysaction.StateDB, code *uint256.Int) CodeStatus {
	raw := db.GetState(params.TicketDistributorAddress, codeSlot(code))
	return CodeStatus(raw[31])
}

// ReadCounter returns the registration counter of tier.
func ReadCounter(db sysaction.StateDB, tier Tier) uint64 {
	return readUint64(db, counterSlot(tier))
}

// ReadRegistration returns the address registered at index of tier. ok is
// false if the slot was never written. After a counter reset, slots at or
// above the counter still return their previous registrant.
func ReadRegistration(db sysaction.StateDB, tier Tier, index uint64) (common.Address, bool) {
	return readAddress(db, registrationSlot(tier, index))
}

// ReadRegistrations returns the registrants of tier at indices below the
// current counter, in slot order.
func ReadRegistrations(db sysaction.StateDB, tier Tier) []common.Address {
	n := ReadCounter(db, tier)
	out := make([]common.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		addr, _ := ReadRegistration(db, tier, i)
		out = append(out, addr)
	}
	return out
}

// ReadClaimTokenCount returns the highest claim token id minted so far.
func ReadClaimTokenCount(db sysaction.StateDB) uint64 {
	return readUint64(db, claimTokenCountSlot)
}

// ReadClaimTokenOwner returns the owner recorded for tokenID at mint time.
func ReadClaimTokenOwner(db sysaction.StateDB, tokenID uint64) (common.Address, bool) {
	return readAddress(db, claimTokenOwnerSlot(tokenID))
}

// IsOperator reports whether addr may run operator actions.
func IsOperator(db sysaction.StateDB, addr common.Address) bool {
	return readBool(db, operatorSlot(addr))
}

// ReadOperatorCount returns the number of enabled operators.
func ReadOperatorCount(db sysaction.StateDB) uint64 {
	return readUint64(db, operatorCountSlot)
}
