// Copyright 2024 The gtos Authors
// This file is part of the gtos library.
//
// The gtos library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The gtos library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the gtos library. If not, see <http://www.gnu.org/licenses/>.

package params

import (
	"github.com/ethereum/go-ethereum/common"
)

// System addresses: fixed, well-known addresses used by the distributor.
var (
	// TicketDistributorAddress owns every distributor storage region: valid
	// codes, both tier pools, their counters, claim token count and owners,
	// and the operator allow-list.
	TicketDistributorAddress = common.HexToAddress("0x00000000000000000000000000000000544B5431") // "TKT1"

	// ClaimBalancesAddress owns the minting ledger (per-asset unit balances).
	ClaimBalancesAddress = common.HexToAddress("0x00000000000000000000000000000000544B5432") // "TKT2"
)

// ClaimTokenAmount is the number of units credited for every claim token.
const ClaimTokenAmount uint64 = 1
