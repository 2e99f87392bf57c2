// Copyright 2016 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package params

import (
	"errors"
	"fmt"
	"strings"
)

const (
	SmallProfileName = "small"
	LargeProfileName = "large"
)

var (
	// SmallProfile is the demo deployment: 25 standard and 10 top registrations,
	// codes added in batches of 35 (one per possible registration), 5 standard
	// claims (20% of the pool) and 5 top claims (50% of the pool). Slot indices
	// fit in a single byte.
	SmallProfile = &DistributorProfile{
		Name:             SmallProfileName,
		StandardCapacity: 25,
		TopCapacity:      10,
		CodeBatchSize:    35,
		StandardClaims:   5,
		TopClaims:        5,
		IndexBits:        8,
	}

	// LargeProfile keeps the same claim ratios with 1000 standard and 400 top
	// registrations. Slot indices need 16 bits.
	LargeProfile = &DistributorProfile{
		Name:             LargeProfileName,
		StandardCapacity: 1000,
		TopCapacity:      400,
		CodeBatchSize:    100,
		StandardClaims:   200,
		TopClaims:        200,
		IndexBits:        16,
	}

	// DefaultProfile is used when a genesis does not name one.
	DefaultProfile = SmallProfile
)

var errInvalidProfile = errors.New("params: invalid distributor profile")

// DistributorProfile is the per-deployment parameter set of the ticket
// distributor. Every node of a chain must run with the same profile; it is
// fixed at genesis.
type DistributorProfile struct {
	Name             string `json:"name"`
	StandardCapacity uint64 `json:"standardCapacity"`
	TopCapacity      uint64 `json:"topCapacity"`
	CodeBatchSize    int    `json:"codeBatchSize"`
	StandardClaims   int    `json:"standardClaims"`
	TopClaims        int    `json:"topClaims"`
	IndexBits        uint8  `json:"indexBits"`
}

// MaxIndex returns the largest slot index a distribution payload may carry.
func (p *DistributorProfile) MaxIndex() uint64 {
	if p.IndexBits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << p.IndexBits) - 1
}

// Validate checks the internal consistency of the profile.
func (p *DistributorProfile) Validate() error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: missing", errInvalidProfile)
	case p.StandardCapacity == 0 || p.TopCapacity == 0:
		return fmt.Errorf("%w: zero tier capacity", errInvalidProfile)
	case p.CodeBatchSize <= 0:
		return fmt.Errorf("%w: code batch size must be positive", errInvalidProfile)
	case p.StandardClaims <= 0 || p.TopClaims <= 0:
		return fmt.Errorf("%w: claim count must be positive", errInvalidProfile)
	case uint64(p.StandardClaims) > p.StandardCapacity:
		return fmt.Errorf("%w: %d standard claims exceed capacity %d", errInvalidProfile, p.StandardClaims, p.StandardCapacity)
	case uint64(p.TopClaims) > p.TopCapacity:
		return fmt.Errorf("%w: %d top claims exceed capacity %d", errInvalidProfile, p.TopClaims, p.TopCapacity)
	case p.IndexBits == 0:
		return fmt.Errorf("%w: index width must be positive", errInvalidProfile)
	}
	// The last slot of either tier must be addressable in a payload.
	if p.StandardCapacity-1 > p.MaxIndex() || p.TopCapacity-1 > p.MaxIndex() {
		return fmt.Errorf("%w: capacity not addressable with %d-bit indices", errInvalidProfile, p.IndexBits)
	}
	return nil
}

// String implements fmt.Stringer.
func (p *DistributorProfile) String() string {
	return fmt.Sprintf("{Name: %s Standard: %d Top: %d Batch: %d Claims: %d/%d IndexBits: %d}",
		p.Name, p.StandardCapacity, p.TopCapacity, p.CodeBatchSize, p.StandardClaims, p.TopClaims, p.IndexBits)
}

// NormalizeProfileName maps user input onto a known profile name.
func NormalizeProfileName(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SmallProfileName, "demo":
		return SmallProfileName, nil
	case LargeProfileName:
		return LargeProfileName, nil
	default:
		return "", fmt.Errorf("unsupported distributor profile: %s", strings.TrimSpace(name))
	}
}

// ProfileByName returns a copy of the named built-in profile.
func ProfileByName(name string) (*DistributorProfile, error) {
	normalized, err := NormalizeProfileName(name)
	if err != nil {
		return nil, err
	}
	var p DistributorProfile
	switch normalized {
	case LargeProfileName:
		p = *LargeProfile
	default:
		p = *SmallProfile
	}
	return &p, nil
}
