// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package electra

import "math/big"

// Constants of the election engine.
const (
	// DefaultMaxGroupsVotedFor bounds how many distinct groups one account may support.
	DefaultMaxGroupsVotedFor = 10

	// DefaultMinElectableValidators is the least committee size an election may produce.
	DefaultMinElectableValidators = 22

	// DefaultMaxElectableValidators is the largest committee size an election may produce.
	DefaultMaxElectableValidators = 110
)

var (
	// PercentageFactor is the scale of fixed-point fractions (1e18 == 100%).
	PercentageFactor = big.NewInt(1e18)

	// UnitPrecisionFactor scales vote values on a group's first activation so
	// that later unit price divisions keep precision.
	UnitPrecisionFactor = new(big.Int).Exp(big.NewInt(10), big.NewInt(20), nil)

	// DefaultElectabilityThreshold is the minimum share of total network votes
	// a group needs to take part in seat allocation.
	DefaultElectabilityThreshold = big.NewInt(1e15) // 0.1%
)
