// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package elections

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/electra/electra"
)

// Summary is the network-wide vote state.
type Summary struct {
	TotalVotes            *math.HexOrDecimal256 `json:"totalVotes"`
	ActiveVotes           *math.HexOrDecimal256 `json:"activeVotes"`
	PendingVotes          *math.HexOrDecimal256 `json:"pendingVotes"`
	EligibleGroups        int                   `json:"eligibleGroups"`
	MinElectable          uint64                `json:"minElectable"`
	MaxElectable          uint64                `json:"maxElectable"`
	MaxGroupsVotedFor     uint64                `json:"maxGroupsVotedFor"`
	ElectabilityThreshold *math.HexOrDecimal256 `json:"electabilityThreshold"`
	Version               uint64                `json:"version"`
}

// RankedGroup is one eligible group in ranking order.
type RankedGroup struct {
	Group      electra.Address       `json:"group"`
	TotalVotes *math.HexOrDecimal256 `json:"totalVotes"`
}

// GroupSummary is the vote state of a single group.
type GroupSummary struct {
	Group        electra.Address       `json:"group"`
	Eligible     bool                  `json:"eligible"`
	TotalVotes   *math.HexOrDecimal256 `json:"totalVotes"`
	ActiveVotes  *math.HexOrDecimal256 `json:"activeVotes"`
	PendingVotes *math.HexOrDecimal256 `json:"pendingVotes"`
	ActiveUnits  *math.HexOrDecimal256 `json:"activeUnits"`
}

// GroupAccount is one account's position on one group.
type GroupAccount struct {
	TotalVotes     *math.HexOrDecimal256 `json:"totalVotes"`
	ActiveVotes    *math.HexOrDecimal256 `json:"activeVotes"`
	PendingVotes   *math.HexOrDecimal256 `json:"pendingVotes"`
	ActiveUnits    *math.HexOrDecimal256 `json:"activeUnits"`
	HasActivatable bool                  `json:"hasActivatable"`
}

// AccountSummary is an account's position across all groups.
type AccountSummary struct {
	TotalVotes           *math.HexOrDecimal256 `json:"totalVotes"`
	TotalStake           *math.HexOrDecimal256 `json:"totalStake"`
	Groups               []electra.Address     `json:"groups"`
	AllowedOverMaxGroups bool                  `json:"allowedOverMaxGroups"`
}

// Receivable reports a group's remaining vote capacity.
type Receivable struct {
	CanReceive bool                  `json:"canReceive"`
	Capacity   *math.HexOrDecimal256 `json:"capacity"`
}

func toHexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}
