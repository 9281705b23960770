// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"

	"github.com/vechain/electra/electra"
)

// StakeSource is the custody ledger holding voters' locked stake. The engine
// moves stake between an account's nonvoting balance and its outstanding votes;
// the tokens themselves never leave the source.
//
// Collaborators are invoked while the engine holds its internal lock and must
// not call back into it. A mutating callback is rejected as a consistency
// fault.
type StakeSource interface {
	// DecrementNonvotingBalance moves value out of account's nonvoting
	// balance when votes are cast. It fails if the balance is insufficient.
	DecrementNonvotingBalance(account electra.Address, value *big.Int) error

	// IncrementNonvotingBalance returns value to account's nonvoting balance
	// when votes are revoked.
	IncrementNonvotingBalance(account electra.Address, value *big.Int) error

	// AccountTotalStake returns account's total locked stake.
	AccountTotalStake(account electra.Address) (*big.Int, error)

	// TotalStake returns the network-wide locked stake.
	TotalStake() (*big.Int, error)
}

// GroupCatalog resolves validator group membership. Member counts cap the
// votes a group can usefully absorb, and pick how many of its members can be
// seated once the group wins seats.
type GroupCatalog interface {
	// GroupMemberCount returns the number of member validators of group.
	GroupMemberCount(group electra.Address) (uint64, error)

	// GroupsMemberCounts returns the member count of each group, positionally.
	GroupsMemberCounts(groups []electra.Address) ([]uint64, error)

	// TopGroupMembers returns group's top n members in the group's own
	// internal ranking order.
	TopGroupMembers(group electra.Address, n uint64) ([]electra.Address, error)

	// RegisteredValidatorCount returns the number of registered validators
	// across all groups.
	RegisteredValidatorCount() (uint64, error)
}

// EpochClock reports the current epoch number. Pending votes stamped in epoch
// e become activatable in epoch e+1.
type EpochClock interface {
	CurrentEpoch() uint64
}

// FreezeFlag optionally gates committee elections, e.g. across an upgrade.
type FreezeFlag interface {
	IsFrozen() bool
}
