// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"

	"github.com/vechain/electra/electra"
)

// Views are plain reads under the read lock. Unknown groups and accounts hold
// no votes and read back as zero, never as an error.

// TotalVotes returns the network-wide pending plus active votes.
func (e *Engine) TotalVotes() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Add(e.pending.total, e.active.total)
}

// ActiveVotes returns the network-wide active votes.
func (e *Engine) ActiveVotes() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.active.total)
}

// PendingVotes returns the network-wide pending votes.
func (e *Engine) PendingVotes() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.pending.total)
}

// TotalVotesForGroup returns group's pending plus active votes.
func (e *Engine) TotalVotesForGroup(group electra.Address) *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalForGroup(group)
}

// ActiveVotesForGroup returns group's active votes.
func (e *Engine) ActiveVotesForGroup(group electra.Address) *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active.groupTotal(group)
}

// PendingVotesForGroup returns group's pending votes.
func (e *Engine) PendingVotesForGroup(group electra.Address) *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pending.groupTotal(group)
}

// PendingVotesForGroupByAccount returns account's pending votes for group.
func (e *Engine) PendingVotesForGroupByAccount(group, account electra.Address) *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	value, _ := e.pending.accountVote(group, account)
	return value
}

// ActiveVotesForGroupByAccount returns the vote value of account's active
// units in group at the current unit price.
func (e *Engine) ActiveVotesForGroupByAccount(group, account electra.Address) *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active.accountVotes(group, account)
}

// TotalVotesForGroupByAccount returns account's pending plus active votes for
// group.
func (e *Engine) TotalVotesForGroupByAccount(group, account electra.Address) *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalForGroupByAccount(group, account)
}

// ActiveVoteUnitsForGroup returns the total active vote units issued by group.
func (e *Engine) ActiveVoteUnitsForGroup(group electra.Address) *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active.groupUnits(group)
}

// ActiveVoteUnitsForGroupByAccount returns account's active vote units in
// group.
func (e *Engine) ActiveVoteUnitsForGroupByAccount(group, account electra.Address) *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active.accountUnits(group, account)
}

// TotalVotesByAccount returns account's votes across all groups. For accounts
// allowed over the group bound the cached running total is returned instead
// of walking the support list.
func (e *Engine) TotalVotesByAccount(account electra.Address) *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	voter := e.voter(account)
	if voter == nil {
		return new(big.Int)
	}
	if voter.overMax {
		return new(big.Int).Set(voter.cachedTotal)
	}
	total := new(big.Int)
	for _, group := range voter.groups {
		total.Add(total, e.totalForGroupByAccount(group, account))
	}
	return total
}

// GroupsVotedForByAccount returns the groups account currently supports, in
// support order.
func (e *Engine) GroupsVotedForByAccount(account electra.Address) []electra.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()

	voter := e.voter(account)
	if voter == nil {
		return nil
	}
	groups := make([]electra.Address, len(voter.groups))
	copy(groups, voter.groups)
	return groups
}

// AllowedOverMaxGroups reports whether account may support more than the
// configured number of distinct groups.
func (e *Engine) AllowedOverMaxGroups(account electra.Address) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	voter := e.voter(account)
	return voter != nil && voter.overMax
}

// HasActivatablePendingVotes reports whether account holds pending votes for
// group stamped in an earlier epoch.
func (e *Engine) HasActivatablePendingVotes(account, group electra.Address) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	value, epoch := e.pending.accountVote(group, account)
	return epoch < e.clock.CurrentEpoch() && value.Sign() > 0
}

// EligibleGroups returns the eligible groups in descending vote order.
func (e *Engine) EligibleGroups() []electra.Address {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.eligible.Keys()
}

// EligibleGroupsWithVotes returns the eligible groups in descending vote
// order along with each group's total votes, positionally.
func (e *Engine) EligibleGroupsWithVotes() ([]electra.Address, []*big.Int) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	entries := e.eligible.Entries()
	groups := make([]electra.Address, len(entries))
	votes := make([]*big.Int, len(entries))
	for i, entry := range entries {
		groups[i] = entry.Key
		votes[i] = entry.Weight
	}
	return groups, votes
}

// TotalVotesForEligibleGroups returns the votes held by eligible groups.
func (e *Engine) TotalVotesForEligibleGroups() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	total := new(big.Int)
	for _, entry := range e.eligible.Entries() {
		total.Add(total, entry.Weight)
	}
	return total
}

// GroupEligible reports whether group is ranked for election.
func (e *Engine) GroupEligible(group electra.Address) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.eligible.Contains(group)
}

// EligibleGroupCount returns the number of eligible groups.
func (e *Engine) EligibleGroupCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.eligible.Len()
}

// RankHints computes the rank neighbors for placing group at weight, for
// callers assembling the hint arguments of a mutation.
func (e *Engine) RankHints(group electra.Address, weight *big.Int) (lesser, greater electra.Address) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.eligible.HintsFor(group, weight)
}

// Version returns the mutation counter. It increases by one for every applied
// mutation and stamps emitted events.
func (e *Engine) Version() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.version
}

// ElectableValidators returns the configured committee size bounds.
func (e *Engine) ElectableValidators() (minSigners, maxSigners uint64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.MinElectableValidators, e.config.MaxElectableValidators
}

// MaxGroupsVotedFor returns the configured distinct group bound.
func (e *Engine) MaxGroupsVotedFor() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.MaxGroupsVotedFor
}

// ElectabilityThreshold returns the configured electability threshold.
func (e *Engine) ElectabilityThreshold() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.config.ElectabilityThreshold)
}
