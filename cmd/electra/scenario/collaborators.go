// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"math/big"

	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/fault"
)

// stakeBook is the in-memory stake custodian backing a replay. Locked totals
// are fixed at setup; casting votes moves value out of the nonvoting pool and
// revoking moves it back. A forced decrement burns the slashed value.
type stakeBook struct {
	nonvoting map[electra.Address]*big.Int
	locked    map[electra.Address]*big.Int
	total     *big.Int
}

func newStakeBook(accounts []Account) *stakeBook {
	book := &stakeBook{
		nonvoting: make(map[electra.Address]*big.Int, len(accounts)),
		locked:    make(map[electra.Address]*big.Int, len(accounts)),
		total:     new(big.Int),
	}
	for _, a := range accounts {
		addr := electra.Address(a.Address)
		stake := a.Stake.Int()
		book.nonvoting[addr] = new(big.Int).Set(stake)
		book.locked[addr] = new(big.Int).Set(stake)
		book.total.Add(book.total, stake)
	}
	return book
}

func (b *stakeBook) DecrementNonvotingBalance(account electra.Address, value *big.Int) error {
	balance, ok := b.nonvoting[account]
	if !ok || balance.Cmp(value) < 0 {
		return fault.NewValidation("insufficient nonvoting balance")
	}
	balance.Sub(balance, value)
	return nil
}

func (b *stakeBook) IncrementNonvotingBalance(account electra.Address, value *big.Int) error {
	balance, ok := b.nonvoting[account]
	if !ok {
		return fault.NewConsistency("unknown account")
	}
	balance.Add(balance, value)
	return nil
}

func (b *stakeBook) AccountTotalStake(account electra.Address) (*big.Int, error) {
	if locked, ok := b.locked[account]; ok {
		return new(big.Int).Set(locked), nil
	}
	return new(big.Int), nil
}

func (b *stakeBook) TotalStake() (*big.Int, error) {
	return new(big.Int).Set(b.total), nil
}

// slash burns value of account's locked stake after a forced decrement. The
// engine already took the votes off its books; the value never returns to the
// nonvoting pool.
func (b *stakeBook) slash(account electra.Address, value *big.Int) {
	if locked, ok := b.locked[account]; ok {
		locked.Sub(locked, value)
		if locked.Sign() < 0 {
			locked.SetInt64(0)
		}
	}
	b.total.Sub(b.total, value)
	if b.total.Sign() < 0 {
		b.total.SetInt64(0)
	}
}

// groupBook resolves group membership for a replay. Member lists are fixed at
// setup and double as the group's internal ranking.
type groupBook struct {
	members    map[electra.Address][]electra.Address
	registered uint64
}

func newGroupBook(groups []Group) *groupBook {
	book := &groupBook{members: make(map[electra.Address][]electra.Address, len(groups))}
	for _, g := range groups {
		members := make([]electra.Address, len(g.Members))
		for i, m := range g.Members {
			members[i] = electra.Address(m)
		}
		book.members[electra.Address(g.Address)] = members
		book.registered += uint64(len(members))
	}
	return book
}

func (b *groupBook) GroupMemberCount(group electra.Address) (uint64, error) {
	return uint64(len(b.members[group])), nil
}

func (b *groupBook) GroupsMemberCounts(groups []electra.Address) ([]uint64, error) {
	counts := make([]uint64, len(groups))
	for i, g := range groups {
		counts[i] = uint64(len(b.members[g]))
	}
	return counts, nil
}

func (b *groupBook) TopGroupMembers(group electra.Address, n uint64) ([]electra.Address, error) {
	members := b.members[group]
	if n < uint64(len(members)) {
		members = members[:n]
	}
	return append([]electra.Address(nil), members...), nil
}

func (b *groupBook) RegisteredValidatorCount() (uint64, error) {
	return b.registered, nil
}

// epochCounter is the replay's epoch clock, stepped by advance-epoch.
type epochCounter struct {
	epoch uint64
}

func (c *epochCounter) CurrentEpoch() uint64 { return c.epoch }

// freezeSwitch gates elections, toggled by freeze and unfreeze steps.
type freezeSwitch struct {
	frozen bool
}

func (f *freezeSwitch) IsFrozen() bool { return f.frozen }
