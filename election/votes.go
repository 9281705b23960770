// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"

	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/fault"
)

// pendingVote is one voter's not-yet-activated balance for one group, stamped
// with the epoch of the most recent cast.
type pendingVote struct {
	value *big.Int
	epoch uint64
}

// groupPendingVotes aggregates the pending votes cast for one group.
type groupPendingVotes struct {
	total     *big.Int
	byAccount map[electra.Address]*pendingVote
}

// pendingVotes tracks not-yet-activated votes network-wide.
type pendingVotes struct {
	total   *big.Int
	byGroup map[electra.Address]*groupPendingVotes
}

func newPendingVotes() *pendingVotes {
	return &pendingVotes{
		total:   new(big.Int),
		byGroup: make(map[electra.Address]*groupPendingVotes),
	}
}

// increment adds value to account's pending votes for group and restamps the
// record with epoch, restarting the seasoning of the whole balance.
func (p *pendingVotes) increment(group, account electra.Address, value *big.Int, epoch uint64) {
	gp, ok := p.byGroup[group]
	if !ok {
		gp = &groupPendingVotes{total: new(big.Int), byAccount: make(map[electra.Address]*pendingVote)}
		p.byGroup[group] = gp
	}
	pv, ok := gp.byAccount[account]
	if !ok {
		pv = &pendingVote{value: new(big.Int)}
		gp.byAccount[account] = pv
	}
	p.total.Add(p.total, value)
	gp.total.Add(gp.total, value)
	pv.value.Add(pv.value, value)
	pv.epoch = epoch
}

// decrement removes value from account's pending votes for group, dropping
// the record once its balance reaches zero. The stamp epoch is untouched.
func (p *pendingVotes) decrement(group, account electra.Address, value *big.Int) error {
	gp := p.byGroup[group]
	if gp == nil {
		return fault.NewConsistency("no pending votes for group")
	}
	pv := gp.byAccount[account]
	if pv == nil || pv.value.Cmp(value) < 0 || gp.total.Cmp(value) < 0 || p.total.Cmp(value) < 0 {
		return fault.NewConsistency("pending vote balance underflow")
	}
	p.total.Sub(p.total, value)
	gp.total.Sub(gp.total, value)
	pv.value.Sub(pv.value, value)
	if pv.value.Sign() == 0 {
		delete(gp.byAccount, account)
	}
	return nil
}

// reset force-writes account's record and the group total, used by rollback.
func (p *pendingVotes) reset(group, account electra.Address, value *big.Int, epoch uint64, groupTotal *big.Int) {
	gp := p.byGroup[group]
	if gp == nil {
		if value.Sign() == 0 && groupTotal.Sign() == 0 {
			return
		}
		gp = &groupPendingVotes{total: new(big.Int), byAccount: make(map[electra.Address]*pendingVote)}
		p.byGroup[group] = gp
	}
	gp.total.Set(groupTotal)
	if value.Sign() == 0 {
		delete(gp.byAccount, account)
		return
	}
	pv := gp.byAccount[account]
	if pv == nil {
		pv = &pendingVote{value: new(big.Int)}
		gp.byAccount[account] = pv
	}
	pv.value.Set(value)
	pv.epoch = epoch
}

// groupTotal returns the pending votes cast for group.
func (p *pendingVotes) groupTotal(group electra.Address) *big.Int {
	if gp := p.byGroup[group]; gp != nil {
		return new(big.Int).Set(gp.total)
	}
	return new(big.Int)
}

// accountVote returns account's pending balance and stamp epoch for group.
func (p *pendingVotes) accountVote(group, account electra.Address) (*big.Int, uint64) {
	if gp := p.byGroup[group]; gp != nil {
		if pv := gp.byAccount[account]; pv != nil {
			return new(big.Int).Set(pv.value), pv.epoch
		}
	}
	return new(big.Int), 0
}

// groupActiveVotes aggregates one group's activated votes. Voters hold units;
// the vote value of a unit is total/totalUnits and rises as epoch rewards are
// paid into total.
type groupActiveVotes struct {
	total          *big.Int // votes
	totalUnits     *big.Int
	unitsByAccount map[electra.Address]*big.Int
}

func (g *groupActiveVotes) unitsOf(account electra.Address) *big.Int {
	if units := g.unitsByAccount[account]; units != nil {
		return new(big.Int).Set(units)
	}
	return new(big.Int)
}

// activeVotes tracks activated votes network-wide.
type activeVotes struct {
	total   *big.Int
	byGroup map[electra.Address]*groupActiveVotes
}

func newActiveVotes() *activeVotes {
	return &activeVotes{
		total:   new(big.Int),
		byGroup: make(map[electra.Address]*groupActiveVotes),
	}
}

func (a *activeVotes) group(group electra.Address) *groupActiveVotes {
	ga, ok := a.byGroup[group]
	if !ok {
		ga = &groupActiveVotes{
			total:          new(big.Int),
			totalUnits:     new(big.Int),
			unitsByAccount: make(map[electra.Address]*big.Int),
		}
		a.byGroup[group] = ga
	}
	return ga
}

// unitsForVotes converts a vote value into group units at the current unit
// price, truncating. The first activation for a group is scaled by
// UnitPrecisionFactor so later divisions keep precision.
func (a *activeVotes) unitsForVotes(group electra.Address, value *big.Int) *big.Int {
	ga := a.byGroup[group]
	if ga == nil || ga.totalUnits.Sign() == 0 {
		return new(big.Int).Mul(value, electra.UnitPrecisionFactor)
	}
	units := new(big.Int).Mul(value, ga.totalUnits)
	return units.Quo(units, ga.total)
}

// unitsForVotesRoundedUp is unitsForVotes rounding the division up, used when
// revoking part of a balance so the voter cannot shed rounding dust onto the
// group.
func (a *activeVotes) unitsForVotesRoundedUp(group electra.Address, value *big.Int) *big.Int {
	ga := a.byGroup[group]
	if ga == nil || ga.total.Sign() == 0 {
		return new(big.Int).Mul(value, electra.UnitPrecisionFactor)
	}
	units := new(big.Int).Mul(value, ga.totalUnits)
	units.Sub(units, big.NewInt(1))
	units.Quo(units, ga.total)
	return units.Add(units, big.NewInt(1))
}

// votesForUnits converts units into a vote value at the current unit price,
// truncating. A group with no units prices them at zero.
func (a *activeVotes) votesForUnits(group electra.Address, units *big.Int) *big.Int {
	ga := a.byGroup[group]
	if ga == nil || ga.totalUnits.Sign() == 0 {
		return new(big.Int)
	}
	value := new(big.Int).Mul(units, ga.total)
	return value.Quo(value, ga.totalUnits)
}

// increment converts value into units for account at the current price and
// credits the group and network totals. It returns the units minted.
func (a *activeVotes) increment(group, account electra.Address, value *big.Int) *big.Int {
	units := a.unitsForVotes(group, value)
	ga := a.group(group)
	a.total.Add(a.total, value)
	ga.total.Add(ga.total, value)
	ga.totalUnits.Add(ga.totalUnits, units)
	held := ga.unitsOf(account)
	ga.unitsByAccount[account] = held.Add(held, units)
	return new(big.Int).Set(units)
}

// decrement removes value worth of account's active votes for group, burning
// units at the current price. Revoking the full balance burns the exact unit
// count so rounding can never strand the last votes. It returns the units
// burnt.
func (a *activeVotes) decrement(group, account electra.Address, value *big.Int) (*big.Int, error) {
	ga := a.byGroup[group]
	if ga == nil {
		return nil, fault.NewConsistency("no active votes for group")
	}
	held := ga.unitsOf(account)
	var units *big.Int
	if balance := a.votesForUnits(group, held); balance.Cmp(value) == 0 {
		units = new(big.Int).Set(held)
	} else {
		units = a.unitsForVotesRoundedUp(group, value)
	}
	if held.Cmp(units) < 0 || ga.totalUnits.Cmp(units) < 0 || ga.total.Cmp(value) < 0 || a.total.Cmp(value) < 0 {
		return nil, fault.NewConsistency("active vote balance underflow")
	}
	a.total.Sub(a.total, value)
	ga.total.Sub(ga.total, value)
	ga.totalUnits.Sub(ga.totalUnits, units)
	held.Sub(held, units)
	if held.Sign() == 0 {
		delete(ga.unitsByAccount, account)
	} else {
		ga.unitsByAccount[account] = held
	}
	return units, nil
}

// reward adds value to the group's active vote pool without minting units,
// raising the unit price for every current holder.
func (a *activeVotes) reward(group electra.Address, value *big.Int) {
	ga := a.group(group)
	a.total.Add(a.total, value)
	ga.total.Add(ga.total, value)
}

// reset force-writes account's units and the group totals, used by rollback.
func (a *activeVotes) reset(group, account electra.Address, units, groupTotal, groupUnits *big.Int) {
	ga := a.byGroup[group]
	if ga == nil {
		if units.Sign() == 0 && groupTotal.Sign() == 0 && groupUnits.Sign() == 0 {
			return
		}
		ga = a.group(group)
	}
	ga.total.Set(groupTotal)
	ga.totalUnits.Set(groupUnits)
	if units.Sign() == 0 {
		delete(ga.unitsByAccount, account)
		return
	}
	ga.unitsByAccount[account] = new(big.Int).Set(units)
}

// groupTotal returns the active votes held for group.
func (a *activeVotes) groupTotal(group electra.Address) *big.Int {
	if ga := a.byGroup[group]; ga != nil {
		return new(big.Int).Set(ga.total)
	}
	return new(big.Int)
}

// groupUnits returns the outstanding unit supply for group.
func (a *activeVotes) groupUnits(group electra.Address) *big.Int {
	if ga := a.byGroup[group]; ga != nil {
		return new(big.Int).Set(ga.totalUnits)
	}
	return new(big.Int)
}

// accountUnits returns account's unit balance for group.
func (a *activeVotes) accountUnits(group, account electra.Address) *big.Int {
	if ga := a.byGroup[group]; ga != nil {
		return ga.unitsOf(account)
	}
	return new(big.Int)
}

// accountVotes returns the vote value of account's units for group.
func (a *activeVotes) accountVotes(group, account electra.Address) *big.Int {
	return a.votesForUnits(group, a.accountUnits(group, account))
}

func bigMin(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
