// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"

	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/fault"
)

// DistributeEpochRewards pays value into group's active vote pool without
// minting units, so every current unit holder gains proportionally and later
// activations buy units at the higher price. The group's rank weight rises
// only while it is eligible; an ineligible group still accrues the votes.
// Privileged: the host restricts callers.
func (e *Engine) DistributeEpochRewards(group electra.Address, value *big.Int, lesser, greater electra.Address) error {
	ev, err := e.distributeEpochRewards(group, value, lesser, greater)
	countOp("distribute_epoch_rewards", err)
	if err != nil {
		return err
	}
	e.feed.Send(ev)
	return nil
}

func (e *Engine) distributeEpochRewards(group electra.Address, value *big.Int, lesser, greater electra.Address) (*Event, error) {
	if group.IsZero() {
		return nil, fault.NewValidation("group must be defined")
	}
	if value == nil || value.Sign() < 0 {
		return nil, fault.NewValidation("reward value cannot be negative")
	}
	if err := e.lockMutate(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if e.eligible.Contains(group) {
		if err := e.raiseGroupWeight(group, value, lesser, greater); err != nil {
			return nil, err
		}
	}
	e.active.reward(group, value)

	logger.Debug("epoch rewards distributed", "group", group, "value", value)
	return e.commit(EventEpochRewardsDistributed, &EpochRewardsDistributed{
		Group: group,
		Value: new(big.Int).Set(value),
	}), nil
}

// MarkGroupEligible ranks group at its current vote total, making it electable
// and able to receive votes. Privileged, driven by the group catalog's
// registration flow.
func (e *Engine) MarkGroupEligible(group electra.Address, lesser, greater electra.Address) error {
	ev, err := e.markGroupEligible(group, lesser, greater)
	countOp("mark_group_eligible", err)
	if err != nil {
		return err
	}
	metricEligibleGroups().Set(int64(e.EligibleGroupCount()))
	e.feed.Send(ev)
	return nil
}

func (e *Engine) markGroupEligible(group electra.Address, lesser, greater electra.Address) (*Event, error) {
	if group.IsZero() {
		return nil, fault.NewValidation("group must be defined")
	}
	if err := e.lockMutate(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if err := e.eligible.Insert(group, e.totalForGroup(group), lesser, greater); err != nil {
		return nil, err
	}
	logger.Info("group marked eligible", "group", group)
	return e.commit(EventGroupMarkedEligible, &GroupMarkedEligible{Group: group}), nil
}

// MarkGroupIneligible unranks group. Its vote totals are preserved and voters
// can still revoke or activate, but it cannot receive new votes or win seats.
// Privileged, driven by the group catalog's deregistration flow.
func (e *Engine) MarkGroupIneligible(group electra.Address) error {
	ev, err := e.markGroupIneligible(group)
	countOp("mark_group_ineligible", err)
	if err != nil {
		return err
	}
	metricEligibleGroups().Set(int64(e.EligibleGroupCount()))
	e.feed.Send(ev)
	return nil
}

func (e *Engine) markGroupIneligible(group electra.Address) (*Event, error) {
	if group.IsZero() {
		return nil, fault.NewValidation("group must be defined")
	}
	if err := e.lockMutate(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if err := e.eligible.Remove(group); err != nil {
		return nil, err
	}
	logger.Info("group marked ineligible", "group", group)
	return e.commit(EventGroupMarkedIneligible, &GroupMarkedIneligible{Group: group}), nil
}

// GroupEpochRewards returns group's slice of an epoch reward pot, its share of
// the network's active votes scaled by score, a fixed-point 1e18 performance
// fraction. Ineligible groups and a network without active votes earn zero.
func (e *Engine) GroupEpochRewards(group electra.Address, totalEpochRewards, score *big.Int) (*big.Int, error) {
	if group.IsZero() {
		return nil, fault.NewValidation("group must be defined")
	}
	if totalEpochRewards == nil || totalEpochRewards.Sign() < 0 {
		return nil, fault.NewValidation("reward value cannot be negative")
	}
	if score == nil || score.Sign() < 0 || score.Cmp(electra.PercentageFactor) > 0 {
		return nil, fault.NewValidation("score must be a fraction between zero and one")
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.eligible.Contains(group) || e.active.total.Sign() == 0 {
		return new(big.Int), nil
	}
	reward := new(big.Int).Mul(totalEpochRewards, e.active.groupTotal(group))
	reward.Mul(reward, score)
	den := new(big.Int).Mul(e.active.total, electra.PercentageFactor)
	return reward.Quo(reward, den), nil
}
