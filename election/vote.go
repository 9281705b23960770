// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/fault"
)

// Vote casts value pending votes from account for group. The group must be
// eligible and able to receive value more votes, and the account must stay
// within the distinct group bound unless flagged over-max. The stake is
// debited from the account's nonvoting balance. lesser and greater are the
// group's expected rank neighbors at its new weight.
func (e *Engine) Vote(account, group electra.Address, value *big.Int, lesser, greater electra.Address) error {
	ev, err := e.vote(account, group, value, lesser, greater)
	countOp("vote", err)
	if err != nil {
		return err
	}
	e.feed.Send(ev)
	return nil
}

func (e *Engine) vote(account, group electra.Address, value *big.Int, lesser, greater electra.Address) (*Event, error) {
	if group.IsZero() {
		return nil, fault.NewValidation("group must be defined")
	}
	if account.IsZero() {
		return nil, fault.NewValidation("account must be defined")
	}
	if value == nil || value.Sign() <= 0 {
		return nil, fault.NewValidation("vote value cannot be zero")
	}
	if err := e.lockMutate(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if !e.eligible.Contains(group) {
		return nil, fault.NewValidation("group not eligible")
	}
	ok, err := e.canReceiveVotes(group, value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fault.NewCapacity("group cannot receive votes")
	}
	voter := e.voter(account)
	newGroup := voter == nil || !voter.supports(group)
	if newGroup && (voter == nil || !voter.overMax) {
		var supported uint64
		if voter != nil {
			supported = uint64(len(voter.groups))
		}
		if supported >= e.config.MaxGroupsVotedFor {
			return nil, fault.NewValidation("voted for too many groups")
		}
	}

	if err := e.raiseGroupWeight(group, value, lesser, greater); err != nil {
		return nil, err
	}
	if err := e.stake.DecrementNonvotingBalance(account, value); err != nil {
		e.restoreGroupWeight(group)
		return nil, errors.WithMessage(err, "decrement nonvoting balance")
	}

	voter = e.ensureVoter(account)
	if newGroup {
		voter.groups = append(voter.groups, group)
	}
	e.pending.increment(group, account, value, e.clock.CurrentEpoch())
	voter.creditCached(value)

	logger.Debug("vote cast", "account", account, "group", group, "value", value)
	return e.commit(EventVoteCast, &VoteCast{
		Account: account,
		Group:   group,
		Value:   new(big.Int).Set(value),
	}), nil
}

// Activate converts account's seasoned pending votes for group into active
// units at the group's current unit price. Votes season once the epoch they
// were stamped in has passed.
func (e *Engine) Activate(account, group electra.Address) error {
	ev, err := e.activate(account, group)
	countOp("activate", err)
	if err != nil {
		return err
	}
	e.feed.Send(ev)
	return nil
}

// ActivateFor is Activate on behalf of an arbitrary account. Activation is
// permissionless; the units are credited to the vote's owner either way.
func (e *Engine) ActivateFor(account, group electra.Address) error {
	ev, err := e.activate(account, group)
	countOp("activate_for", err)
	if err != nil {
		return err
	}
	e.feed.Send(ev)
	return nil
}

func (e *Engine) activate(account, group electra.Address) (*Event, error) {
	if group.IsZero() {
		return nil, fault.NewValidation("group must be defined")
	}
	if account.IsZero() {
		return nil, fault.NewValidation("account must be defined")
	}
	if err := e.lockMutate(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	value, epoch := e.pending.accountVote(group, account)
	if epoch >= e.clock.CurrentEpoch() {
		return nil, fault.NewValidation("pending votes not yet activatable")
	}
	if value.Sign() == 0 {
		return nil, fault.NewValidation("vote value cannot be zero")
	}
	if err := e.pending.decrement(group, account, value); err != nil {
		return nil, err
	}
	units := e.active.increment(group, account, value)

	logger.Debug("votes activated", "account", account, "group", group, "value", value, "units", units)
	return e.commit(EventVoteActivated, &VoteActivated{
		Account: account,
		Group:   group,
		Value:   value,
		Units:   units,
	}), nil
}

// RevokePending returns value of account's pending votes for group to its
// nonvoting stake balance. index is group's position in the account's support
// list, consulted only when the revocation empties the account's stake in the
// group.
func (e *Engine) RevokePending(account, group electra.Address, value *big.Int, lesser, greater electra.Address, index uint64) error {
	ev, err := e.revokePending(account, group, value, lesser, greater, index)
	countOp("revoke_pending", err)
	if err != nil {
		return err
	}
	e.feed.Send(ev)
	return nil
}

func (e *Engine) revokePending(account, group electra.Address, value *big.Int, lesser, greater electra.Address, index uint64) (*Event, error) {
	if group.IsZero() {
		return nil, fault.NewValidation("group must be defined")
	}
	if account.IsZero() {
		return nil, fault.NewValidation("account must be defined")
	}
	if value == nil || value.Sign() <= 0 {
		return nil, fault.NewValidation("vote value cannot be zero")
	}
	if err := e.lockMutate(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	balance, _ := e.pending.accountVote(group, account)
	if value.Cmp(balance) > 0 {
		return nil, fault.NewValidation("vote value larger than pending votes")
	}
	voter := e.voter(account)
	if voter == nil {
		return nil, fault.NewConsistency("account has no votes")
	}
	remaining := e.totalForGroupByAccount(group, account)
	remaining.Sub(remaining, value)
	drop := remaining.Sign() == 0
	if drop {
		if err := voter.checkGroupAt(group, index); err != nil {
			return nil, err
		}
	}

	if err := e.lowerGroupWeight(group, value, lesser, greater); err != nil {
		return nil, err
	}
	if err := e.stake.IncrementNonvotingBalance(account, value); err != nil {
		e.restoreGroupWeight(group)
		return nil, errors.WithMessage(err, "increment nonvoting balance")
	}

	if err := e.pending.decrement(group, account, value); err != nil {
		return nil, err
	}
	voter.debitCached(value)
	if drop {
		voter.removeGroupAt(index)
	}

	logger.Debug("pending votes revoked", "account", account, "group", group, "value", value)
	return e.commit(EventPendingVoteRevoked, &PendingVoteRevoked{
		Account: account,
		Group:   group,
		Value:   new(big.Int).Set(value),
	}), nil
}

// RevokeActive converts value of account's active votes for group back to
// nonvoting stake, burning units at the current price. Revoking the full
// balance burns the exact unit count. Index rules match RevokePending.
func (e *Engine) RevokeActive(account, group electra.Address, value *big.Int, lesser, greater electra.Address, index uint64) error {
	if value == nil || value.Sign() <= 0 {
		err := fault.NewValidation("vote value cannot be zero")
		countOp("revoke_active", err)
		return err
	}
	ev, err := e.revokeActive(account, group, value, lesser, greater, index)
	countOp("revoke_active", err)
	if err != nil {
		return err
	}
	e.feed.Send(ev)
	return nil
}

// RevokeAllActive revokes account's entire active vote balance for group.
func (e *Engine) RevokeAllActive(account, group electra.Address, lesser, greater electra.Address, index uint64) error {
	ev, err := e.revokeActive(account, group, nil, lesser, greater, index)
	countOp("revoke_all_active", err)
	if err != nil {
		return err
	}
	e.feed.Send(ev)
	return nil
}

// revokeActive revokes value of account's active votes; a nil value means the
// full balance.
func (e *Engine) revokeActive(account, group electra.Address, value *big.Int, lesser, greater electra.Address, index uint64) (*Event, error) {
	if group.IsZero() {
		return nil, fault.NewValidation("group must be defined")
	}
	if account.IsZero() {
		return nil, fault.NewValidation("account must be defined")
	}
	if err := e.lockMutate(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	balance := e.active.accountVotes(group, account)
	if value == nil {
		value = balance
	}
	if value.Sign() == 0 {
		return nil, fault.NewValidation("vote value cannot be zero")
	}
	if value.Cmp(balance) > 0 {
		return nil, fault.NewValidation("vote value larger than active votes")
	}
	voter := e.voter(account)
	if voter == nil {
		return nil, fault.NewConsistency("account has no votes")
	}

	preUnits := e.active.accountUnits(group, account)
	preGroupActive := e.active.groupTotal(group)
	preGroupUnits := e.active.groupUnits(group)
	preNetworkActive := new(big.Int).Set(e.active.total)
	undo := func() {
		e.active.reset(group, account, preUnits, preGroupActive, preGroupUnits)
		e.active.total.Set(preNetworkActive)
	}

	units, err := e.active.decrement(group, account, value)
	if err != nil {
		return nil, err
	}
	// rounding on a partial burn can zero the leftover balance, so the drop
	// decision follows the burn
	drop := e.totalForGroupByAccount(group, account).Sign() == 0
	if drop {
		if err := voter.checkGroupAt(group, index); err != nil {
			undo()
			return nil, err
		}
	}
	if err := e.lowerGroupWeight(group, value, lesser, greater); err != nil {
		undo()
		return nil, err
	}
	if err := e.stake.IncrementNonvotingBalance(account, value); err != nil {
		undo()
		e.restoreGroupWeight(group)
		return nil, errors.WithMessage(err, "increment nonvoting balance")
	}

	voter.debitCached(value)
	if drop {
		voter.removeGroupAt(index)
	}

	logger.Debug("active votes revoked", "account", account, "group", group, "value", value, "units", units)
	return e.commit(EventActiveVoteRevoked, &ActiveVoteRevoked{
		Account: account,
		Group:   group,
		Value:   new(big.Int).Set(value),
		Units:   units,
	}), nil
}

// ForceDecrementVotes drains maxValue votes from account, pending before
// active, walking its supported groups in reverse registration order. It is
// reserved for the stake custodian (e.g. slashing) and does not credit the
// nonvoting balance. The lesser/greater/index slices are positional with the
// account's support list. The account's total votes must cover maxValue or
// the call fails with no state change. Returns the value decremented.
func (e *Engine) ForceDecrementVotes(account electra.Address, maxValue *big.Int, lessers, greaters []electra.Address, indices []uint64) (*big.Int, error) {
	decremented, events, err := e.forceDecrementVotes(account, maxValue, lessers, greaters, indices)
	countOp("force_decrement_votes", err)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		e.feed.Send(ev)
	}
	return decremented, nil
}

func (e *Engine) forceDecrementVotes(account electra.Address, maxValue *big.Int, lessers, greaters []electra.Address, indices []uint64) (*big.Int, []*Event, error) {
	if account.IsZero() {
		return nil, nil, fault.NewValidation("account must be defined")
	}
	if maxValue == nil || maxValue.Sign() <= 0 {
		return nil, nil, fault.NewValidation("decrement value cannot be zero")
	}
	if err := e.lockMutate(); err != nil {
		return nil, nil, err
	}
	defer e.mu.Unlock()

	var groups []electra.Address
	if voter := e.voter(account); voter != nil {
		groups = append([]electra.Address(nil), voter.groups...)
	}
	if len(lessers) != len(groups) || len(greaters) != len(groups) || len(indices) != len(groups) {
		return nil, nil, fault.NewValidation("hint and index slices must match the supported group count")
	}

	snap := e.snapshotForce(account, groups)
	remaining := new(big.Int).Set(maxValue)
	var events []*Event
	for i := len(groups) - 1; i >= 0; i-- {
		if remaining.Sign() == 0 {
			break
		}
		evs, decremented, err := e.decrementVotes(account, groups[i], remaining, lessers[i], greaters[i], indices[i])
		if err != nil {
			e.restoreForce(account, snap)
			return nil, nil, err
		}
		remaining.Sub(remaining, decremented)
		events = append(events, evs...)
	}
	if remaining.Sign() != 0 {
		e.restoreForce(account, snap)
		return nil, nil, fault.NewValidation("account votes insufficient to decrement")
	}

	e.version++
	for _, ev := range events {
		ev.Version = e.version
	}
	logger.Debug("votes force decremented", "account", account, "value", maxValue)
	return new(big.Int).Set(maxValue), events, nil
}

// decrementVotes drains up to remaining votes from account's stake in group,
// pending before active. A failure may leave partial local mutations behind;
// the caller restores from its snapshot.
func (e *Engine) decrementVotes(account, group electra.Address, remaining *big.Int, lesser, greater electra.Address, index uint64) ([]*Event, *big.Int, error) {
	var events []*Event
	decremented := new(big.Int)

	if balance, _ := e.pending.accountVote(group, account); balance.Sign() > 0 {
		value := bigMin(remaining, balance)
		if err := e.pending.decrement(group, account, value); err != nil {
			return nil, nil, err
		}
		decremented.Add(decremented, value)
		events = append(events, &Event{Name: EventPendingVoteRevoked, Data: &PendingVoteRevoked{
			Account: account,
			Group:   group,
			Value:   value,
		}})
	}

	left := new(big.Int).Sub(remaining, decremented)
	if balance := e.active.accountVotes(group, account); balance.Sign() > 0 && left.Sign() > 0 {
		value := bigMin(left, balance)
		units, err := e.active.decrement(group, account, value)
		if err != nil {
			return nil, nil, err
		}
		decremented.Add(decremented, value)
		events = append(events, &Event{Name: EventActiveVoteRevoked, Data: &ActiveVoteRevoked{
			Account: account,
			Group:   group,
			Value:   value,
			Units:   units,
		}})
	}

	if decremented.Sign() > 0 {
		if err := e.lowerGroupWeight(group, decremented, lesser, greater); err != nil {
			return nil, nil, err
		}
		voter := e.voter(account)
		voter.debitCached(decremented)
		if e.totalForGroupByAccount(group, account).Sign() == 0 {
			if err := voter.checkGroupAt(group, index); err != nil {
				return nil, nil, err
			}
			voter.removeGroupAt(index)
		}
	}
	return events, decremented, nil
}

// forceSnapshot captures the slice of ledger state a forced decrement may
// touch so a mid-drain failure can unwind completely.
type forceSnapshot struct {
	groups         []electra.Address
	cachedTotal    *big.Int
	networkPending *big.Int
	networkActive  *big.Int
	perGroup       map[electra.Address]*groupSnapshot
}

type groupSnapshot struct {
	pendingValue *big.Int
	pendingEpoch uint64
	groupPending *big.Int
	accountUnits *big.Int
	groupActive  *big.Int
	groupUnits   *big.Int
	weight       *big.Int // rank weight, nil when unranked
}

func (e *Engine) snapshotForce(account electra.Address, groups []electra.Address) *forceSnapshot {
	snap := &forceSnapshot{
		groups:         append([]electra.Address(nil), groups...),
		networkPending: new(big.Int).Set(e.pending.total),
		networkActive:  new(big.Int).Set(e.active.total),
		perGroup:       make(map[electra.Address]*groupSnapshot, len(groups)),
	}
	if voter := e.voter(account); voter != nil {
		snap.cachedTotal = new(big.Int).Set(voter.cachedTotal)
	}
	for _, group := range groups {
		gs := &groupSnapshot{
			groupPending: e.pending.groupTotal(group),
			accountUnits: e.active.accountUnits(group, account),
			groupActive:  e.active.groupTotal(group),
			groupUnits:   e.active.groupUnits(group),
		}
		gs.pendingValue, gs.pendingEpoch = e.pending.accountVote(group, account)
		if weight, ok := e.eligible.Weight(group); ok {
			gs.weight = weight
		}
		snap.perGroup[group] = gs
	}
	return snap
}

func (e *Engine) restoreForce(account electra.Address, snap *forceSnapshot) {
	for _, group := range snap.groups {
		gs := snap.perGroup[group]
		e.pending.reset(group, account, gs.pendingValue, gs.pendingEpoch, gs.groupPending)
		e.active.reset(group, account, gs.accountUnits, gs.groupActive, gs.groupUnits)
		if gs.weight == nil {
			continue
		}
		if current, ok := e.eligible.Weight(group); ok && current.Cmp(gs.weight) != 0 {
			lesser, greater := e.eligible.HintsFor(group, gs.weight)
			if err := e.eligible.Update(group, gs.weight, lesser, greater); err != nil {
				logger.Error("failed to restore group rank weight", "group", group, "err", err)
			}
		}
	}
	e.pending.total.Set(snap.networkPending)
	e.active.total.Set(snap.networkActive)
	if voter := e.voter(account); voter != nil {
		voter.groups = append([]electra.Address(nil), snap.groups...)
		if snap.cachedTotal != nil {
			voter.cachedTotal.Set(snap.cachedTotal)
		}
	}
}

// SetAllowedOverMaxGroups flags account as allowed to support more distinct
// groups than the configured bound. Enabling builds the account's cached vote
// total; disabling requires the account to be back within the bound.
func (e *Engine) SetAllowedOverMaxGroups(account electra.Address, allowed bool) error {
	ev, err := e.setAllowedOverMaxGroups(account, allowed)
	countOp("set_allowed_over_max_groups", err)
	if err != nil {
		return err
	}
	e.feed.Send(ev)
	return nil
}

func (e *Engine) setAllowedOverMaxGroups(account electra.Address, allowed bool) (*Event, error) {
	if account.IsZero() {
		return nil, fault.NewValidation("account must be defined")
	}
	if err := e.lockMutate(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if !allowed {
		if voter := e.voter(account); voter != nil && uint64(len(voter.groups)) > e.config.MaxGroupsVotedFor {
			return nil, fault.NewValidation("voted for too many groups")
		}
	}
	voter := e.ensureVoter(account)
	if allowed {
		total := new(big.Int)
		for _, group := range voter.groups {
			total.Add(total, e.totalForGroupByAccount(group, account))
		}
		voter.cachedTotal = total
	} else {
		voter.cachedTotal = new(big.Int)
	}
	voter.overMax = allowed

	logger.Debug("allowed over max groups set", "account", account, "allowed", allowed)
	return e.commit(EventAllowedOverMaxGroupsSet, &AllowedOverMaxGroupsSet{
		Account: account,
		Allowed: allowed,
	}), nil
}
