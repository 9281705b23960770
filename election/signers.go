// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"container/heap"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/pkg/errors"

	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/fault"
)

// seatCandidate tracks one group through seat allocation. quota is the group's
// claim on the next seat, total votes divided by seats won plus one, and is
// zeroed once the group runs out of members.
type seatCandidate struct {
	group   electra.Address
	rank    int
	members uint64
	seats   uint64
	total   *big.Int
	quota   *big.Int
}

// seatHeap keeps the strongest claim at the root. Equal quotas go to the
// better-ranked group so allocation stays deterministic.
type seatHeap []*seatCandidate

func (h seatHeap) Len() int { return len(h) }

func (h seatHeap) Less(i, j int) bool {
	if c := h[i].quota.Cmp(h[j].quota); c != 0 {
		return c > 0
	}
	return h[i].rank < h[j].rank
}

func (h seatHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *seatHeap) Push(x any) { *h = append(*h, x.(*seatCandidate)) }

func (h *seatHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return c
}

// ElectValidatorSigners elects the committee for the next epoch using the
// configured size bounds. Seats go to groups in proportion to their total
// votes, and each seated group contributes its top members. Fails while
// elections are frozen.
func (e *Engine) ElectValidatorSigners() ([]electra.Address, error) {
	signers, err := e.electValidatorSigners()
	countOp("elect_validator_signers", err)
	return signers, err
}

func (e *Engine) electValidatorSigners() ([]electra.Address, error) {
	if e.freeze != nil && e.freeze.IsFrozen() {
		return nil, fault.NewValidation("elections are frozen")
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.electSigners(e.config.MinElectableValidators, e.config.MaxElectableValidators)
}

// ElectNValidatorSigners elects a committee of minSigners to maxSigners
// members, ignoring the configured bounds and the freeze flag.
func (e *Engine) ElectNValidatorSigners(minSigners, maxSigners uint64) ([]electra.Address, error) {
	signers, err := e.electNValidatorSigners(minSigners, maxSigners)
	countOp("elect_n_validator_signers", err)
	return signers, err
}

func (e *Engine) electNValidatorSigners(minSigners, maxSigners uint64) ([]electra.Address, error) {
	if minSigners > maxSigners {
		return nil, fault.NewValidation("min electable validators cannot exceed max")
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.electSigners(minSigners, maxSigners)
}

// electSigners memoizes committee computation per ledger version. The caller
// must hold at least the read lock so the version and the vote state agree.
// Concurrent callers for the same key share one computation.
func (e *Engine) electSigners(minSigners, maxSigners uint64) ([]electra.Address, error) {
	key := fmt.Sprintf("%d/%d/%d", e.version, minSigners, maxSigners)
	cached, err := e.results.GetOrLoad(key, func() (any, error) {
		return e.computeSigners(minSigners, maxSigners)
	})
	if err != nil {
		return nil, err
	}
	signers := cached.([]electra.Address)
	out := make([]electra.Address, len(signers))
	copy(out, signers)
	return out, nil
}

func (e *Engine) computeSigners(minSigners, maxSigners uint64) ([]electra.Address, error) {
	startTime := mclock.Now()

	// Only groups holding the threshold share of all votes compete, and never
	// more groups than there are seats.
	required := e.requiredVotes()
	groups, err := e.eligible.HeadN(e.eligible.CountAtOrAbove(required, int(maxSigners)))
	if err != nil {
		return nil, err
	}
	counts, err := e.catalog.GroupsMemberCounts(groups)
	if err != nil {
		return nil, errors.WithMessage(err, "group member counts")
	}
	if len(counts) != len(groups) {
		return nil, fault.NewConsistency("catalog returned %d member counts for %d groups", len(counts), len(groups))
	}

	order := make([]*seatCandidate, len(groups))
	for i, group := range groups {
		total := e.totalForGroup(group)
		order[i] = &seatCandidate{
			group:   group,
			rank:    i,
			members: counts[i],
			total:   total,
			quota:   new(big.Int).Set(total),
		}
	}
	candidates := make(seatHeap, len(order))
	copy(candidates, order)
	heap.Init(&candidates)

	// Seats go one at a time to the strongest claim. A group whose members are
	// all seated drops out by zeroing its quota.
	var totalSeats uint64
	for totalSeats < maxSigners && len(candidates) > 0 {
		top := candidates[0]
		if top.quota.Sign() == 0 {
			break
		}
		if top.seats >= top.members {
			top.quota.SetUint64(0)
		} else {
			top.seats++
			totalSeats++
			top.quota.Quo(top.total, new(big.Int).SetUint64(top.seats+1))
		}
		heap.Fix(&candidates, 0)
	}
	if totalSeats < minSigners {
		return nil, fault.NewCapacity("not enough elected validators")
	}

	signers := make([]electra.Address, 0, totalSeats)
	for _, c := range order {
		if c.seats == 0 {
			continue
		}
		members, err := e.catalog.TopGroupMembers(c.group, c.seats)
		if err != nil {
			return nil, errors.WithMessage(err, "top group members")
		}
		if uint64(len(members)) != c.seats {
			return nil, fault.NewConsistency("catalog returned %d members of group %v for %d seats", len(members), c.group, c.seats)
		}
		signers = append(signers, members...)
	}

	metricElectionDuration().Observe(time.Duration(mclock.Now() - startTime).Milliseconds())
	metricCommitteeSize().Set(int64(len(signers)))
	logger.Debug("committee elected", "signers", len(signers), "groups", len(groups), "version", e.version)
	return signers, nil
}

// requiredVotes is the vote floor for joining seat allocation, the configured
// threshold fraction of all pending and active votes.
func (e *Engine) requiredVotes() *big.Int {
	total := new(big.Int).Add(e.pending.total, e.active.total)
	total.Mul(total, e.config.ElectabilityThreshold)
	return total.Quo(total, electra.PercentageFactor)
}

// CanReceiveVotes reports whether group can absorb value more votes. A group's
// capacity scales with its member count so that votes parked on a small group
// cannot crowd out seats the group could never fill.
func (e *Engine) CanReceiveVotes(group electra.Address, value *big.Int) (bool, error) {
	if group.IsZero() {
		return false, fault.NewValidation("group must be defined")
	}
	if value == nil || value.Sign() < 0 {
		return false, fault.NewValidation("vote value cannot be negative")
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.canReceiveVotes(group, value)
}

// canReceiveVotes evaluates (votes+value) * min(maxElectable, registered) <=
// (members+1) * totalStake in multiplied form, avoiding the division and its
// zero-denominator case.
func (e *Engine) canReceiveVotes(group electra.Address, value *big.Int) (bool, error) {
	registered, err := e.catalog.RegisteredValidatorCount()
	if err != nil {
		return false, errors.WithMessage(err, "registered validator count")
	}
	memberCount, err := e.catalog.GroupMemberCount(group)
	if err != nil {
		return false, errors.WithMessage(err, "group member count")
	}
	totalStake, err := e.stake.TotalStake()
	if err != nil {
		return false, errors.WithMessage(err, "total stake")
	}
	left := new(big.Int).Add(e.totalForGroup(group), value)
	left.Mul(left, new(big.Int).SetUint64(min(e.config.MaxElectableValidators, registered)))
	right := new(big.Int).SetUint64(memberCount)
	right.Add(right, big.NewInt(1))
	right.Mul(right, totalStake)
	return left.Cmp(right) <= 0, nil
}

// NumVotesReceivable returns the total votes group can hold,
// (members+1) * totalStake / min(maxElectable, registered).
func (e *Engine) NumVotesReceivable(group electra.Address) (*big.Int, error) {
	if group.IsZero() {
		return nil, fault.NewValidation("group must be defined")
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	registered, err := e.catalog.RegisteredValidatorCount()
	if err != nil {
		return nil, errors.WithMessage(err, "registered validator count")
	}
	memberCount, err := e.catalog.GroupMemberCount(group)
	if err != nil {
		return nil, errors.WithMessage(err, "group member count")
	}
	totalStake, err := e.stake.TotalStake()
	if err != nil {
		return nil, errors.WithMessage(err, "total stake")
	}
	den := min(e.config.MaxElectableValidators, registered)
	if den == 0 {
		return nil, fault.NewValidation("no registered validators")
	}
	num := new(big.Int).SetUint64(memberCount)
	num.Add(num, big.NewInt(1))
	num.Mul(num, totalStake)
	return num.Quo(num, new(big.Int).SetUint64(den)), nil
}
