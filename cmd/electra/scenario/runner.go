// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/vechain/electra/election"
	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/fault"
)

// Runner replays a scenario against a fresh engine. It owns the stake book,
// the group catalog, the epoch clock and the freeze switch, and computes the
// rank hints each step needs, the way a transaction sender would off-chain.
type Runner struct {
	scn     *Scenario
	engine  *election.Engine
	stake   *stakeBook
	catalog *groupBook
	clock   *epochCounter
	freeze  *freezeSwitch

	declared []electra.Address
	version  uint64
	replayed bool
}

// New builds a runner for scn. cacheSize bounds the engine's memoized
// election results; zero keeps the engine default.
func New(scn *Scenario, cacheSize int) (*Runner, error) {
	config := election.DefaultConfig()
	if p := scn.Config; p != nil {
		if p.MaxGroupsVotedFor != 0 {
			config.MaxGroupsVotedFor = p.MaxGroupsVotedFor
		}
		if p.ElectabilityThreshold != nil {
			config.ElectabilityThreshold = p.ElectabilityThreshold.Int()
		}
		if p.MinElectable != 0 {
			config.MinElectableValidators = p.MinElectable
		}
		if p.MaxElectable != 0 {
			config.MaxElectableValidators = p.MaxElectable
		}
	}

	r := &Runner{
		scn:     scn,
		stake:   newStakeBook(scn.Accounts),
		catalog: newGroupBook(scn.Groups),
		clock:   &epochCounter{epoch: 1},
		freeze:  &freezeSwitch{},
	}
	for _, g := range scn.Groups {
		r.declared = append(r.declared, electra.Address(g.Address))
	}

	engine, err := election.New(r.stake, r.catalog, r.clock, election.Options{
		Config:          config,
		Freeze:          r.freeze,
		ResultCacheSize: cacheSize,
	})
	if err != nil {
		return nil, err
	}
	r.engine = engine
	return r, nil
}

// Engine exposes the engine so the caller can serve or inspect the replayed
// state.
func (r *Runner) Engine() *election.Engine { return r.engine }

// Stake exposes the stake book backing the engine.
func (r *Runner) Stake() election.StakeSource { return r.stake }

// Run marks the declared groups eligible, then executes every step in order.
// A step failing differently than its expect declares aborts the replay, as
// does a broken ledger invariant. onStep, when given, is called after each
// completed step. A runner replays once.
func (r *Runner) Run(onStep func(done, total int)) (*Report, error) {
	if r.replayed {
		return nil, errors.New("scenario already replayed")
	}
	r.replayed = true

	for _, g := range r.scn.Groups {
		if g.Ineligible {
			continue
		}
		group := electra.Address(g.Address)
		lesser, greater := r.engine.RankHints(group, new(big.Int))
		if err := r.engine.MarkGroupEligible(group, lesser, greater); err != nil {
			return nil, errors.WithMessagef(err, "mark group %v eligible", group)
		}
	}

	report := &Report{Name: r.scn.Name, Steps: len(r.scn.Steps)}
	for i, step := range r.scn.Steps {
		if err := r.exec(i+1, &step, report); err != nil {
			return nil, errors.WithMessagef(err, "step %d (%s)", i+1, step.Op)
		}
		if err := r.verify(); err != nil {
			return nil, errors.WithMessagef(err, "after step %d (%s)", i+1, step.Op)
		}
		if onStep != nil {
			onStep(i+1, len(r.scn.Steps))
		}
	}
	report.fill(r)
	return report, nil
}

func (r *Runner) exec(num int, step *Step, report *Report) error {
	account := electra.Address(step.Account)
	group := electra.Address(step.Group)
	value := step.Value.Int()

	var err error
	switch step.Op {
	case OpVote:
		lesser, greater := r.raiseHints(group, value)
		err = r.engine.Vote(account, group, value, lesser, greater)
	case OpActivate:
		err = r.engine.Activate(account, group)
	case OpActivateFor:
		err = r.engine.ActivateFor(account, group)
	case OpRevokePending:
		lesser, greater := r.lowerHints(group, value)
		err = r.engine.RevokePending(account, group, value, lesser, greater, r.supportIndex(account, group))
	case OpRevokeActive:
		lesser, greater := r.lowerHints(group, value)
		err = r.engine.RevokeActive(account, group, value, lesser, greater, r.supportIndex(account, group))
	case OpRevokeAllActive:
		held := r.engine.ActiveVotesForGroupByAccount(group, account)
		lesser, greater := r.lowerHints(group, held)
		err = r.engine.RevokeAllActive(account, group, lesser, greater, r.supportIndex(account, group))
	case OpForceDecrement:
		err = r.forceDecrement(account, value)
	case OpDistributeRewards:
		lesser, greater := r.raiseHints(group, value)
		err = r.engine.DistributeEpochRewards(group, value, lesser, greater)
	case OpMarkEligible:
		lesser, greater := r.engine.RankHints(group, r.engine.TotalVotesForGroup(group))
		err = r.engine.MarkGroupEligible(group, lesser, greater)
	case OpMarkIneligible:
		err = r.engine.MarkGroupIneligible(group)
	case OpAllowOverMax:
		err = r.engine.SetAllowedOverMaxGroups(account, step.Allowed)
	case OpSetElectable:
		err = r.engine.SetElectableValidators(step.Min, step.Max)
	case OpSetMaxGroups:
		err = r.engine.SetMaxGroupsVotedFor(step.Max)
	case OpSetThreshold:
		err = r.engine.SetElectabilityThreshold(value)
	case OpAdvanceEpoch:
		r.clock.epoch++
		return nil
	case OpFreeze:
		r.freeze.frozen = true
		return nil
	case OpUnfreeze:
		r.freeze.frozen = false
		return nil
	case OpElect:
		var signers []electra.Address
		if signers, err = r.engine.ElectValidatorSigners(); err == nil {
			report.Elections = append(report.Elections, ElectionResult{Step: num, Signers: signers})
		}
	case OpElectN:
		var signers []electra.Address
		if signers, err = r.engine.ElectNValidatorSigners(step.Min, step.Max); err == nil {
			report.Elections = append(report.Elections, ElectionResult{Step: num, Signers: signers})
		}
	case OpCheckVotes:
		return r.checkVotes(account, group, value)
	default:
		return errors.Errorf("unknown op %q", step.Op)
	}
	return matchExpect(step.Expect, err)
}

// raiseHints computes the rank hints for group gaining value votes.
func (r *Runner) raiseHints(group electra.Address, value *big.Int) (electra.Address, electra.Address) {
	target := new(big.Int).Add(r.engine.TotalVotesForGroup(group), value)
	return r.engine.RankHints(group, target)
}

// lowerHints computes the rank hints for group losing value votes. The target
// clamps at zero; when the step is bound to fail the hints go unused.
func (r *Runner) lowerHints(group electra.Address, value *big.Int) (electra.Address, electra.Address) {
	target := new(big.Int).Sub(r.engine.TotalVotesForGroup(group), value)
	if target.Sign() < 0 {
		target.SetInt64(0)
	}
	return r.engine.RankHints(group, target)
}

// supportIndex locates group in account's support list.
func (r *Runner) supportIndex(account, group electra.Address) uint64 {
	for i, g := range r.engine.GroupsVotedForByAccount(account) {
		if g == group {
			return uint64(i)
		}
	}
	return 0
}

func (r *Runner) forceDecrement(account electra.Address, value *big.Int) error {
	lessers, greaters, indices := r.forcePlan(account, value)
	decremented, err := r.engine.ForceDecrementVotes(account, value, lessers, greaters, indices)
	if err != nil {
		return err
	}
	r.stake.slash(account, decremented)
	return nil
}

// forcePlan computes the positional hint and index slices a forced decrement
// needs. The engine drains the account's groups in reverse registration
// order, so each group's hints must describe the ranking as it will stand
// when that group's turn comes, with the later groups already drained. The
// plan mirrors the drain over a copy of the current ranking.
func (r *Runner) forcePlan(account electra.Address, maxValue *big.Int) (lessers, greaters []electra.Address, indices []uint64) {
	groups := r.engine.GroupsVotedForByAccount(account)
	lessers = make([]electra.Address, len(groups))
	greaters = make([]electra.Address, len(groups))
	indices = make([]uint64, len(groups))

	type entry struct {
		group  electra.Address
		weight *big.Int
	}
	ranked, weights := r.engine.EligibleGroupsWithVotes()
	sim := make([]entry, len(ranked))
	for i := range ranked {
		sim[i] = entry{ranked[i], weights[i]}
	}

	remaining := new(big.Int).Set(maxValue)
	for i := len(groups) - 1; i >= 0; i-- {
		indices[i] = uint64(i)
		if remaining.Sign() <= 0 {
			continue
		}
		drain := r.engine.TotalVotesForGroupByAccount(groups[i], account)
		if drain.Cmp(remaining) > 0 {
			drain = remaining
		}
		if drain.Sign() == 0 {
			continue
		}
		remaining = new(big.Int).Sub(remaining, drain)

		at := -1
		for j := range sim {
			if sim[j].group == groups[i] {
				at = j
				break
			}
		}
		if at < 0 {
			// ineligible, unranked; the engine skips the rank update
			continue
		}
		weight := new(big.Int).Sub(sim[at].weight, drain)
		sim = append(sim[:at], sim[at+1:]...)

		// the ranking keeps equal weights above a re-inserted entry, so the
		// new position is below every entry still covering the weight
		pos := len(sim)
		for j := range sim {
			if sim[j].weight.Cmp(weight) < 0 {
				pos = j
				break
			}
		}
		if pos > 0 {
			greaters[i] = sim[pos-1].group
		}
		if pos < len(sim) {
			lessers[i] = sim[pos].group
		}
		sim = append(sim, entry{})
		copy(sim[pos+1:], sim[pos:])
		sim[pos] = entry{groups[i], weight}
	}
	return
}

func (r *Runner) checkVotes(account, group electra.Address, want *big.Int) error {
	scope, got := "group", r.engine.TotalVotesForGroup(group)
	if !account.IsZero() {
		scope, got = "account", r.engine.TotalVotesForGroupByAccount(group, account)
	}
	if got.Cmp(want) != 0 {
		return errors.Errorf("%s votes: want %v, have %v", scope, want, got)
	}
	return nil
}

// verify cross-checks the engine's books through its public views. A replay
// exercises the whole mutating surface, so a broken invariant points straight
// at the step that tripped it.
func (r *Runner) verify() error {
	total, active, pending := r.engine.TotalVotes(), r.engine.ActiveVotes(), r.engine.PendingVotes()
	if sum := new(big.Int).Add(active, pending); total.Cmp(sum) != 0 {
		return errors.Errorf("total votes %v, active %v plus pending %v", total, active, pending)
	}

	sum := new(big.Int)
	for _, group := range r.declared {
		sum.Add(sum, r.engine.TotalVotesForGroup(group))
	}
	if total.Cmp(sum) != 0 {
		return errors.Errorf("network holds %v votes, groups hold %v", total, sum)
	}

	ranked, weights := r.engine.EligibleGroupsWithVotes()
	for i, group := range ranked {
		if held := r.engine.TotalVotesForGroup(group); weights[i].Cmp(held) != 0 {
			return errors.Errorf("group %v ranked at %v, holds %v", group, weights[i], held)
		}
		if i > 0 && weights[i-1].Cmp(weights[i]) < 0 {
			return errors.Errorf("ranking out of order at group %v", group)
		}
	}

	version := r.engine.Version()
	if version < r.version {
		return errors.Errorf("ledger version moved backwards, %d to %d", r.version, version)
	}
	r.version = version
	return nil
}

// matchExpect checks the engine's verdict against a step's expectation.
func matchExpect(expect string, err error) error {
	if expect == "" {
		return err
	}
	if err == nil {
		return errors.Errorf("expected a %s fault, got success", expect)
	}
	matched := false
	switch expect {
	case ExpectValidation:
		matched = fault.IsValidation(err)
	case ExpectConsistency:
		matched = fault.IsConsistency(err)
	case ExpectCapacity:
		matched = fault.IsCapacity(err)
	}
	if !matched {
		return errors.WithMessagef(err, "expected a %s fault, got", expect)
	}
	return nil
}

// Report summarizes a completed replay.
type Report struct {
	Name         string
	Steps        int
	Version      uint64
	Epoch        uint64
	TotalVotes   *big.Int
	ActiveVotes  *big.Int
	PendingVotes *big.Int
	Rankings     []Ranking
	Elections    []ElectionResult
	Digest       electra.Bytes32
}

// Ranking is one eligible group and its ranked vote weight.
type Ranking struct {
	Group electra.Address
	Votes *big.Int
}

// ElectionResult is the committee an elect step produced.
type ElectionResult struct {
	Step    int
	Signers []electra.Address
}

func (rep *Report) fill(r *Runner) {
	rep.Version = r.engine.Version()
	rep.Epoch = r.clock.epoch
	rep.TotalVotes = r.engine.TotalVotes()
	rep.ActiveVotes = r.engine.ActiveVotes()
	rep.PendingVotes = r.engine.PendingVotes()

	ranked, weights := r.engine.EligibleGroupsWithVotes()
	for i := range ranked {
		rep.Rankings = append(rep.Rankings, Ranking{Group: ranked[i], Votes: weights[i]})
	}

	h := electra.NewBlake2b()
	for _, e := range rep.Elections {
		for _, signer := range e.Signers {
			h.Write(signer.Bytes())
		}
	}
	h.Sum(rep.Digest[:0])
}
