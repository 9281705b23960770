// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package election implements stake-weighted, proportional validator
// elections. Accounts delegate locked stake to candidate groups as pending
// votes, season them for an epoch, then activate them into reward-bearing
// units. Eligible groups are ranked by total vote weight, and once per epoch a
// capacity-constrained highest-averages allocation turns the ranking into an
// ordered committee of validator signers.
//
// Every mutating operation is atomic: it either fully applies or leaves the
// ledger untouched. The engine expects a serialized-transaction host; a
// reentrant or racing mutation is rejected as a consistency fault.
package election

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/electra/cache"
	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/fault"
	"github.com/vechain/electra/log"
	"github.com/vechain/electra/rank"
)

var logger = log.WithContext("pkg", "election")

const defaultResultCacheSize = 16

// Options configures an Engine beyond its collaborators.
type Options struct {
	// Config holds the election parameters. Start from DefaultConfig.
	Config Config

	// Freeze optionally gates committee elections. Nil means never frozen.
	Freeze FreezeFlag

	// ResultCacheSize bounds the memoized committee results. Defaults to 16.
	ResultCacheSize int
}

// Engine is the vote ledger and election engine.
type Engine struct {
	mu      sync.RWMutex
	config  Config
	version uint64

	pending  *pendingVotes
	active   *activeVotes
	voters   map[electra.Address]*voterAccount
	eligible *rank.List[electra.Address]

	stake   StakeSource
	catalog GroupCatalog
	clock   EpochClock
	freeze  FreezeFlag

	feed  event.Feed
	scope event.SubscriptionScope

	results *cache.LRU
}

// New creates an engine over the given collaborators.
func New(stake StakeSource, catalog GroupCatalog, clock EpochClock, opts Options) (*Engine, error) {
	if stake == nil || catalog == nil || clock == nil {
		return nil, fault.NewValidation("stake source, group catalog and epoch clock are required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	size := opts.ResultCacheSize
	if size <= 0 {
		size = defaultResultCacheSize
	}
	results, err := cache.NewLRU(size)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:   opts.Config.clone(),
		pending:  newPendingVotes(),
		active:   newActiveVotes(),
		voters:   make(map[electra.Address]*voterAccount),
		eligible: rank.New[electra.Address](),
		stake:    stake,
		catalog:  catalog,
		clock:    clock,
		freeze:   opts.Freeze,
		results:  results,
	}
	logger.Debug("engine created",
		"maxGroupsVotedFor", e.config.MaxGroupsVotedFor,
		"electabilityThreshold", e.config.ElectabilityThreshold,
		"minElectable", e.config.MinElectableValidators,
		"maxElectable", e.config.MaxElectableValidators)
	return e, nil
}

// Close releases all event subscriptions.
func (e *Engine) Close() {
	e.scope.Close()
	logger.Debug("engine closed")
}

// lockMutate acquires the exclusive mutation guard. The ledger serves a
// serialized-transaction host, so a busy guard means a collaborator reentered
// or the host let two mutations race; either way the call must not proceed on
// a half-applied state.
func (e *Engine) lockMutate() error {
	if !e.mu.TryLock() {
		return fault.NewConsistency("vote ledger busy")
	}
	return nil
}

// commit bumps the ledger version and stamps the event with it. Mutation
// guard held by caller.
func (e *Engine) commit(name string, data any) *Event {
	e.version++
	return &Event{Version: e.version, Name: name, Data: data}
}

// totalForGroup returns pending+active votes for group. Lock held by caller.
func (e *Engine) totalForGroup(group electra.Address) *big.Int {
	total := e.pending.groupTotal(group)
	return total.Add(total, e.active.groupTotal(group))
}

// totalForGroupByAccount returns account's pending+active votes for group.
// Lock held by caller.
func (e *Engine) totalForGroupByAccount(group, account electra.Address) *big.Int {
	total, _ := e.pending.accountVote(group, account)
	return total.Add(total, e.active.accountVotes(group, account))
}

// raiseGroupWeight lifts group's rank weight by value. It works off the
// ranked weight, not the vote pools, so it is indifferent to whether the
// pools were already mutated. Callers ensure the group is ranked.
func (e *Engine) raiseGroupWeight(group electra.Address, value *big.Int, lesser, greater electra.Address) error {
	weight, ok := e.eligible.Weight(group)
	if !ok {
		return fault.NewConsistency("group not ranked")
	}
	weight.Add(weight, value)
	return e.eligible.Update(group, weight, lesser, greater)
}

// lowerGroupWeight cuts group's rank weight by value. Unranked (ineligible)
// groups keep their vote totals and are skipped.
func (e *Engine) lowerGroupWeight(group electra.Address, value *big.Int, lesser, greater electra.Address) error {
	weight, ok := e.eligible.Weight(group)
	if !ok {
		return nil
	}
	weight.Sub(weight, value)
	if weight.Sign() < 0 {
		return fault.NewConsistency("group weight underflow")
	}
	return e.eligible.Update(group, weight, lesser, greater)
}

// restoreGroupWeight resyncs group's rank weight to the ledger totals after a
// collaborator failure, with internally computed hints.
func (e *Engine) restoreGroupWeight(group electra.Address) {
	if !e.eligible.Contains(group) {
		return
	}
	weight := e.totalForGroup(group)
	if current, ok := e.eligible.Weight(group); ok && current.Cmp(weight) == 0 {
		return
	}
	lesser, greater := e.eligible.HintsFor(group, weight)
	if err := e.eligible.Update(group, weight, lesser, greater); err != nil {
		logger.Error("failed to restore group rank weight", "group", group, "err", err)
	}
}

// SetElectableValidators updates the committee size bounds.
func (e *Engine) SetElectableValidators(minElectable, maxElectable uint64) error {
	ev, err := e.setElectableValidators(minElectable, maxElectable)
	countOp("set_electable_validators", err)
	if err != nil {
		return err
	}
	e.feed.Send(ev)
	return nil
}

func (e *Engine) setElectableValidators(minElectable, maxElectable uint64) (*Event, error) {
	if minElectable == 0 {
		return nil, fault.NewValidation("min electable validators cannot be zero")
	}
	if minElectable > maxElectable {
		return nil, fault.NewValidation("min electable validators cannot exceed max")
	}
	if err := e.lockMutate(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if minElectable == e.config.MinElectableValidators && maxElectable == e.config.MaxElectableValidators {
		return nil, fault.NewValidation("electable validators unchanged")
	}
	e.config.MinElectableValidators = minElectable
	e.config.MaxElectableValidators = maxElectable
	logger.Info("electable validators set", "min", minElectable, "max", maxElectable)
	return e.commit(EventElectableValidatorsSet, &ElectableValidatorsSet{Min: minElectable, Max: maxElectable}), nil
}

// SetMaxGroupsVotedFor updates the per-account distinct group bound.
func (e *Engine) SetMaxGroupsVotedFor(maxGroups uint64) error {
	ev, err := e.setMaxGroupsVotedFor(maxGroups)
	countOp("set_max_groups_voted_for", err)
	if err != nil {
		return err
	}
	e.feed.Send(ev)
	return nil
}

func (e *Engine) setMaxGroupsVotedFor(maxGroups uint64) (*Event, error) {
	if maxGroups == 0 {
		return nil, fault.NewValidation("max groups voted for cannot be zero")
	}
	if err := e.lockMutate(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if maxGroups == e.config.MaxGroupsVotedFor {
		return nil, fault.NewValidation("max groups voted for unchanged")
	}
	e.config.MaxGroupsVotedFor = maxGroups
	logger.Info("max groups voted for set", "max", maxGroups)
	return e.commit(EventMaxGroupsVotedForSet, &MaxGroupsVotedForSet{Max: maxGroups}), nil
}

// SetElectabilityThreshold updates the vote fraction (fixed-point 1e18) a
// group needs to win seats.
func (e *Engine) SetElectabilityThreshold(threshold *big.Int) error {
	ev, err := e.setElectabilityThreshold(threshold)
	countOp("set_electability_threshold", err)
	if err != nil {
		return err
	}
	e.feed.Send(ev)
	return nil
}

func (e *Engine) setElectabilityThreshold(threshold *big.Int) (*Event, error) {
	if threshold == nil || threshold.Sign() < 0 {
		return nil, fault.NewValidation("electability threshold must be defined")
	}
	if threshold.Cmp(electra.PercentageFactor) >= 0 {
		return nil, fault.NewValidation("electability threshold must be lower than 100 percent")
	}
	if err := e.lockMutate(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if threshold.Cmp(e.config.ElectabilityThreshold) == 0 {
		return nil, fault.NewValidation("electability threshold unchanged")
	}
	e.config.ElectabilityThreshold = new(big.Int).Set(threshold)
	logger.Info("electability threshold set", "threshold", threshold)
	return e.commit(EventElectabilityThresholdSet, &ElectabilityThresholdSet{Threshold: new(big.Int).Set(threshold)}), nil
}
