// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/electra/electra"
)

// Event names.
const (
	EventVoteCast                 = "ValidatorGroupVoteCast"
	EventVoteActivated            = "ValidatorGroupVoteActivated"
	EventPendingVoteRevoked       = "ValidatorGroupPendingVoteRevoked"
	EventActiveVoteRevoked        = "ValidatorGroupActiveVoteRevoked"
	EventGroupMarkedEligible      = "ValidatorGroupMarkedEligible"
	EventGroupMarkedIneligible    = "ValidatorGroupMarkedIneligible"
	EventEpochRewardsDistributed  = "EpochRewardsDistributedToVoters"
	EventElectableValidatorsSet   = "ElectableValidatorsSet"
	EventMaxGroupsVotedForSet     = "MaxGroupsVotedForSet"
	EventElectabilityThresholdSet = "ElectabilityThresholdSet"
	EventAllowedOverMaxGroupsSet  = "AllowedToVoteOverMaxGroupsSet"
)

// Event is one applied mutation. Version is the ledger version the mutation
// produced and Data is the payload type matching Name.
type Event struct {
	Version uint64 `json:"version"`
	Name    string `json:"name"`
	Data    any    `json:"data"`
}

// VoteCast is the payload of EventVoteCast.
type VoteCast struct {
	Account electra.Address `json:"account"`
	Group   electra.Address `json:"group"`
	Value   *big.Int        `json:"value"`
}

// VoteActivated is the payload of EventVoteActivated.
type VoteActivated struct {
	Account electra.Address `json:"account"`
	Group   electra.Address `json:"group"`
	Value   *big.Int        `json:"value"`
	Units   *big.Int        `json:"units"`
}

// PendingVoteRevoked is the payload of EventPendingVoteRevoked.
type PendingVoteRevoked struct {
	Account electra.Address `json:"account"`
	Group   electra.Address `json:"group"`
	Value   *big.Int        `json:"value"`
}

// ActiveVoteRevoked is the payload of EventActiveVoteRevoked.
type ActiveVoteRevoked struct {
	Account electra.Address `json:"account"`
	Group   electra.Address `json:"group"`
	Value   *big.Int        `json:"value"`
	Units   *big.Int        `json:"units"`
}

// GroupMarkedEligible is the payload of EventGroupMarkedEligible.
type GroupMarkedEligible struct {
	Group electra.Address `json:"group"`
}

// GroupMarkedIneligible is the payload of EventGroupMarkedIneligible.
type GroupMarkedIneligible struct {
	Group electra.Address `json:"group"`
}

// EpochRewardsDistributed is the payload of EventEpochRewardsDistributed.
type EpochRewardsDistributed struct {
	Group electra.Address `json:"group"`
	Value *big.Int        `json:"value"`
}

// ElectableValidatorsSet is the payload of EventElectableValidatorsSet.
type ElectableValidatorsSet struct {
	Min uint64 `json:"min"`
	Max uint64 `json:"max"`
}

// MaxGroupsVotedForSet is the payload of EventMaxGroupsVotedForSet.
type MaxGroupsVotedForSet struct {
	Max uint64 `json:"max"`
}

// ElectabilityThresholdSet is the payload of EventElectabilityThresholdSet.
type ElectabilityThresholdSet struct {
	Threshold *big.Int `json:"threshold"`
}

// AllowedOverMaxGroupsSet is the payload of EventAllowedOverMaxGroupsSet.
type AllowedOverMaxGroupsSet struct {
	Account electra.Address `json:"account"`
	Allowed bool            `json:"allowed"`
}

// SubscribeEvents delivers every applied mutation to ch until the returned
// subscription ends. Events carry strictly increasing versions; a mutation
// emitting several events stamps them all with one version.
func (e *Engine) SubscribeEvents(ch chan *Event) event.Subscription {
	return e.scope.Track(e.feed.Subscribe(ch))
}
