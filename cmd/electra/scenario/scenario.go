// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package scenario loads and replays scripted vote sequences against a fresh
// election engine. A scenario declares the groups, the voters and their
// stakes, then drives the engine step by step, asserting the fault class of
// steps expected to fail. Replays are deterministic, so a scenario file both
// documents a ledger state and reproduces it.
package scenario

import (
	"io"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"github.com/vechain/electra/electra"
	"gopkg.in/yaml.v3"
)

// Scenario is the top level scenario document.
type Scenario struct {
	Name     string    `yaml:"name"`
	Config   *Params   `yaml:"config,omitempty"`
	Groups   []Group   `yaml:"groups,omitempty"`
	Accounts []Account `yaml:"accounts,omitempty"`
	Steps    []Step    `yaml:"steps"`
}

// Params overrides the default election parameters. Zero fields keep the
// default.
type Params struct {
	MaxGroupsVotedFor     uint64  `yaml:"maxGroupsVotedFor,omitempty"`
	ElectabilityThreshold *Amount `yaml:"electabilityThreshold,omitempty"`
	MinElectable          uint64  `yaml:"minElectable,omitempty"`
	MaxElectable          uint64  `yaml:"maxElectable,omitempty"`
}

// Group declares a validator group. Groups are marked eligible during setup
// unless flagged ineligible; an ineligible group can still be marked later by
// a step.
type Group struct {
	Address    Address   `yaml:"address"`
	Members    []Address `yaml:"members,omitempty"`
	Ineligible bool      `yaml:"ineligible,omitempty"`
}

// Account declares a voter and its locked stake.
type Account struct {
	Address Address `yaml:"address"`
	Stake   *Amount `yaml:"stake"`
}

// Step is one scripted operation. Fields irrelevant to the op are ignored by
// the runner but rejected by the decoder when misspelled. Omitted addresses
// and amounts reach the engine as zero values, so a step can deliberately
// provoke a validation fault.
type Step struct {
	Op      string  `yaml:"op"`
	Account Address `yaml:"account,omitempty"`
	Group   Address `yaml:"group,omitempty"`
	Value   *Amount `yaml:"value,omitempty"`
	Allowed bool    `yaml:"allowed,omitempty"`
	Min     uint64  `yaml:"min,omitempty"`
	Max     uint64  `yaml:"max,omitempty"`
	Expect  string  `yaml:"expect,omitempty"`
}

// Step operations.
const (
	OpVote              = "vote"
	OpActivate          = "activate"
	OpActivateFor       = "activate-for"
	OpRevokePending     = "revoke-pending"
	OpRevokeActive      = "revoke-active"
	OpRevokeAllActive   = "revoke-all-active"
	OpForceDecrement    = "force-decrement"
	OpDistributeRewards = "distribute-rewards"
	OpMarkEligible      = "mark-eligible"
	OpMarkIneligible    = "mark-ineligible"
	OpAllowOverMax      = "allow-over-max-groups"
	OpSetElectable      = "set-electable"
	OpSetMaxGroups      = "set-max-groups"
	OpSetThreshold      = "set-threshold"
	OpAdvanceEpoch      = "advance-epoch"
	OpFreeze            = "freeze"
	OpUnfreeze          = "unfreeze"
	OpElect             = "elect"
	OpElectN            = "elect-n"
	OpCheckVotes        = "check-votes"
)

// Expected fault classes.
const (
	ExpectValidation  = "validation"
	ExpectConsistency = "consistency"
	ExpectCapacity    = "capacity"
)

var engineOps = map[string]bool{
	OpVote:              true,
	OpActivate:          true,
	OpActivateFor:       true,
	OpRevokePending:     true,
	OpRevokeActive:      true,
	OpRevokeAllActive:   true,
	OpForceDecrement:    true,
	OpDistributeRewards: true,
	OpMarkEligible:      true,
	OpMarkIneligible:    true,
	OpAllowOverMax:      true,
	OpSetElectable:      true,
	OpSetMaxGroups:      true,
	OpSetThreshold:      true,
	OpElect:             true,
	OpElectN:            true,
}

var clockOps = map[string]bool{
	OpAdvanceEpoch: true,
	OpFreeze:       true,
	OpUnfreeze:     true,
	OpCheckVotes:   true,
}

// Load reads a scenario document from path.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithMessage(err, "open scenario")
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a scenario document. Unknown fields are
// rejected so a typoed key fails loudly instead of silently defaulting.
func Parse(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var scn Scenario
	if err := dec.Decode(&scn); err != nil {
		return nil, errors.WithMessage(err, "decode scenario")
	}
	if err := scn.validate(); err != nil {
		return nil, err
	}
	return &scn, nil
}

// validate checks the document structure. Semantic errors, an over-vote or a
// revoke of more than is held, are the engine's to report, and steps assert
// them via expect.
func (s *Scenario) validate() error {
	if s.Name == "" {
		return errors.New("scenario name must be given")
	}
	seen := make(map[electra.Address]bool, len(s.Groups))
	for i, g := range s.Groups {
		addr := electra.Address(g.Address)
		if addr.IsZero() {
			return errors.Errorf("groups[%d]: address must be given", i)
		}
		if seen[addr] {
			return errors.Errorf("groups[%d]: duplicate group %v", i, addr)
		}
		seen[addr] = true
	}
	seen = make(map[electra.Address]bool, len(s.Accounts))
	for i, a := range s.Accounts {
		addr := electra.Address(a.Address)
		if addr.IsZero() {
			return errors.Errorf("accounts[%d]: address must be given", i)
		}
		if seen[addr] {
			return errors.Errorf("accounts[%d]: duplicate account %v", i, addr)
		}
		seen[addr] = true
		if a.Stake == nil || a.Stake.Int().Sign() <= 0 {
			return errors.Errorf("accounts[%d]: stake must be positive", i)
		}
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return errors.WithMessagef(err, "steps[%d]", i)
		}
	}
	return nil
}

func (s *Step) validate() error {
	switch {
	case engineOps[s.Op]:
		switch s.Expect {
		case "", ExpectValidation, ExpectConsistency, ExpectCapacity:
		default:
			return errors.Errorf("op %s: unknown expect %q", s.Op, s.Expect)
		}
	case clockOps[s.Op]:
		if s.Expect != "" {
			return errors.Errorf("op %s cannot fail, drop the expect", s.Op)
		}
		if s.Op == OpCheckVotes && electra.Address(s.Group).IsZero() {
			return errors.New("op check-votes: group must be given")
		}
	case s.Op == "":
		return errors.New("op must be given")
	default:
		return errors.Errorf("unknown op %q", s.Op)
	}
	return nil
}

// Address is a 20-byte address YAML scalar, 0x-prefixed hex.
type Address electra.Address

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Address) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New("address must be a scalar")
	}
	addr, err := electra.ParseAddress(node.Value)
	if err != nil {
		return errors.WithMessagef(err, "address %q", node.Value)
	}
	*a = Address(*addr)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Address) MarshalYAML() (interface{}, error) {
	return electra.Address(a).String(), nil
}

// Amount is an arbitrary-precision integer YAML scalar. Bare or quoted,
// decimal or 0x-prefixed hexadecimal.
type Amount big.Int

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New("amount must be a scalar")
	}
	v, ok := math.ParseBig256(node.Value)
	if !ok || v == nil {
		return errors.Errorf("amount %q is not an integer", node.Value)
	}
	(*big.Int)(a).Set(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a *Amount) MarshalYAML() (interface{}, error) {
	return a.Int().String(), nil
}

// Int returns the amount as a big integer, zero when nil.
func (a *Amount) Int() *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return (*big.Int)(a)
}
