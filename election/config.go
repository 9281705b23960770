// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"

	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/fault"
)

// Config carries the tunable election parameters. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// MaxGroupsVotedFor bounds the number of distinct groups an account may
	// support at once, unless the account is flagged over-max.
	MaxGroupsVotedFor uint64

	// ElectabilityThreshold is the fraction of total votes, fixed-point at
	// 1e18, a group must hold to win committee seats.
	ElectabilityThreshold *big.Int

	// MinElectableValidators and MaxElectableValidators bound the size of the
	// elected committee.
	MinElectableValidators uint64
	MaxElectableValidators uint64
}

// DefaultConfig returns the parameters used by the hosted network.
func DefaultConfig() Config {
	return Config{
		MaxGroupsVotedFor:      electra.DefaultMaxGroupsVotedFor,
		ElectabilityThreshold:  new(big.Int).Set(electra.DefaultElectabilityThreshold),
		MinElectableValidators: electra.DefaultMinElectableValidators,
		MaxElectableValidators: electra.DefaultMaxElectableValidators,
	}
}

// Validate checks the parameter constraints.
func (c *Config) Validate() error {
	if c.MaxGroupsVotedFor == 0 {
		return fault.NewValidation("max groups voted for cannot be zero")
	}
	if c.ElectabilityThreshold == nil || c.ElectabilityThreshold.Sign() < 0 {
		return fault.NewValidation("electability threshold must be defined")
	}
	if c.ElectabilityThreshold.Cmp(electra.PercentageFactor) >= 0 {
		return fault.NewValidation("electability threshold must be lower than 100 percent")
	}
	if c.MinElectableValidators == 0 {
		return fault.NewValidation("min electable validators cannot be zero")
	}
	if c.MinElectableValidators > c.MaxElectableValidators {
		return fault.NewValidation("min electable validators cannot exceed max")
	}
	return nil
}

func (c Config) clone() Config {
	c.ElectabilityThreshold = new(big.Int).Set(c.ElectabilityThreshold)
	return c
}
