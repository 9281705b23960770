// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger provides in-memory election collaborators for tests.
package testledger

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/electra/electra"
)

// Stake is an in-memory stake source. Error fields, when set, fail the next
// matching call and reset.
type Stake struct {
	mu        sync.Mutex
	nonvoting map[electra.Address]*big.Int
	totals    map[electra.Address]*big.Int
	network   *big.Int

	DecrementErr error
	IncrementErr error
}

func NewStake() *Stake {
	return &Stake{
		nonvoting: make(map[electra.Address]*big.Int),
		totals:    make(map[electra.Address]*big.Int),
		network:   new(big.Int),
	}
}

// Fund locks value stake for account, all of it nonvoting.
func (s *Stake) Fund(account electra.Address, value *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonvoting[account] = add(s.nonvoting[account], value)
	s.totals[account] = add(s.totals[account], value)
	s.network.Add(s.network, value)
}

func (s *Stake) DecrementNonvotingBalance(account electra.Address, value *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.DecrementErr; err != nil {
		s.DecrementErr = nil
		return err
	}
	balance := s.nonvoting[account]
	if balance == nil || balance.Cmp(value) < 0 {
		return errors.New("insufficient nonvoting balance")
	}
	balance.Sub(balance, value)
	return nil
}

func (s *Stake) IncrementNonvotingBalance(account electra.Address, value *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.IncrementErr; err != nil {
		s.IncrementErr = nil
		return err
	}
	s.nonvoting[account] = add(s.nonvoting[account], value)
	return nil
}

func (s *Stake) AccountTotalStake(account electra.Address) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return add(nil, s.totals[account]), nil
}

func (s *Stake) TotalStake() (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.network), nil
}

// NonvotingBalance returns account's current nonvoting balance.
func (s *Stake) NonvotingBalance(account electra.Address) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return add(nil, s.nonvoting[account])
}

func add(x, y *big.Int) *big.Int {
	sum := new(big.Int)
	if x != nil {
		sum.Set(x)
	}
	if y != nil {
		sum.Add(sum, y)
	}
	return sum
}

// Catalog is an in-memory group catalog.
type Catalog struct {
	mu      sync.Mutex
	members map[electra.Address][]electra.Address

	MemberCountErr error
	TopMembersErr  error
}

func NewCatalog() *Catalog {
	return &Catalog{members: make(map[electra.Address][]electra.Address)}
}

// SetMembers registers group with members in ranking order, replacing any
// previous membership.
func (c *Catalog) SetMembers(group electra.Address, members ...electra.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.members[group] = append([]electra.Address(nil), members...)
}

func (c *Catalog) GroupMemberCount(group electra.Address) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.MemberCountErr; err != nil {
		c.MemberCountErr = nil
		return 0, err
	}
	return uint64(len(c.members[group])), nil
}

func (c *Catalog) GroupsMemberCounts(groups []electra.Address) ([]uint64, error) {
	counts := make([]uint64, len(groups))
	for i, group := range groups {
		count, err := c.GroupMemberCount(group)
		if err != nil {
			return nil, err
		}
		counts[i] = count
	}
	return counts, nil
}

func (c *Catalog) TopGroupMembers(group electra.Address, n uint64) ([]electra.Address, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.TopMembersErr; err != nil {
		c.TopMembersErr = nil
		return nil, err
	}
	members := c.members[group]
	if uint64(len(members)) < n {
		return nil, errors.Errorf("group has %d members, want %d", len(members), n)
	}
	return append([]electra.Address(nil), members[:n]...), nil
}

func (c *Catalog) RegisteredValidatorCount() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var count uint64
	for _, members := range c.members {
		count += uint64(len(members))
	}
	return count, nil
}

// Clock is a settable epoch clock.
type Clock struct {
	mu    sync.Mutex
	epoch uint64
}

func NewClock(epoch uint64) *Clock {
	return &Clock{epoch: epoch}
}

func (c *Clock) CurrentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Advance moves the clock forward one epoch.
func (c *Clock) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
}

// Freeze is a settable freeze flag.
type Freeze struct {
	mu     sync.Mutex
	frozen bool
}

func (f *Freeze) IsFrozen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frozen
}

// SetFrozen sets the flag.
func (f *Freeze) SetFrozen(frozen bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frozen = frozen
}
