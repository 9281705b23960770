// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"

	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/fault"
)

// voterAccount tracks the distinct groups an account currently supports, in
// registration order. cachedTotal is the account's total votes, maintained
// only while the account is flagged over-max so the total stays O(1) to read.
type voterAccount struct {
	groups      []electra.Address
	overMax     bool
	cachedTotal *big.Int
}

func (e *Engine) voter(account electra.Address) *voterAccount {
	return e.voters[account]
}

func (e *Engine) ensureVoter(account electra.Address) *voterAccount {
	v, ok := e.voters[account]
	if !ok {
		v = &voterAccount{cachedTotal: new(big.Int)}
		e.voters[account] = v
	}
	return v
}

func (v *voterAccount) supports(group electra.Address) bool {
	for _, g := range v.groups {
		if g == group {
			return true
		}
	}
	return false
}

// checkGroupAt verifies a caller-supplied position of group in the support
// list. A stale position is rejected rather than searched around.
func (v *voterAccount) checkGroupAt(group electra.Address, index uint64) error {
	if index >= uint64(len(v.groups)) {
		return fault.NewValidation("group index out of range")
	}
	if v.groups[index] != group {
		return fault.NewConsistency("group index does not match group")
	}
	return nil
}

// removeGroupAt drops the group at index by swap-remove. Callers have
// validated index with checkGroupAt.
func (v *voterAccount) removeGroupAt(index uint64) {
	last := len(v.groups) - 1
	v.groups[index] = v.groups[last]
	v.groups = v.groups[:last]
}

func (v *voterAccount) creditCached(value *big.Int) {
	if v.overMax {
		v.cachedTotal.Add(v.cachedTotal, value)
	}
}

func (v *voterAccount) debitCached(value *big.Int) {
	if v.overMax {
		v.cachedTotal.Sub(v.cachedTotal, value)
	}
}
