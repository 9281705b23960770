// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rank

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/vechain/electra/electra"
)

// Test_List_RandomOpsMatchReference drives the list with fuzzed inserts, updates
// and removals over a small key space and checks it against a plain map after
// every step. Hints are always computed with HintsFor, which must never fail.
func Test_List_RandomOpsMatchReference(t *testing.T) {
	f := fuzz.NewWithSeed(1)
	l := New[electra.Address]()
	ref := make(map[electra.Address]*big.Int)

	for i := 0; i < 2000; i++ {
		var pick, raw uint16
		f.Fuzz(&pick)
		f.Fuzz(&raw)

		key := electra.BytesToAddress([]byte{byte(pick%31) + 1})
		weight := big.NewInt(int64(raw % 1000))
		lesser, greater := l.HintsFor(key, weight)

		if l.Contains(key) {
			if pick%3 == 0 {
				require.NoError(t, l.Remove(key), "step %d: remove %v", i, key)
				delete(ref, key)
			} else {
				require.NoError(t, l.Update(key, weight, lesser, greater), "step %d: update %v", i, key)
				ref[key] = weight
			}
		} else {
			require.NoError(t, l.Insert(key, weight, lesser, greater), "step %d: insert %v", i, key)
			ref[key] = weight
		}

		checkAgainstReference(t, i, l, ref)
	}
}

func checkAgainstReference(t *testing.T, step int, l *List[electra.Address], ref map[electra.Address]*big.Int) {
	entries := l.Entries()
	require.Equal(t, len(ref), len(entries), "step %d: length mismatch", step)
	require.Equal(t, len(ref), l.Len(), "step %d: Len mismatch", step)

	for i, entry := range entries {
		want, ok := ref[entry.Key]
		require.True(t, ok, "step %d: unexpected key %v", step, entry.Key)
		require.Zero(t, want.Cmp(entry.Weight), "step %d: weight mismatch for %v", step, entry.Key)
		if i > 0 {
			require.True(t, entries[i-1].Weight.Cmp(entry.Weight) >= 0, "step %d: order violated at %d", step, i)
		}
	}

	if len(entries) > 0 {
		head, ok := l.Head()
		require.True(t, ok)
		require.Equal(t, entries[0].Key, head)
	}
}
