// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"math/big"
	mathrand "math/rand/v2"
)

// RandIntN returns a random int in [0, n).
func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandVote returns a random positive vote value in [1, max].
func RandVote(max int64) *big.Int {
	return big.NewInt(mathrand.Int64N(max) + 1) //#nosec G404
}
