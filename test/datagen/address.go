// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen supplies random fixtures for tests.
package datagen

import (
	"crypto/rand"

	"github.com/vechain/electra/electra"
)

// RandAddress returns a random account address.
func RandAddress() (addr electra.Address) {
	rand.Read(addr[:])
	return
}

// RandAddresses returns n distinct random account addresses.
func RandAddresses(n int) []electra.Address {
	addrs := make([]electra.Address, n)
	for i := range addrs {
		addrs[i] = RandAddress()
	}
	return addrs
}

// RandBytes32 returns a random 32-byte value.
func RandBytes32() (b electra.Bytes32) {
	rand.Read(b[:])
	return
}
