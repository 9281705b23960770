// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co provides small goroutine lifecycle helpers.
package co

import (
	"sync"
)

// Goes tracks goroutines so their owner can wait for all of them on
// shutdown. The zero value is ready to use.
type Goes struct {
	wg sync.WaitGroup
}

// Go runs f in a new tracked goroutine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Wait blocks until every tracked goroutine has returned.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done returns a channel that closes once every tracked goroutine has
// returned.
func (g *Goes) Done() chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
