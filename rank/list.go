// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rank maintains key/weight pairs in descending weight order.
//
// The list is a doubly linked arena keyed by K. Mutations take caller
// supplied neighbor hints and validate them locally, so a correct hint makes
// insertion O(1) and a hint that is off by one position is repaired with a
// single step. A worse hint aborts the call without touching the list. The
// zero value of K marks "no neighbor" and is not a legal key.
package rank

import (
	"math/big"

	"github.com/vechain/electra/fault"
)

type node[K comparable] struct {
	weight *big.Int
	prev   K // toward the head, the greater neighbor
	next   K // toward the tail, the lesser neighbor
}

// List holds keys sorted by weight, the head carrying the largest weight.
type List[K comparable] struct {
	head  K
	tail  K
	nodes map[K]*node[K]
}

// New creates an empty list.
func New[K comparable]() *List[K] {
	return &List[K]{
		nodes: make(map[K]*node[K]),
	}
}

// Len returns the number of keys in the list.
func (l *List[K]) Len() int {
	return len(l.nodes)
}

// Contains reports whether key is in the list.
func (l *List[K]) Contains(key K) bool {
	_, ok := l.nodes[key]
	return ok
}

// Weight returns a copy of the weight stored for key.
func (l *List[K]) Weight(key K) (*big.Int, bool) {
	n, ok := l.nodes[key]
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(n.weight), true
}

// Head returns the key with the largest weight.
func (l *List[K]) Head() (K, bool) {
	var zero K
	return l.head, l.head != zero
}

// Insert places key at the position bracketed by the lesser and greater
// neighbor hints. A zero lesser hint claims the smallest weight, a zero
// greater hint the largest; both zero is only legal while the list is empty.
func (l *List[K]) Insert(key K, weight *big.Int, lesser, greater K) error {
	var zero K
	if key == zero {
		return fault.NewValidation("key must be defined")
	}
	if key == lesser || key == greater {
		return fault.NewValidation("key cannot be the same as lesser or greater")
	}
	if _, ok := l.nodes[key]; ok {
		return fault.NewValidation("cannot insert an existing key")
	}
	if weight == nil || weight.Sign() < 0 {
		return fault.NewValidation("weight must be non-negative")
	}
	if lesser != zero && !l.Contains(lesser) {
		return fault.NewConsistency("invalid lesser key")
	}
	if greater != zero && !l.Contains(greater) {
		return fault.NewConsistency("invalid greater key")
	}

	if len(l.nodes) == 0 {
		l.nodes[key] = &node[K]{weight: new(big.Int).Set(weight)}
		l.head = key
		l.tail = key
		return nil
	}

	if lesser == zero && greater == zero {
		return fault.NewValidation("lesser and greater key zero")
	}

	lesser, greater, err := l.resolvePosition(weight, lesser, greater)
	if err != nil {
		return err
	}
	l.link(key, new(big.Int).Set(weight), lesser, greater)
	return nil
}

// Remove unlinks key and relinks its neighbors.
func (l *List[K]) Remove(key K) error {
	var zero K
	if key == zero {
		return fault.NewValidation("key must be defined")
	}
	if _, ok := l.nodes[key]; !ok {
		return fault.NewConsistency("key not in list")
	}
	l.unlink(key)
	delete(l.nodes, key)
	return nil
}

// Update moves key to the position its new weight demands. The hints must
// describe the neighborhood of the list with key already removed.
func (l *List[K]) Update(key K, weight *big.Int, lesser, greater K) error {
	old, ok := l.nodes[key]
	if !ok {
		return fault.NewConsistency("key not in list")
	}
	saved := *old

	l.unlink(key)
	delete(l.nodes, key)
	if err := l.Insert(key, weight, lesser, greater); err != nil {
		// put the key back where it was, the list must stay untouched on failure
		l.link(key, saved.weight, saved.next, saved.prev)
		return err
	}
	return nil
}

// HeadN returns the n keys with the largest weights, in descending order.
func (l *List[K]) HeadN(n int) ([]K, error) {
	if n < 0 || n > len(l.nodes) {
		return nil, fault.NewValidation("not enough elements")
	}
	var zero K
	keys := make([]K, 0, n)
	for cur := l.head; len(keys) < n; cur = l.nodes[cur].next {
		if cur == zero {
			break
		}
		keys = append(keys, cur)
	}
	return keys, nil
}

// Keys returns every key in descending weight order.
func (l *List[K]) Keys() []K {
	keys, _ := l.HeadN(len(l.nodes))
	return keys
}

// Entry is one key/weight pair of the list.
type Entry[K comparable] struct {
	Key    K
	Weight *big.Int
}

// Entries returns every key with a copy of its weight, in descending weight order.
func (l *List[K]) Entries() []Entry[K] {
	var zero K
	entries := make([]Entry[K], 0, len(l.nodes))
	for cur := l.head; cur != zero; cur = l.nodes[cur].next {
		entries = append(entries, Entry[K]{Key: cur, Weight: new(big.Int).Set(l.nodes[cur].weight)})
	}
	return entries
}

// CountAtOrAbove counts consecutive head-side keys with weight at or above
// threshold, stopping at the first key below it or after max keys.
func (l *List[K]) CountAtOrAbove(threshold *big.Int, max int) int {
	if max < 0 {
		return 0
	}
	if max > len(l.nodes) {
		max = len(l.nodes)
	}
	cur := l.head
	for i := 0; i < max; i++ {
		if l.nodes[cur].weight.Cmp(threshold) < 0 {
			return i
		}
		cur = l.nodes[cur].next
	}
	return max
}

// HintsFor computes the exact neighbor hints for placing key at weight,
// ignoring key's current position if it is in the list. It scans from the
// head and exists for callers and tests; the mutating operations never fall
// back to it.
func (l *List[K]) HintsFor(key K, weight *big.Int) (lesser K, greater K) {
	var zero K
	for cur := l.head; cur != zero; cur = l.nodes[cur].next {
		if cur == key {
			continue
		}
		if l.nodes[cur].weight.Cmp(weight) >= 0 {
			greater = cur
		} else {
			lesser = cur
			break
		}
	}
	return
}

// resolvePosition normalizes the hints into an adjacent (lesser, greater)
// pair. One of four conditions must hold, checked in order:
//  1. the weight is no larger than the current smallest,
//  2. the weight is no smaller than the current largest,
//  3. the weight fits just above the hinted lesser key,
//  4. the weight fits just below the hinted greater key.
func (l *List[K]) resolvePosition(weight *big.Int, lesser, greater K) (K, K, error) {
	var zero K
	switch {
	case lesser == zero && l.isBetween(weight, zero, l.tail):
		return zero, l.tail, nil
	case greater == zero && l.isBetween(weight, l.head, zero):
		return l.head, zero, nil
	case lesser != zero && l.isBetween(weight, lesser, l.nodes[lesser].prev):
		return lesser, l.nodes[lesser].prev, nil
	case greater != zero && l.isBetween(weight, l.nodes[greater].next, greater):
		return l.nodes[greater].next, greater, nil
	default:
		return zero, zero, fault.NewConsistency("get lesser and greater failure")
	}
}

// isBetween reports whether weight fits between the weights of the lesser
// and greater keys, a zero key standing in for the open end.
func (l *List[K]) isBetween(weight *big.Int, lesser, greater K) bool {
	var zero K
	fitsLesser := lesser == zero || l.nodes[lesser].weight.Cmp(weight) <= 0
	fitsGreater := greater == zero || l.nodes[greater].weight.Cmp(weight) >= 0
	return fitsLesser && fitsGreater
}

// link places key between the adjacent lesser and greater keys. The pair
// must come out of resolvePosition or a saved node.
func (l *List[K]) link(key K, weight *big.Int, lesser, greater K) {
	var zero K
	n := &node[K]{weight: weight, prev: greater, next: lesser}
	l.nodes[key] = n

	if lesser == zero {
		l.tail = key
	} else {
		l.nodes[lesser].prev = key
	}
	if greater == zero {
		l.head = key
	} else {
		l.nodes[greater].next = key
	}
}

// unlink detaches key, relinking its neighbors. The map entry stays.
func (l *List[K]) unlink(key K) {
	var zero K
	n := l.nodes[key]

	if n.prev == zero {
		l.head = n.next
	} else {
		l.nodes[n.prev].next = n.next
	}
	if n.next == zero {
		l.tail = n.prev
	} else {
		l.nodes[n.next].prev = n.prev
	}
	n.prev = zero
	n.next = zero
}
