// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fault defines the error classes raised by the election engine.
//
// Every mutating operation is all or nothing: an error of any class below
// means no state was changed. Consistency errors are expected during normal
// operation (stale hints, stale indices) and callers recover by recomputing
// arguments from current state and retrying.
package fault

import (
	"errors"
	"fmt"
)

// ErrValidation reports an argument that can never be right: zero keys or
// amounts, self referential hints, ineligible groups, out of range indices,
// or arithmetic that would wrap.
type ErrValidation struct {
	message string
}

func NewValidation(format string, args ...any) *ErrValidation {
	return &ErrValidation{message: fmt.Sprintf(format, args...)}
}

func (e *ErrValidation) Error() string {
	return e.message
}

// ErrConsistency reports an argument that was right for an earlier state of
// the ledger: a hint that no longer brackets the true position, a stale list
// index, or a reentrant call observing a half applied mutation.
type ErrConsistency struct {
	message string
}

func NewConsistency(format string, args ...any) *ErrConsistency {
	return &ErrConsistency{message: fmt.Sprintf(format, args...)}
}

func (e *ErrConsistency) Error() string {
	return e.message
}

// ErrCapacity reports a bound the operation may not cross: a vote beyond a
// group's receivable capacity, or an election that cannot seat the minimum
// committee.
type ErrCapacity struct {
	message string
}

func NewCapacity(format string, args ...any) *ErrCapacity {
	return &ErrCapacity{message: fmt.Sprintf(format, args...)}
}

func (e *ErrCapacity) Error() string {
	return e.message
}

// IsValidation reports whether err is classified as a validation error.
func IsValidation(err error) bool {
	var ve *ErrValidation
	return errors.As(err, &ve)
}

// IsConsistency reports whether err is classified as a consistency error.
func IsConsistency(err error) bool {
	var ce *ErrConsistency
	return errors.As(err, &ce)
}

// IsCapacity reports whether err is classified as a capacity error.
func IsCapacity(err error) bool {
	var ce *ErrCapacity
	return errors.As(err, &ce)
}
