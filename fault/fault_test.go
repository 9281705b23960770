// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fault

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassifiers(t *testing.T) {
	validation := NewValidation("vote value cannot be zero")
	consistency := NewConsistency("get lesser and greater failure")
	capacity := NewCapacity("not enough elected validators")

	assert.True(t, IsValidation(validation))
	assert.False(t, IsValidation(consistency))
	assert.False(t, IsValidation(capacity))

	assert.True(t, IsConsistency(consistency))
	assert.False(t, IsConsistency(validation))

	assert.True(t, IsCapacity(capacity))
	assert.False(t, IsCapacity(validation))

	assert.False(t, IsValidation(nil))
	assert.False(t, IsConsistency(nil))
	assert.False(t, IsCapacity(nil))
}

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	err := errors.WithMessage(NewConsistency("group not in list"), "revoke pending")

	assert.True(t, IsConsistency(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "revoke pending: group not in list", err.Error())
}

func TestMessageFormatting(t *testing.T) {
	err := NewValidation("cannot support more than %d groups", 10)
	assert.Equal(t, "cannot support more than 10 groups", err.Error())
}
