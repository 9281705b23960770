// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package electra_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/test/datagen"
)

func TestParseBytes32(t *testing.T) {
	b := datagen.RandBytes32()

	parsed, err := electra.ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	// the 0x prefix is optional
	parsed, err = electra.ParseBytes32(b.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	_, err = electra.ParseBytes32("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = electra.ParseBytes32("zz" + b.String()[2:])
	assert.EqualError(t, err, "invalid prefix")
}

func TestBytes32JSON(t *testing.T) {
	b := datagen.RandBytes32()

	data, err := json.Marshal(&b)
	require.NoError(t, err)
	assert.Equal(t, `"`+b.String()+`"`, string(data))

	var decoded electra.Bytes32
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
	assert.False(t, decoded.IsZero())
	assert.True(t, electra.Bytes32{}.IsZero())
}
