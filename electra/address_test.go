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

func TestParseAddress(t *testing.T) {
	addr := datagen.RandAddress()

	parsed, err := electra.ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	// the 0x prefix is optional
	parsed, err = electra.ParseAddress(addr.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	_, err = electra.ParseAddress("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = electra.ParseAddress("zz" + addr.String()[2:])
	assert.EqualError(t, err, "invalid prefix")

	_, err = electra.ParseAddress("0xzz" + addr.String()[4:])
	assert.Error(t, err)

	assert.Equal(t, addr, electra.MustParseAddress(addr.String()))
	assert.Panics(t, func() { electra.MustParseAddress("nonsense") })
}

func TestAddressJSON(t *testing.T) {
	addr := datagen.RandAddress()

	data, err := json.Marshal(&addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded electra.Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"0x1234"`), &decoded))
}

func TestBytesToAddress(t *testing.T) {
	addr := electra.BytesToAddress([]byte{0xbe, 0xef})
	assert.Equal(t, "0x000000000000000000000000000000000000beef", addr.String())
	assert.False(t, addr.IsZero())
	assert.True(t, electra.Address{}.IsZero())
	assert.Equal(t, addr[:], addr.Bytes())
}
