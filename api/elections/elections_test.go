// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package elections_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/electra/api/elections"
	"github.com/vechain/electra/election"
	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/test/testledger"
)

var (
	ts     *httptest.Server
	freeze *testledger.Freeze

	groupOne    = electra.MustParseAddress("0x0000000000000000000000000000000000000101")
	groupTwo    = electra.MustParseAddress("0x0000000000000000000000000000000000000102")
	memberOne   = electra.MustParseAddress("0x0000000000000000000000000000000000000111")
	memberTwo   = electra.MustParseAddress("0x0000000000000000000000000000000000000112")
	memberThree = electra.MustParseAddress("0x0000000000000000000000000000000000000121")
	voterOne    = electra.MustParseAddress("0x0000000000000000000000000000000000000a01")
	voterTwo    = electra.MustParseAddress("0x0000000000000000000000000000000000000a02")
)

func TestElections(t *testing.T) {
	initElectionsServer(t)
	defer ts.Close()

	t.Run("getSummary", testGetSummary)
	t.Run("getGroups", testGetGroups)
	t.Run("getGroup", testGetGroup)
	t.Run("getReceivable", testGetReceivable)
	t.Run("getGroupAccount", testGetGroupAccount)
	t.Run("getAccount", testGetAccount)
	t.Run("getSigners", testGetSigners)
	t.Run("getSignersBounded", testGetSignersBounded)
	t.Run("badRequests", testBadRequests)
	t.Run("signersBeyondMembers", testSignersBeyondMembers)
	t.Run("signersWhileFrozen", testSignersWhileFrozen)
}

// initElectionsServer seeds two eligible groups, 300 active votes on the first
// and 200 pending on the second, and serves the election API over them.
func initElectionsServer(t *testing.T) {
	stake := testledger.NewStake()
	catalog := testledger.NewCatalog()
	clock := testledger.NewClock(1)
	freeze = &testledger.Freeze{}

	engine, err := election.New(stake, catalog, clock, election.Options{
		Config: election.Config{
			MaxGroupsVotedFor:      3,
			ElectabilityThreshold:  big.NewInt(1e15),
			MinElectableValidators: 1,
			MaxElectableValidators: 3,
		},
		Freeze: freeze,
	})
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	catalog.SetMembers(groupOne, memberOne, memberTwo)
	catalog.SetMembers(groupTwo, memberThree)
	stake.Fund(voterOne, big.NewInt(1000))
	stake.Fund(voterTwo, big.NewInt(500))

	for _, group := range []electra.Address{groupOne, groupTwo} {
		lesser, greater := engine.RankHints(group, new(big.Int))
		require.NoError(t, engine.MarkGroupEligible(group, lesser, greater))
	}
	vote := func(account, group electra.Address, value *big.Int) {
		weight := new(big.Int).Add(engine.TotalVotesForGroup(group), value)
		lesser, greater := engine.RankHints(group, weight)
		require.NoError(t, engine.Vote(account, group, value, lesser, greater))
	}
	vote(voterOne, groupOne, big.NewInt(300))
	vote(voterTwo, groupTwo, big.NewInt(200))
	clock.Advance()
	require.NoError(t, engine.Activate(voterOne, groupOne))

	router := mux.NewRouter()
	elections.New(engine, stake).Mount(router, "/election")
	ts = httptest.NewServer(router)
}

func testGetSummary(t *testing.T) {
	body, status := httpGet(t, "/election/summary")
	require.Equal(t, http.StatusOK, status)

	var summary elections.Summary
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, int64(500), bigValue(summary.TotalVotes).Int64())
	assert.Equal(t, int64(300), bigValue(summary.ActiveVotes).Int64())
	assert.Equal(t, int64(200), bigValue(summary.PendingVotes).Int64())
	assert.Equal(t, 2, summary.EligibleGroups)
	assert.Equal(t, uint64(1), summary.MinElectable)
	assert.Equal(t, uint64(3), summary.MaxElectable)
	assert.Equal(t, uint64(3), summary.MaxGroupsVotedFor)
	assert.Equal(t, big.NewInt(1e15), bigValue(summary.ElectabilityThreshold))
	assert.Equal(t, uint64(5), summary.Version)
}

func testGetGroups(t *testing.T) {
	body, status := httpGet(t, "/election/groups")
	require.Equal(t, http.StatusOK, status)

	var ranked []elections.RankedGroup
	require.NoError(t, json.Unmarshal(body, &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, groupOne, ranked[0].Group)
	assert.Equal(t, int64(300), bigValue(ranked[0].TotalVotes).Int64())
	assert.Equal(t, groupTwo, ranked[1].Group)
	assert.Equal(t, int64(200), bigValue(ranked[1].TotalVotes).Int64())
}

func testGetGroup(t *testing.T) {
	body, status := httpGet(t, "/election/groups/"+groupOne.String())
	require.Equal(t, http.StatusOK, status)

	var group elections.GroupSummary
	require.NoError(t, json.Unmarshal(body, &group))
	assert.Equal(t, groupOne, group.Group)
	assert.True(t, group.Eligible)
	assert.Equal(t, int64(300), bigValue(group.TotalVotes).Int64())
	assert.Equal(t, int64(300), bigValue(group.ActiveVotes).Int64())
	assert.Equal(t, int64(0), bigValue(group.PendingVotes).Int64())
	assert.Equal(t, new(big.Int).Mul(big.NewInt(300), electra.UnitPrecisionFactor), bigValue(group.ActiveUnits))
}

func testGetReceivable(t *testing.T) {
	body, status := httpGet(t, "/election/groups/"+groupTwo.String()+"/receivable?value=100")
	require.Equal(t, http.StatusOK, status)

	// two members counting the group itself, over a third of the 1500 staked
	var receivable elections.Receivable
	require.NoError(t, json.Unmarshal(body, &receivable))
	assert.True(t, receivable.CanReceive)
	assert.Equal(t, int64(1000), bigValue(receivable.Capacity).Int64())
}

func testGetGroupAccount(t *testing.T) {
	body, status := httpGet(t, "/election/groups/"+groupTwo.String()+"/accounts/"+voterTwo.String())
	require.Equal(t, http.StatusOK, status)

	var position elections.GroupAccount
	require.NoError(t, json.Unmarshal(body, &position))
	assert.Equal(t, int64(200), bigValue(position.TotalVotes).Int64())
	assert.Equal(t, int64(0), bigValue(position.ActiveVotes).Int64())
	assert.Equal(t, int64(200), bigValue(position.PendingVotes).Int64())
	assert.Equal(t, int64(0), bigValue(position.ActiveUnits).Int64())
	assert.True(t, position.HasActivatable)
}

func testGetAccount(t *testing.T) {
	body, status := httpGet(t, "/election/accounts/"+voterOne.String())
	require.Equal(t, http.StatusOK, status)

	var account elections.AccountSummary
	require.NoError(t, json.Unmarshal(body, &account))
	assert.Equal(t, int64(300), bigValue(account.TotalVotes).Int64())
	assert.Equal(t, int64(1000), bigValue(account.TotalStake).Int64())
	assert.Equal(t, []electra.Address{groupOne}, account.Groups)
	assert.False(t, account.AllowedOverMaxGroups)
}

func testGetSigners(t *testing.T) {
	body, status := httpGet(t, "/election/signers")
	require.Equal(t, http.StatusOK, status)

	var signers []electra.Address
	require.NoError(t, json.Unmarshal(body, &signers))
	assert.Equal(t, []electra.Address{memberOne, memberTwo, memberThree}, signers)
}

func testGetSignersBounded(t *testing.T) {
	body, status := httpGet(t, "/election/signers?min=1&max=1")
	require.Equal(t, http.StatusOK, status)

	var signers []electra.Address
	require.NoError(t, json.Unmarshal(body, &signers))
	assert.Equal(t, []electra.Address{memberOne}, signers)
}

func testBadRequests(t *testing.T) {
	for _, path := range []string{
		"/election/groups/nonsense",
		"/election/groups/" + groupOne.String() + "/receivable?value=lots",
		"/election/signers?min=2",
		"/election/signers?min=one&max=2",
		"/election/signers?min=3&max=2",
	} {
		_, status := httpGet(t, path)
		assert.Equal(t, http.StatusBadRequest, status, path)
	}
}

func testSignersBeyondMembers(t *testing.T) {
	body, status := httpGet(t, "/election/signers?min=4&max=5")
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "not enough elected validators", strings.TrimSpace(string(body)))
}

func testSignersWhileFrozen(t *testing.T) {
	freeze.SetFrozen(true)
	defer freeze.SetFrozen(false)

	body, status := httpGet(t, "/election/signers")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "elections are frozen", strings.TrimSpace(string(body)))
}

func httpGet(t *testing.T, path string) ([]byte, int) {
	res, err := http.Get(ts.URL + path) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func bigValue(v *math.HexOrDecimal256) *big.Int {
	return (*big.Int)(v)
}
