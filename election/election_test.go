// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/electra/electra"
	"github.com/vechain/electra/fault"
	"github.com/vechain/electra/test/testledger"
)

type testEnv struct {
	engine  *Engine
	stake   *testledger.Stake
	catalog *testledger.Catalog
	clock   *testledger.Clock
	freeze  *testledger.Freeze
}

func testConfig() Config {
	return Config{
		MaxGroupsVotedFor:      3,
		ElectabilityThreshold:  big.NewInt(1e15),
		MinElectableValidators: 1,
		MaxElectableValidators: 5,
	}
}

func newTestEnv(t *testing.T, config Config) *testEnv {
	t.Helper()
	env := &testEnv{
		stake:   testledger.NewStake(),
		catalog: testledger.NewCatalog(),
		clock:   testledger.NewClock(1),
		freeze:  &testledger.Freeze{},
	}
	engine, err := New(env.stake, env.catalog, env.clock, Options{Config: config, Freeze: env.freeze})
	require.NoError(t, err)
	env.engine = engine
	t.Cleanup(engine.Close)
	return env
}

// addGroup registers a group with n members, funds it nowhere, and marks it
// eligible at its current vote total.
func (env *testEnv) addGroup(t *testing.T, group electra.Address, members int) {
	t.Helper()
	env.catalog.SetMembers(group, memberAddresses(group, members)...)
	weight := env.engine.TotalVotesForGroup(group)
	lesser, greater := env.engine.RankHints(group, weight)
	require.NoError(t, env.engine.MarkGroupEligible(group, lesser, greater))
}

// memberAddresses derives distinct member addresses from the group address.
func memberAddresses(group electra.Address, n int) []electra.Address {
	members := make([]electra.Address, n)
	for i := range members {
		member := group
		member[0] = ^member[0]
		member[19] = byte(i + 1)
		members[i] = member
	}
	return members
}

func (env *testEnv) vote(t *testing.T, account, group electra.Address, value int64) {
	t.Helper()
	v := big.NewInt(value)
	weight := env.engine.TotalVotesForGroup(group)
	weight.Add(weight, v)
	lesser, greater := env.engine.RankHints(group, weight)
	require.NoError(t, env.engine.Vote(account, group, v, lesser, greater))
}

func (env *testEnv) activate(t *testing.T, account, group electra.Address) {
	t.Helper()
	require.NoError(t, env.engine.Activate(account, group))
}

func (env *testEnv) groupIndex(t *testing.T, account, group electra.Address) uint64 {
	t.Helper()
	for i, g := range env.engine.GroupsVotedForByAccount(account) {
		if g == group {
			return uint64(i)
		}
	}
	t.Fatalf("account does not support group %v", group)
	return 0
}

// revokeHints computes the rank hints for group after cutting value votes.
func (env *testEnv) revokeHints(group electra.Address, value *big.Int) (electra.Address, electra.Address) {
	weight := env.engine.TotalVotesForGroup(group)
	weight.Sub(weight, value)
	return env.engine.RankHints(group, weight)
}

// checkLedger verifies the aggregation invariants: per-account records sum to
// group totals, group totals sum to network totals, and every eligible
// group's rank weight equals its vote total.
func checkLedger(t *testing.T, e *Engine) {
	t.Helper()
	pendingSum := new(big.Int)
	for _, gp := range e.pending.byGroup {
		accountSum := new(big.Int)
		for _, pv := range gp.byAccount {
			accountSum.Add(accountSum, pv.value)
		}
		assert.Equal(t, gp.total, accountSum, "pending group total != sum of account votes")
		pendingSum.Add(pendingSum, gp.total)
	}
	assert.Equal(t, e.pending.total, pendingSum, "pending network total != sum of group totals")

	activeSum := new(big.Int)
	for _, ga := range e.active.byGroup {
		unitSum := new(big.Int)
		for _, units := range ga.unitsByAccount {
			unitSum.Add(unitSum, units)
		}
		assert.Equal(t, ga.totalUnits, unitSum, "group unit supply != sum of account units")
		activeSum.Add(activeSum, ga.total)
	}
	assert.Equal(t, e.active.total, activeSum, "active network total != sum of group totals")

	var prev *big.Int
	for _, entry := range e.eligible.Entries() {
		assert.Equal(t, e.totalForGroup(entry.Key), entry.Weight, "rank weight != vote total")
		if prev != nil {
			assert.LessOrEqual(t, entry.Weight.Cmp(prev), 0, "rank order not non-increasing")
		}
		prev = entry.Weight
	}
}

func Test_New(t *testing.T) {
	env := newTestEnv(t, testConfig())
	assert.Equal(t, uint64(0), env.engine.Version())

	_, err := New(nil, testledger.NewCatalog(), testledger.NewClock(1), Options{Config: testConfig()})
	assert.True(t, fault.IsValidation(err))

	bad := testConfig()
	bad.MinElectableValidators = 0
	_, err = New(testledger.NewStake(), testledger.NewCatalog(), testledger.NewClock(1), Options{Config: bad})
	assert.True(t, fault.IsValidation(err))
}

func Test_Vote(t *testing.T) {
	env := newTestEnv(t, testConfig())
	group := electra.BytesToAddress([]byte("g1"))
	account := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, group, 2)
	env.stake.Fund(account, big.NewInt(1000))

	env.vote(t, account, group, 400)

	assert.Equal(t, big.NewInt(400), env.engine.PendingVotesForGroupByAccount(group, account))
	assert.Equal(t, big.NewInt(400), env.engine.TotalVotesForGroup(group))
	assert.Equal(t, big.NewInt(400), env.engine.TotalVotes())
	assert.Equal(t, big.NewInt(600), env.stake.NonvotingBalance(account))
	assert.Equal(t, []electra.Address{group}, env.engine.GroupsVotedForByAccount(account))

	// stacking on the same group keeps one support entry
	env.vote(t, account, group, 100)
	assert.Equal(t, []electra.Address{group}, env.engine.GroupsVotedForByAccount(account))
	assert.Equal(t, big.NewInt(500), env.engine.TotalVotesForGroupByAccount(group, account))

	groups, votes := env.engine.EligibleGroupsWithVotes()
	assert.Equal(t, []electra.Address{group}, groups)
	assert.Equal(t, []*big.Int{big.NewInt(500)}, votes)
	assert.Equal(t, big.NewInt(500), env.engine.TotalVotesForEligibleGroups())
	checkLedger(t, env.engine)
}

func Test_Vote_Rejections(t *testing.T) {
	env := newTestEnv(t, testConfig())
	group := electra.BytesToAddress([]byte("g1"))
	stranger := electra.BytesToAddress([]byte("g2"))
	account := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, group, 1)
	env.catalog.SetMembers(stranger, electra.BytesToAddress([]byte("m")))
	env.stake.Fund(account, big.NewInt(1000))
	version := env.engine.Version()

	err := env.engine.Vote(account, group, nil, electra.Address{}, electra.Address{})
	assert.True(t, fault.IsValidation(err))
	err = env.engine.Vote(account, group, big.NewInt(0), electra.Address{}, electra.Address{})
	assert.True(t, fault.IsValidation(err))
	err = env.engine.Vote(electra.Address{}, group, big.NewInt(1), electra.Address{}, electra.Address{})
	assert.True(t, fault.IsValidation(err))

	// not marked eligible
	err = env.engine.Vote(account, stranger, big.NewInt(1), electra.Address{}, electra.Address{})
	assert.True(t, fault.IsValidation(err))
	assert.ErrorContains(t, err, "group not eligible")

	// capacity: (votes+value)*min(maxElectable, registered) <= (members+1)*totalStake
	// registered=2, members=1, totalStake=1000 => cap 1000
	err = env.engine.Vote(account, group, big.NewInt(1001), electra.Address{}, electra.Address{})
	assert.True(t, fault.IsCapacity(err))

	// stake source failure surfaces wrapped, not as a fault
	env.stake.DecrementErr = errors.New("boom")
	lesser, greater := env.engine.RankHints(group, big.NewInt(10))
	err = env.engine.Vote(account, group, big.NewInt(10), lesser, greater)
	require.Error(t, err)
	assert.False(t, fault.IsValidation(err) || fault.IsConsistency(err) || fault.IsCapacity(err))
	assert.ErrorContains(t, err, "decrement nonvoting balance")

	// nothing leaked into the ledger
	assert.Equal(t, int64(0), env.engine.TotalVotes().Int64())
	assert.Equal(t, int64(0), env.engine.TotalVotesForGroup(group).Int64())
	assert.Nil(t, env.engine.GroupsVotedForByAccount(account))
	assert.Equal(t, version, env.engine.Version())
	checkLedger(t, env.engine)
}

func Test_Vote_MaxGroupsBound(t *testing.T) {
	env := newTestEnv(t, testConfig())
	account := electra.BytesToAddress([]byte("a1"))
	env.stake.Fund(account, big.NewInt(1000))

	groups := make([]electra.Address, 4)
	for i := range groups {
		groups[i] = electra.BytesToAddress([]byte{byte('A' + i)})
		env.addGroup(t, groups[i], 1)
	}
	for _, group := range groups[:3] {
		env.vote(t, account, group, 10)
	}

	lesser, greater := env.engine.RankHints(groups[3], big.NewInt(10))
	err := env.engine.Vote(account, groups[3], big.NewInt(10), lesser, greater)
	assert.True(t, fault.IsValidation(err))
	assert.ErrorContains(t, err, "voted for too many groups")

	require.NoError(t, env.engine.SetAllowedOverMaxGroups(account, true))
	env.vote(t, account, groups[3], 10)
	assert.True(t, env.engine.AllowedOverMaxGroups(account))
	assert.Equal(t, big.NewInt(40), env.engine.TotalVotesByAccount(account))

	// cannot disable while over the bound
	err = env.engine.SetAllowedOverMaxGroups(account, false)
	assert.True(t, fault.IsValidation(err))

	value := big.NewInt(10)
	lesser, greater = env.revokeHints(groups[3], value)
	index := env.groupIndex(t, account, groups[3])
	require.NoError(t, env.engine.RevokePending(account, groups[3], value, lesser, greater, index))
	require.NoError(t, env.engine.SetAllowedOverMaxGroups(account, false))
	assert.Equal(t, big.NewInt(30), env.engine.TotalVotesByAccount(account))
	checkLedger(t, env.engine)
}

func Test_Activate(t *testing.T) {
	env := newTestEnv(t, testConfig())
	group := electra.BytesToAddress([]byte("g1"))
	account := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, group, 2)
	env.stake.Fund(account, big.NewInt(1000))

	env.vote(t, account, group, 100)
	assert.False(t, env.engine.HasActivatablePendingVotes(account, group))
	err := env.engine.Activate(account, group)
	assert.True(t, fault.IsValidation(err))
	assert.ErrorContains(t, err, "not yet activatable")

	env.clock.Advance()
	assert.True(t, env.engine.HasActivatablePendingVotes(account, group))
	env.activate(t, account, group)

	assert.Equal(t, int64(0), env.engine.PendingVotesForGroup(group).Int64())
	assert.Equal(t, big.NewInt(100), env.engine.ActiveVotesForGroup(group))
	assert.Equal(t, big.NewInt(100), env.engine.ActiveVotesForGroupByAccount(group, account))
	wantUnits := new(big.Int).Mul(big.NewInt(100), electra.UnitPrecisionFactor)
	assert.Equal(t, wantUnits, env.engine.ActiveVoteUnitsForGroupByAccount(group, account))
	// the group keeps its rank weight across activation
	assert.Equal(t, big.NewInt(100), env.engine.TotalVotesForGroup(group))

	// nothing left to activate
	err = env.engine.Activate(account, group)
	assert.True(t, fault.IsValidation(err))
	assert.ErrorContains(t, err, "cannot be zero")
	checkLedger(t, env.engine)
}

func Test_Activate_RestampedByLaterVote(t *testing.T) {
	env := newTestEnv(t, testConfig())
	group := electra.BytesToAddress([]byte("g1"))
	account := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, group, 2)
	env.stake.Fund(account, big.NewInt(1000))

	env.vote(t, account, group, 100)
	env.clock.Advance()

	// a fresh cast restamps the whole pending balance
	env.vote(t, account, group, 50)
	err := env.engine.Activate(account, group)
	assert.True(t, fault.IsValidation(err))

	env.clock.Advance()
	env.activate(t, account, group)
	assert.Equal(t, big.NewInt(150), env.engine.ActiveVotesForGroupByAccount(group, account))
	checkLedger(t, env.engine)
}

func Test_ActivateFor(t *testing.T) {
	env := newTestEnv(t, testConfig())
	group := electra.BytesToAddress([]byte("g1"))
	account := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, group, 2)
	env.stake.Fund(account, big.NewInt(1000))

	env.vote(t, account, group, 100)
	env.clock.Advance()

	// anyone may trigger activation; the owner gets the units
	require.NoError(t, env.engine.ActivateFor(account, group))
	assert.Equal(t, big.NewInt(100), env.engine.ActiveVotesForGroupByAccount(group, account))
}

func Test_RevokePending(t *testing.T) {
	env := newTestEnv(t, testConfig())
	group := electra.BytesToAddress([]byte("g1"))
	account := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, group, 2)
	env.stake.Fund(account, big.NewInt(1000))
	env.vote(t, account, group, 400)

	value := big.NewInt(150)
	lesser, greater := env.revokeHints(group, value)
	index := env.groupIndex(t, account, group)
	require.NoError(t, env.engine.RevokePending(account, group, value, lesser, greater, index))

	assert.Equal(t, big.NewInt(250), env.engine.PendingVotesForGroupByAccount(group, account))
	assert.Equal(t, big.NewInt(250), env.engine.TotalVotesForGroup(group))
	assert.Equal(t, big.NewInt(750), env.stake.NonvotingBalance(account))
	assert.Equal(t, []electra.Address{group}, env.engine.GroupsVotedForByAccount(account))

	// over-balance rejected
	err := env.engine.RevokePending(account, group, big.NewInt(251), lesser, greater, index)
	assert.True(t, fault.IsValidation(err))
	assert.ErrorContains(t, err, "larger than pending votes")

	// full revocation drops the group from the support list
	value = big.NewInt(250)
	lesser, greater = env.revokeHints(group, value)
	require.NoError(t, env.engine.RevokePending(account, group, value, lesser, greater, index))
	assert.Empty(t, env.engine.GroupsVotedForByAccount(account))
	assert.Equal(t, big.NewInt(1000), env.stake.NonvotingBalance(account))
	assert.Equal(t, int64(0), env.engine.TotalVotes().Int64())
	checkLedger(t, env.engine)
}

func Test_RevokePending_IndexChecks(t *testing.T) {
	env := newTestEnv(t, testConfig())
	g1 := electra.BytesToAddress([]byte("g1"))
	g2 := electra.BytesToAddress([]byte("g2"))
	account := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, g1, 1)
	env.addGroup(t, g2, 1)
	env.stake.Fund(account, big.NewInt(1000))
	env.vote(t, account, g1, 100)
	env.vote(t, account, g2, 100)

	// the index only matters when the revocation empties the group
	value := big.NewInt(100)
	lesser, greater := env.revokeHints(g1, value)

	err := env.engine.RevokePending(account, g1, value, lesser, greater, 5)
	assert.True(t, fault.IsValidation(err))
	assert.ErrorContains(t, err, "out of range")

	err = env.engine.RevokePending(account, g1, value, lesser, greater, 1)
	assert.True(t, fault.IsConsistency(err))
	assert.ErrorContains(t, err, "does not match")

	require.NoError(t, env.engine.RevokePending(account, g1, value, lesser, greater, 0))
	assert.Equal(t, []electra.Address{g2}, env.engine.GroupsVotedForByAccount(account))
	checkLedger(t, env.engine)
}

func Test_RevokeActive(t *testing.T) {
	env := newTestEnv(t, testConfig())
	group := electra.BytesToAddress([]byte("g1"))
	account := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, group, 2)
	env.stake.Fund(account, big.NewInt(1000))
	env.vote(t, account, group, 100)
	env.clock.Advance()
	env.activate(t, account, group)

	value := big.NewInt(40)
	lesser, greater := env.revokeHints(group, value)
	index := env.groupIndex(t, account, group)
	require.NoError(t, env.engine.RevokeActive(account, group, value, lesser, greater, index))

	assert.Equal(t, big.NewInt(60), env.engine.ActiveVotesForGroupByAccount(group, account))
	assert.Equal(t, big.NewInt(60), env.engine.TotalVotesForGroup(group))
	assert.Equal(t, big.NewInt(940), env.stake.NonvotingBalance(account))

	// full revocation burns the exact unit balance and drops the group
	value = big.NewInt(60)
	lesser, greater = env.revokeHints(group, value)
	require.NoError(t, env.engine.RevokeActive(account, group, value, lesser, greater, index))
	assert.Equal(t, int64(0), env.engine.ActiveVoteUnitsForGroup(group).Int64())
	assert.Empty(t, env.engine.GroupsVotedForByAccount(account))
	assert.Equal(t, big.NewInt(1000), env.stake.NonvotingBalance(account))
	checkLedger(t, env.engine)
}

func Test_RevokeAllActive(t *testing.T) {
	env := newTestEnv(t, testConfig())
	group := electra.BytesToAddress([]byte("g1"))
	account := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, group, 2)
	env.stake.Fund(account, big.NewInt(1000))
	env.vote(t, account, group, 100)
	env.clock.Advance()
	env.activate(t, account, group)

	lesser, greater := env.revokeHints(group, big.NewInt(100))
	require.NoError(t, env.engine.RevokeAllActive(account, group, lesser, greater, 0))
	assert.Equal(t, int64(0), env.engine.TotalVotes().Int64())
	assert.Equal(t, big.NewInt(1000), env.stake.NonvotingBalance(account))
	checkLedger(t, env.engine)
}

func Test_RevokeActive_PartialBurnDropsEmptiedAccount(t *testing.T) {
	env := newTestEnv(t, testConfig())
	group := electra.BytesToAddress([]byte("g1"))
	a := electra.BytesToAddress([]byte("a1"))
	b := electra.BytesToAddress([]byte("b1"))
	env.addGroup(t, group, 2)
	env.stake.Fund(a, big.NewInt(1000))
	env.stake.Fund(b, big.NewInt(1000))

	env.vote(t, a, group, 2)
	env.clock.Advance()
	env.activate(t, a, group)
	lesser, greater := env.engine.RankHints(group, big.NewInt(3))
	require.NoError(t, env.engine.DistributeEpochRewards(group, big.NewInt(1), lesser, greater))
	env.vote(t, b, group, 3)
	env.clock.Advance()
	env.activate(t, b, group)
	require.Equal(t, big.NewInt(3), env.engine.ActiveVotesForGroupByAccount(group, b))

	// the rounded-up burn strands dust units worth zero votes, so the
	// revocation empties b's stake in the group and drops it from b's list
	value := big.NewInt(2)
	lesser, greater = env.revokeHints(group, value)
	require.NoError(t, env.engine.RevokeActive(b, group, value, lesser, greater, env.groupIndex(t, b, group)))

	assert.Empty(t, env.engine.GroupsVotedForByAccount(b))
	assert.Equal(t, int64(0), env.engine.ActiveVotesForGroupByAccount(group, b).Int64())
	assert.Equal(t, 1, env.engine.ActiveVoteUnitsForGroupByAccount(group, b).Sign())
	checkLedger(t, env.engine)
}

func Test_RevokeActive_RollbackOnStakeFailure(t *testing.T) {
	env := newTestEnv(t, testConfig())
	group := electra.BytesToAddress([]byte("g1"))
	acct := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, group, 2)
	env.stake.Fund(acct, big.NewInt(1000))
	env.vote(t, acct, group, 100)
	env.clock.Advance()
	env.activate(t, acct, group)

	version := env.engine.Version()
	unitsBefore := env.engine.ActiveVoteUnitsForGroupByAccount(group, acct)

	env.stake.IncrementErr = errors.New("boom")
	value := big.NewInt(40)
	lesser, greater := env.revokeHints(group, value)
	err := env.engine.RevokeActive(acct, group, value, lesser, greater, 0)
	require.Error(t, err)
	assert.ErrorContains(t, err, "increment nonvoting balance")

	assert.Equal(t, version, env.engine.Version())
	assert.Equal(t, big.NewInt(100), env.engine.ActiveVotesForGroupByAccount(group, acct))
	assert.Equal(t, unitsBefore, env.engine.ActiveVoteUnitsForGroupByAccount(group, acct))
	assert.Equal(t, big.NewInt(100), env.engine.TotalVotesForGroup(group))
	groups, votes := env.engine.EligibleGroupsWithVotes()
	assert.Equal(t, []electra.Address{group}, groups)
	assert.Equal(t, []*big.Int{big.NewInt(100)}, votes)
	checkLedger(t, env.engine)
}

func Test_ForceDecrementVotes(t *testing.T) {
	env := newTestEnv(t, testConfig())
	g1 := electra.BytesToAddress([]byte("g1"))
	g2 := electra.BytesToAddress([]byte("g2"))
	acct := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, g1, 1)
	env.addGroup(t, g2, 1)
	env.stake.Fund(acct, big.NewInt(1000))

	env.vote(t, acct, g1, 50)
	env.vote(t, acct, g2, 30)
	env.clock.Advance()
	env.activate(t, acct, g2)

	// drains in reverse support order: g2 active 30, then g1 pending 40.
	// The hints anticipate the drain: g2 falls to 0 first, then g1 to 10
	// lands above it at the head.
	lessers := []electra.Address{g2, {}}
	greaters := []electra.Address{{}, g1}
	decremented, err := env.engine.ForceDecrementVotes(acct, big.NewInt(70), lessers, greaters, []uint64{0, 1})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(70), decremented)

	assert.Equal(t, []electra.Address{g1}, env.engine.GroupsVotedForByAccount(acct))
	assert.Equal(t, big.NewInt(10), env.engine.PendingVotesForGroupByAccount(g1, acct))
	assert.Equal(t, int64(0), env.engine.TotalVotesForGroup(g2).Int64())
	// slashed stake is not returned to the nonvoting balance
	assert.Equal(t, big.NewInt(920), env.stake.NonvotingBalance(acct))
	checkLedger(t, env.engine)
}

func Test_ForceDecrementVotes_InsufficientRollsBack(t *testing.T) {
	env := newTestEnv(t, testConfig())
	g1 := electra.BytesToAddress([]byte("g1"))
	acct := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, g1, 1)
	env.stake.Fund(acct, big.NewInt(1000))
	env.vote(t, acct, g1, 50)

	version := env.engine.Version()
	lesser, greater := env.engine.RankHints(g1, big.NewInt(0))
	_, err := env.engine.ForceDecrementVotes(acct, big.NewInt(60),
		[]electra.Address{lesser}, []electra.Address{greater}, []uint64{0})
	assert.True(t, fault.IsValidation(err))
	assert.ErrorContains(t, err, "insufficient")

	assert.Equal(t, version, env.engine.Version())
	assert.Equal(t, big.NewInt(50), env.engine.PendingVotesForGroupByAccount(g1, acct))
	assert.Equal(t, []electra.Address{g1}, env.engine.GroupsVotedForByAccount(acct))
	assert.Equal(t, big.NewInt(50), env.engine.TotalVotesForGroup(g1))
	groups, votes := env.engine.EligibleGroupsWithVotes()
	assert.Equal(t, []electra.Address{g1}, groups)
	assert.Equal(t, []*big.Int{big.NewInt(50)}, votes)
	checkLedger(t, env.engine)
}

func Test_ForceDecrementVotes_SliceLengths(t *testing.T) {
	env := newTestEnv(t, testConfig())
	g1 := electra.BytesToAddress([]byte("g1"))
	acct := electra.BytesToAddress([]byte("a1"))
	env.addGroup(t, g1, 1)
	env.stake.Fund(acct, big.NewInt(100))
	env.vote(t, acct, g1, 50)

	_, err := env.engine.ForceDecrementVotes(acct, big.NewInt(10), nil, nil, nil)
	assert.True(t, fault.IsValidation(err))
	assert.ErrorContains(t, err, "slices must match")
}

func Test_MutationGuard_RejectsReentrancy(t *testing.T) {
	group := electra.BytesToAddress([]byte("g1"))
	acct := electra.BytesToAddress([]byte("a1"))
	stake := testledger.NewStake()
	stake.Fund(acct, big.NewInt(1000))
	catalog := testledger.NewCatalog()
	catalog.SetMembers(group, electra.BytesToAddress([]byte("m")))

	reentrant := &reentrantCatalog{Catalog: catalog}
	engine, err := New(stake, reentrant, testledger.NewClock(1), Options{Config: testConfig()})
	require.NoError(t, err)
	reentrant.engine = engine
	require.NoError(t, engine.MarkGroupEligible(group, electra.Address{}, electra.Address{}))

	lesser, greater := engine.RankHints(group, big.NewInt(10))
	require.NoError(t, engine.Vote(acct, group, big.NewInt(10), lesser, greater))
	assert.True(t, fault.IsConsistency(reentrant.reentryErr))
	assert.ErrorContains(t, reentrant.reentryErr, "busy")
}

// reentrantCatalog calls back into the engine from inside a collaborator
// read, which the mutation guard must reject.
type reentrantCatalog struct {
	*testledger.Catalog
	engine     *Engine
	reentryErr error
}

func (c *reentrantCatalog) GroupMemberCount(group electra.Address) (uint64, error) {
	if c.engine != nil {
		c.reentryErr = c.engine.Activate(electra.BytesToAddress([]byte("x")), group)
	}
	return c.Catalog.GroupMemberCount(group)
}

func Test_ConfigSetters(t *testing.T) {
	env := newTestEnv(t, testConfig())
	e := env.engine

	assert.True(t, fault.IsValidation(e.SetElectableValidators(0, 5)))
	assert.True(t, fault.IsValidation(e.SetElectableValidators(6, 5)))
	assert.True(t, fault.IsValidation(e.SetElectableValidators(1, 5)), "unchanged must be rejected")
	require.NoError(t, e.SetElectableValidators(2, 10))
	minSigners, maxSigners := e.ElectableValidators()
	assert.Equal(t, uint64(2), minSigners)
	assert.Equal(t, uint64(10), maxSigners)

	assert.True(t, fault.IsValidation(e.SetMaxGroupsVotedFor(0)))
	assert.True(t, fault.IsValidation(e.SetMaxGroupsVotedFor(3)), "unchanged must be rejected")
	require.NoError(t, e.SetMaxGroupsVotedFor(7))
	assert.Equal(t, uint64(7), e.MaxGroupsVotedFor())

	assert.True(t, fault.IsValidation(e.SetElectabilityThreshold(nil)))
	assert.True(t, fault.IsValidation(e.SetElectabilityThreshold(electra.PercentageFactor)))
	assert.True(t, fault.IsValidation(e.SetElectabilityThreshold(big.NewInt(1e15))), "unchanged must be rejected")
	require.NoError(t, e.SetElectabilityThreshold(big.NewInt(2e15)))
	assert.Equal(t, big.NewInt(2e15), e.ElectabilityThreshold())

	assert.Equal(t, uint64(3), e.Version())
}
