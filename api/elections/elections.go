// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package elections

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/electra/api/utils"
	"github.com/vechain/electra/election"
	"github.com/vechain/electra/electra"
)

type Elections struct {
	engine *election.Engine
	stake  election.StakeSource
}

func New(engine *election.Engine, stake election.StakeSource) *Elections {
	return &Elections{
		engine,
		stake,
	}
}

func (e *Elections) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	minElectable, maxElectable := e.engine.ElectableValidators()
	return utils.WriteJSON(w, &Summary{
		TotalVotes:            toHexOrDecimal(e.engine.TotalVotes()),
		ActiveVotes:           toHexOrDecimal(e.engine.ActiveVotes()),
		PendingVotes:          toHexOrDecimal(e.engine.PendingVotes()),
		EligibleGroups:        e.engine.EligibleGroupCount(),
		MinElectable:          minElectable,
		MaxElectable:          maxElectable,
		MaxGroupsVotedFor:     e.engine.MaxGroupsVotedFor(),
		ElectabilityThreshold: toHexOrDecimal(e.engine.ElectabilityThreshold()),
		Version:               e.engine.Version(),
	})
}

func (e *Elections) handleGetGroups(w http.ResponseWriter, _ *http.Request) error {
	groups, votes := e.engine.EligibleGroupsWithVotes()
	ranked := make([]RankedGroup, len(groups))
	for i, group := range groups {
		ranked[i] = RankedGroup{Group: group, TotalVotes: toHexOrDecimal(votes[i])}
	}
	return utils.WriteJSON(w, ranked)
}

func (e *Elections) handleGetGroup(w http.ResponseWriter, req *http.Request) error {
	group, err := parseAddress(req, "group")
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &GroupSummary{
		Group:        group,
		Eligible:     e.engine.GroupEligible(group),
		TotalVotes:   toHexOrDecimal(e.engine.TotalVotesForGroup(group)),
		ActiveVotes:  toHexOrDecimal(e.engine.ActiveVotesForGroup(group)),
		PendingVotes: toHexOrDecimal(e.engine.PendingVotesForGroup(group)),
		ActiveUnits:  toHexOrDecimal(e.engine.ActiveVoteUnitsForGroup(group)),
	})
}

func (e *Elections) handleGetReceivable(w http.ResponseWriter, req *http.Request) error {
	group, err := parseAddress(req, "group")
	if err != nil {
		return err
	}
	value := new(big.Int)
	if raw := req.URL.Query().Get("value"); raw != "" {
		parsed, ok := math.ParseBig256(raw)
		if !ok {
			return utils.BadRequest(errors.New("value: malformed number"))
		}
		value = parsed
	}
	canReceive, err := e.engine.CanReceiveVotes(group, value)
	if err != nil {
		return utils.Fault(err)
	}
	capacity, err := e.engine.NumVotesReceivable(group)
	if err != nil {
		return utils.Fault(err)
	}
	return utils.WriteJSON(w, &Receivable{
		CanReceive: canReceive,
		Capacity:   toHexOrDecimal(capacity),
	})
}

func (e *Elections) handleGetGroupAccount(w http.ResponseWriter, req *http.Request) error {
	group, err := parseAddress(req, "group")
	if err != nil {
		return err
	}
	account, err := parseAddress(req, "account")
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &GroupAccount{
		TotalVotes:     toHexOrDecimal(e.engine.TotalVotesForGroupByAccount(group, account)),
		ActiveVotes:    toHexOrDecimal(e.engine.ActiveVotesForGroupByAccount(group, account)),
		PendingVotes:   toHexOrDecimal(e.engine.PendingVotesForGroupByAccount(group, account)),
		ActiveUnits:    toHexOrDecimal(e.engine.ActiveVoteUnitsForGroupByAccount(group, account)),
		HasActivatable: e.engine.HasActivatablePendingVotes(account, group),
	})
}

func (e *Elections) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	account, err := parseAddress(req, "account")
	if err != nil {
		return err
	}
	stake, err := e.stake.AccountTotalStake(account)
	if err != nil {
		return errors.WithMessage(err, "account total stake")
	}
	return utils.WriteJSON(w, &AccountSummary{
		TotalVotes:           toHexOrDecimal(e.engine.TotalVotesByAccount(account)),
		TotalStake:           toHexOrDecimal(stake),
		Groups:               e.engine.GroupsVotedForByAccount(account),
		AllowedOverMaxGroups: e.engine.AllowedOverMaxGroups(account),
	})
}

func (e *Elections) handleGetSigners(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	rawMin, rawMax := query.Get("min"), query.Get("max")
	if (rawMin == "") != (rawMax == "") {
		return utils.BadRequest(errors.New("min and max must be given together"))
	}

	var signers []electra.Address
	var err error
	if rawMin == "" {
		signers, err = e.engine.ElectValidatorSigners()
	} else {
		var minSigners, maxSigners uint64
		if minSigners, err = strconv.ParseUint(rawMin, 10, 64); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "min"))
		}
		if maxSigners, err = strconv.ParseUint(rawMax, 10, 64); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "max"))
		}
		signers, err = e.engine.ElectNValidatorSigners(minSigners, maxSigners)
	}
	if err != nil {
		return utils.Fault(err)
	}
	return utils.WriteJSON(w, signers)
}

func parseAddress(req *http.Request, name string) (electra.Address, error) {
	addr, err := electra.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return electra.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

func (e *Elections) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/summary").
		Methods(http.MethodGet).
		Name("elections_get_summary").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetSummary))
	sub.Path("/groups").
		Methods(http.MethodGet).
		Name("elections_get_groups").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetGroups))
	sub.Path("/groups/{group}").
		Methods(http.MethodGet).
		Name("elections_get_group").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetGroup))
	sub.Path("/groups/{group}/receivable").
		Methods(http.MethodGet).
		Name("elections_get_receivable").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetReceivable))
	sub.Path("/groups/{group}/accounts/{account}").
		Methods(http.MethodGet).
		Name("elections_get_group_account").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetGroupAccount))
	sub.Path("/accounts/{account}").
		Methods(http.MethodGet).
		Name("elections_get_account").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetAccount))
	sub.Path("/signers").
		Methods(http.MethodGet).
		Name("elections_get_signers").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetSigners))
}
