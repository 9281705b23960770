// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/electra/api/elections"
	"github.com/vechain/electra/api/subscriptions"
	"github.com/vechain/electra/api/utils"
	"github.com/vechain/electra/election"
)

type Options struct {
	AllowedOrigins string
}

// New assembles the inspection API around the given engine and returns the
// handler plus a closer that disconnects event subscribers.
func New(engine *election.Engine, stake election.StakeSource, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	router.Path("/healthz").
		Methods(http.MethodGet).
		Name("healthz").
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return utils.WriteJSON(w, utils.M{"healthy": true})
		}))

	elections.New(engine, stake).
		Mount(router, "/election")
	subs := subscriptions.New(engine, origins)
	subs.Mount(router, "/subscriptions")

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	// subscriptions handles hijacked conns, which need to be closed
	return handler.ServeHTTP, subs.Close
}
