// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/vechain/electra/api/utils"
	"github.com/vechain/electra/co"
	"github.com/vechain/electra/election"
	"github.com/vechain/electra/log"
)

var logger = log.WithContext("pkg", "subscriptions")

// eventBufferSize bounds how far a subscriber may lag. The engine's event
// feed blocks mutations once every subscriber buffer is full, so slow
// consumers are disconnected rather than waited on.
const eventBufferSize = 256

type Subscriptions struct {
	engine   *election.Engine
	upgrader websocket.Upgrader
	done     chan struct{}
	goes     co.Goes
	closeOne sync.Once
}

func New(engine *election.Engine, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(allowedOrigins),
		},
		done: make(chan struct{}),
	}
}

func checkOrigin(allowedOrigins []string) func(*http.Request) bool {
	return func(req *http.Request) bool {
		origin := req.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range allowedOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
		return false
	}
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	select {
	case <-s.done:
		return utils.HTTPError(errors.New("subscriptions closed"), http.StatusServiceUnavailable)
	default:
	}

	// subscribe before the upgrade so no event emitted after the handshake
	// response can be missed
	ch := make(chan *election.Event, eventBufferSize)
	sub := s.engine.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "upgrade"))
	}
	defer conn.Close()

	subscriber := uuid.NewRandom().String()
	logger.Debug("subscriber connected", "id", subscriber, "remote", req.RemoteAddr)

	// the read pump only detects the client going away
	closed := make(chan struct{})
	s.goes.Go(func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	for {
		select {
		case ev := <-ch:
			if err := conn.WriteJSON(ev); err != nil {
				logger.Debug("subscriber write failed", "id", subscriber, "err", err)
				return nil
			}
		case <-closed:
			logger.Debug("subscriber disconnected", "id", subscriber)
			return nil
		case <-s.done:
			return nil
		}
	}
}

// Close disconnects all subscribers and waits for their handlers to return.
func (s *Subscriptions) Close() {
	s.closeOne.Do(func() {
		close(s.done)
	})
	s.goes.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/events").
		Methods(http.MethodGet).
		Name("subscriptions_events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
