// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/electra/co"
)

// StartAPIServer serves handler at addr. The returned closer runs apiCloser
// first so hijacked subscription conns unblock before the server stops.
func StartAPIServer(addr string, handler http.Handler, apiCloser func()) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		apiCloser()
		srv.Close()
		goes.Wait()
	}, nil
}
