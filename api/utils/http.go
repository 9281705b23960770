// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"

	"github.com/vechain/electra/fault"
)

// JSONContentType is set on every JSON response body.
const JSONContentType = "application/json; charset=utf-8"

// M shortcut for type map[string]interface{}.
type M map[string]interface{}

// HandlerFunc is like http.HandlerFunc, but returns an error. A returned
// httpError selects the response status; any other error responds as
// http.StatusInternalServerError.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError creates an error carrying an explicit http status code.
func HTTPError(cause error, status int) error {
	return &httpError{cause: cause, status: status}
}

// BadRequest wraps cause into a http bad request error.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

// Fault maps an election fault to its HTTP status: validation is a bad
// request, consistency a conflict the caller resolves by retrying with fresh
// arguments, capacity an unprocessable entity. Other errors pass through and
// respond as internal.
func Fault(cause error) error {
	switch {
	case fault.IsValidation(cause):
		return HTTPError(cause, http.StatusBadRequest)
	case fault.IsConsistency(cause):
		return HTTPError(cause, http.StatusConflict)
	case fault.IsCapacity(cause):
		return HTTPError(cause, http.StatusUnprocessableEntity)
	default:
		return cause
	}
}

// WrapHandlerFunc converts a HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		he, ok := err.(*httpError)
		if !ok {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if he.cause != nil {
			http.Error(w, he.cause.Error(), he.status)
			return
		}
		w.WriteHeader(he.status)
	}
}

// WriteJSON responds with obj in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj interface{}) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
