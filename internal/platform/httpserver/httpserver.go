// Package httpserver builds the http.Server used by the API.
package httpserver

import (
	"net/http"
	"time"
)

// Timeouts sized for the API's request profile: every endpoint is a
// small JSON exchange, so slow readers and writers are cut off early.
// Idle keep-alive connections are held longer for mobile clients that
// poll eligibility and inventory.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 2 * time.Minute
)

// New builds an HTTP server for the given address and handler.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
