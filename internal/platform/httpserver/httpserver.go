package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server. Read and write bounds are sized for the
// identity routes: multi-megabyte card photographs on the way in, and
// responses that wait on OCR and corpus matching on the way out.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
