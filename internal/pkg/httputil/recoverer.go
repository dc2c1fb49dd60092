package httputil

import (
	"net/http"
	"runtime/debug"

	"github.com/rantaucash/rantaucash-api/internal/pkg/ctxlog"
)

// PanicMessage is the plaintext body sent when a handler panics.
const PanicMessage = "Something broke!"

// Recoverer turns a handler panic into a logged 500 plaintext response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			ctxlog.FromContext(r.Context()).Error("panic recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			Text(w, http.StatusInternalServerError, PanicMessage)
		}()

		next.ServeHTTP(w, r)
	})
}
