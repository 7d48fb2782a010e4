package availability

import (
	"net/http"

	"github.com/kilianp07/planavail/core/audit"
)

// Register mounts the availability routes on mux.
func Register(mux *http.ServeMux, res Resolver, store audit.Store, token string) {
	if store == nil {
		store = audit.NopStore{}
	}
	mux.Handle("/api/availability", NewEvaluateHandler(res, token))
	mux.Handle("/api/availability/logs", NewLogHandler(store, token))
	mux.Handle("/healthz", NewHealthHandler())
}
