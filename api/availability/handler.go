// Package availability exposes the availability engine and its audit log over HTTP.
package availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/planavail/core/model"
)

// MaxRequestBytes bounds the size of an evaluation request body.
const MaxRequestBytes = 10 << 20

// Resolver evaluates a request. It is implemented by app.Service.
type Resolver interface {
	Resolve(ctx context.Context, req model.Request) ([]model.Slot, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, req model.Request) ([]model.Slot, error)

func (f ResolverFunc) Resolve(ctx context.Context, req model.Request) ([]model.Slot, error) {
	return f(ctx, req)
}

// NewEvaluateHandler returns an HTTP handler evaluating requests via POST /api/availability.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
func NewEvaluateHandler(res Resolver, token string) http.Handler {
	return requireToken(token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}
		var req model.Request
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		slots, err := res.Resolve(r.Context(), req)
		switch {
		case errors.Is(err, model.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err)
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if slots == nil {
			slots = []model.Slot{}
		}
		writeJSON(w, http.StatusOK, slots)
	}))
}

// NewHealthHandler answers GET /healthz with "ok".
func NewHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
}

func requireToken(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
