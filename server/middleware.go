package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/mbland/subrelay/handler"
	"github.com/sirupsen/logrus"
)

const requestIdHeader = handler.RequestIdHeader

// assignRequestId gives every request an id for correlating log lines,
// keeping any id a proxy already assigned.
func assignRequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIdHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIdHeader, id)
		}
		w.Header().Set(requestIdHeader, id)
		next.ServeHTTP(w, r)
	})
}

func recoverPanics(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					log.Errorf(
						"%s: panic serving %s %s: %v",
						r.Header.Get(requestIdHeader), r.Method, r.URL.Path, p,
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
