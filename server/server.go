// Package server serves the relay and the subscription form over plain HTTP,
// for local development and for hosts other than AWS Lambda.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mbland/subrelay/form"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const (
	RouteHealth    = "/health"
	RouteSubscribe = "/api/subscribe"
	RoutePage      = "/"
)

type Server struct {
	// Relay serves RouteSubscribe.
	Relay http.Handler

	// FormRelay is how the form page's controllers reach the relay.
	FormRelay form.RelayClient

	Title          string
	AllowedOrigins []string
	Log            *logrus.Logger
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(assignRequestId, recoverPanics(s.Log))

	// The relay answers every method itself so it can report 405.
	router.Handle(RouteSubscribe, s.Relay)
	router.HandleFunc(RouteHealth, health).Methods(http.MethodGet)
	router.HandleFunc(RoutePage, s.page).Methods(http.MethodGet, http.MethodPost)

	// Without configured origins, only same origin pages may call the relay.
	if len(s.AllowedOrigins) == 0 {
		return router
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(router)
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// page renders the form, and on POST, submits it first.
//
// Each request gets a new Controller, so a visitor without scripts sees
// exactly one attempt per page load, same as with them.
func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	c := form.NewController(s.FormRelay)

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form body", http.StatusBadRequest)
			return
		}
		c.Email = r.PostForm.Get("email")
		c.Name = r.PostForm.Get("name")

		ctx := form.WithRequestId(r.Context(), r.Header.Get(requestIdHeader))
		if err := c.Submit(ctx); err != nil {
			s.Log.Infof(
				"%s: form submission failed: %s",
				r.Header.Get(requestIdHeader), err,
			)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := form.Page(s.Title, form.Render(c, RoutePage)).Render(w); err != nil {
		s.Log.Errorf("rendering form page failed: %s", err)
	}
}
