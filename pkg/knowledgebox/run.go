package knowledgebox

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Run starts the HTTP server and blocks until the context is cancelled or
// a fatal server error occurs. On cancellation the server drains in-flight
// requests for up to 5 seconds before returning.
//
// Endpoints:
//
//	GET    /health                          - liveness and operating mode
//	POST   /auth/generate-test-token        - mint a JWT for a given identity
//	GET    /auth/test-token                 - mint a JWT for the default test identity
//	GET    /knowledgeboxes                  - list the caller's records
//	GET    /knowledgeboxes/search           - search visible records (?query=&tags=)
//	GET    /knowledgeboxes/public           - list public records (no auth)
//	GET    /knowledgeboxes/{id}             - get one record
//	POST   /knowledgeboxes                  - create a record
//	PUT    /knowledgeboxes/{id}             - partial update
//	DELETE /knowledgeboxes/{id}             - delete a record
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	router := a.Router()

	addr := fmt.Sprintf(":%s", a.config.ServerPort)
	a.log.Info().
		Str("addr", addr).
		Bool("anonymous", a.config.Anonymous).
		Bool("read_only", a.IsReadOnly()).
		Msg("starting knowledgebox server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

// Router builds the full route table. Exposed separately so handler tests
// can serve it through httptest without binding a port.
func (a *App) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(a.logRequests)

	router.HandleFunc("/health", a.handleHealth).Methods("GET")

	// Auth routes: token issuance for development and testing.
	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/generate-test-token", a.handleGenerateTestToken).Methods("POST")
	auth.HandleFunc("/test-token", a.handleTestToken).Methods("GET")

	// Knowledge box routes. The literal paths must be registered before
	// the {id} routes so "search" and "public" are not captured as IDs.
	kb := router.PathPrefix("/knowledgeboxes").Subrouter()
	kb.HandleFunc("/search", a.withCaller(a.handleSearchKnowledgeBoxes)).Methods("GET")
	kb.HandleFunc("/public", a.handleListPublicKnowledgeBoxes).Methods("GET")
	kb.HandleFunc("", a.withCaller(a.handleListKnowledgeBoxes)).Methods("GET")
	kb.HandleFunc("", a.withCaller(a.handleCreateKnowledgeBox)).Methods("POST")
	kb.HandleFunc("/{id}", a.withCaller(a.handleGetKnowledgeBox)).Methods("GET")
	kb.HandleFunc("/{id}", a.withCaller(a.handleUpdateKnowledgeBox)).Methods("PUT")
	kb.HandleFunc("/{id}", a.withCaller(a.handleDeleteKnowledgeBox)).Methods("DELETE")

	return router
}

// logRequests emits one structured log line per request.
func (a *App) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		a.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
