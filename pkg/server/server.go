package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/teamstore/keeper/pkg/server/middleware"
	"github.com/teamstore/keeper/pkg/server/store"
)

// Server is the keeper HTTP API server. Endpoints reach storage only
// through the store interfaces, never through the database handle directly.
type Server struct {
	Router        *mux.Router
	DB            *gorm.DB
	Authenticator *middleware.Authenticator

	ProjectsStore   store.ProjectsStore
	AssetsStore     store.AssetsStore
	AccessStore     store.AccessStore
	IdentitiesStore store.IdentitiesStore

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	authenticator *middleware.Authenticator,
	projects store.ProjectsStore,
	assets store.AssetsStore,
	access store.AccessStore,
	identities store.IdentitiesStore,
	host string,
	port string,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, router),
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:          router,
		DB:              db,
		Authenticator:   authenticator,
		ProjectsStore:   projects,
		AssetsStore:     assets,
		AccessStore:     access,
		IdentitiesStore: identities,
		srv:             srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
