package endpoints

import (
	"net/http"

	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/server"
	"github.com/teamstore/keeper/pkg/server/store"
)

func RegisterWhoamiEndpoint(s *server.Server) {
	router := s.Router.PathPrefix("/whoami").Subrouter()
	router.Use(s.Authenticator.Middleware)
	router.HandleFunc("", handleWhoami(s.IdentitiesStore)).Methods("GET")
}

type whoamiResponse struct {
	Identity *identityResponse `json:"identity"`
	IsAdmin  bool              `json:"is_admin"`
	ClientIP string            `json:"client_ip,omitempty"`
}

func handleWhoami(identities store.IdentitiesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		current, err := identities.Current(r.Context(), scope)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if current == nil {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		isAdmin, err := identities.IsAdmin(r.Context(), scope)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, whoamiResponse{
			Identity: presentIdentity(current),
			IsAdmin:  isAdmin,
			ClientIP: scope.RemoteIP(),
		})
	}
}
