package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/server"
	"github.com/teamstore/keeper/pkg/server/store"
)

func RegisterAccessEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/projects").Subrouter()
	router.Use(s.Authenticator.Middleware)

	router.HandleFunc("/{id:[0-9]+}/access", handleGrantAccess(s.AccessStore)).Methods("POST")
	router.HandleFunc("/{id:[0-9]+}/access", handleRevokeAccess(s.AccessStore)).Methods("DELETE")
}

// AccessRequest is the body of POST and DELETE /projects/{id}/access. The
// target is addressed by directory object id; unknown targets are resolved
// against the directory on grant.
type AccessRequest struct {
	ObjectID string `json:"object_id"`
	Role     string `json:"role"`
}

func handleGrantAccess(access store.AccessStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		projectID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid project id")
			return
		}

		var req AccessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		defer func() { _ = r.Body.Close() }()

		if err := access.Grant(r.Context(), scope, uint(projectID), req.ObjectID, req.Role); err != nil {
			respondWithStoreError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

func handleRevokeAccess(access store.AccessStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		projectID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid project id")
			return
		}

		var req AccessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		defer func() { _ = r.Body.Close() }()

		if err := access.Revoke(r.Context(), scope, uint(projectID), req.ObjectID, req.Role); err != nil {
			respondWithStoreError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
