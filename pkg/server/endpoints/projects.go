package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/teamstore/keeper/pkg/config"
	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
	"github.com/teamstore/keeper/pkg/server"
	"github.com/teamstore/keeper/pkg/server/store"
	"github.com/teamstore/keeper/pkg/vault"
)

func RegisterProjectsEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/projects").Subrouter()
	router.Use(s.Authenticator.Middleware)

	router.HandleFunc("", handleListProjects(s.ProjectsStore)).Methods("GET")
	router.HandleFunc("", handleCreateProject(s.ProjectsStore)).Methods("POST")
	router.HandleFunc("/import", handleImportProject(s.ProjectsStore)).Methods("POST")
	router.HandleFunc("/{id:-?[0-9]+}", handleGetProject(s.ProjectsStore, s.AccessStore)).Methods("GET")
	router.HandleFunc("/{id:-?[0-9]+}/archive", handleArchiveProject(s.ProjectsStore)).Methods("POST")
}

func handleListProjects(projects store.ProjectsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		result, err := projects.List(r.Context(), scope, vault.ListOptions{
			Limit: config.Get().APIProjectListLimitMax,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		resp := make([]projectResponse, 0, len(result))
		for i := range result {
			resp = append(resp, presentProject(&result[i]))
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

func handleGetProject(projects store.ProjectsStore, access store.AccessStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid project id")
			return
		}

		project, err := projects.Get(r.Context(), scope, id)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		resp := presentProject(project)
		if role, err := access.EffectiveRole(r.Context(), scope, project.ID); err == nil {
			resp.Role = role
		}

		respondWithJSON(w, http.StatusOK, resp)
	}
}

// CreateProjectRequest is the body of POST /projects. Access is managed
// through the access endpoints after creation; the creator always ends up
// with an Owner grant.
type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func handleCreateProject(projects store.ProjectsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		var req CreateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		defer func() { _ = r.Body.Close() }()

		project := &model.Project{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
		}

		id, err := projects.Create(r.Context(), scope, project)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]uint{"id": id})
	}
}

func handleImportProject(projects store.ProjectsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		var project model.Project
		if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		defer func() { _ = r.Body.Close() }()

		id, err := projects.Import(r.Context(), scope, &project)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]uint{"id": id})
	}
}

func handleArchiveProject(projects store.ProjectsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil || id <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid project id")
			return
		}

		if err := projects.Archive(r.Context(), scope, &model.Project{ID: uint(id)}); err != nil {
			respondWithStoreError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
