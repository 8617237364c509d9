package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
	"github.com/teamstore/keeper/pkg/server"
	"github.com/teamstore/keeper/pkg/server/store"
)

func RegisterAssetsEndpoints(s *server.Server) {
	projects := s.Router.PathPrefix("/projects").Subrouter()
	projects.Use(s.Authenticator.Middleware)
	projects.HandleFunc("/{id:[0-9]+}/assets", handleCreateAsset(s.AssetsStore)).Methods("POST")

	assets := s.Router.PathPrefix("/assets").Subrouter()
	assets.Use(s.Authenticator.Middleware)
	assets.HandleFunc("/{id:[0-9]+}", handleGetAsset(s.AssetsStore)).Methods("GET")
	assets.HandleFunc("/{id:[0-9]+}", handleUpdateAsset(s.AssetsStore)).Methods("PUT")
	assets.HandleFunc("/{id:[0-9]+}/archive", handleArchiveAsset(s.AssetsStore)).Methods("POST")
}

// AssetRequest is the body of asset create and update requests. Kind is
// fixed at creation; updates keep the stored kind.
type AssetRequest struct {
	Kind      string `json:"kind"`
	IsEnabled *bool  `json:"is_enabled,omitempty"`
	Login     string `json:"login,omitempty"`
	Domain    string `json:"domain,omitempty"`
	Value     string `json:"value,omitempty"`
	Title     string `json:"title,omitempty"`
	Body      string `json:"body,omitempty"`
}

func (req *AssetRequest) toModel() *model.Asset {
	asset := &model.Asset{
		Kind:      model.AssetKind(req.Kind),
		IsEnabled: true,
		Login:     req.Login,
		Domain:    req.Domain,
		Value:     req.Value,
		Title:     req.Title,
		Body:      req.Body,
	}
	if req.IsEnabled != nil {
		asset.IsEnabled = *req.IsEnabled
	}
	return asset
}

func handleCreateAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		projectID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid project id")
			return
		}

		var req AssetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		defer func() { _ = r.Body.Close() }()

		id, err := assets.Create(r.Context(), scope, uint(projectID), req.toModel())
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]uint{"id": id})
	}
}

func handleGetAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid asset id")
			return
		}

		asset, err := assets.Get(r.Context(), scope, uint(id))
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, presentAsset(asset))
	}
}

func handleUpdateAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid asset id")
			return
		}

		var req AssetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		defer func() { _ = r.Body.Close() }()

		if err := assets.Update(r.Context(), scope, uint(id), req.toModel()); err != nil {
			respondWithStoreError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleArchiveAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, _ := identity.Get(r.Context())

		id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid asset id")
			return
		}

		if err := assets.Archive(r.Context(), scope, uint(id)); err != nil {
			respondWithStoreError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
