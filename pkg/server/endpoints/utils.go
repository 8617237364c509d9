package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/teamstore/keeper/pkg/crypto"
	"github.com/teamstore/keeper/pkg/directory"
	"github.com/teamstore/keeper/pkg/vault"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithStoreError maps the vault error taxonomy onto status codes.
// Not-found and no-access answer identically so callers cannot probe for
// project existence.
func respondWithStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, vault.ErrInvalidArgument):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, vault.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, vault.ErrProjectNotFound):
		respondWithError(w, http.StatusNotFound, "project not found")
	case errors.Is(err, vault.ErrAssetNotFound):
		respondWithError(w, http.StatusNotFound, "asset not found")
	case errors.Is(err, directory.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "directory object not found")
	case errors.Is(err, crypto.ErrDecryptionFailed):
		respondWithError(w, http.StatusInternalServerError, "decryption failed")
	default:
		respondWithError(w, http.StatusInternalServerError, "internal error")
	}
}
