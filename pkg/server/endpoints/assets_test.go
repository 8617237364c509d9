package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/teamstore/keeper/pkg/model"
	"github.com/teamstore/keeper/pkg/vault"
)

func TestCreateAsset(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.assets.On("Create", mock.Anything, mock.Anything, uint(42), mock.MatchedBy(func(a *model.Asset) bool {
		return a.Kind == model.AssetKindCredential && a.Login == "admin" && a.IsEnabled
	})).Return(uint(5), nil)

	body := strings.NewReader(`{"kind":"credential","login":"admin","domain":"example.com","value":"hunter2"}`)
	rec := doRequest(t, srv, "POST", "/projects/42/assets", bearerToken(t, "obj-1"), body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":5}`, rec.Body.String())

	stores.assets.AssertExpectations(t)
}

func TestCreateAssetInaccessibleProject(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.assets.On("Create", mock.Anything, mock.Anything, uint(42), mock.Anything).
		Return(uint(0), vault.ErrProjectNotFound)

	body := strings.NewReader(`{"kind":"note","title":"wiki"}`)
	rec := doRequest(t, srv, "POST", "/projects/42/assets", bearerToken(t, "obj-1"), body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAsset(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.assets.On("Get", mock.Anything, mock.Anything, uint(5)).
		Return(&model.Asset{ID: 5, Kind: model.AssetKindNote, Title: "wiki", Body: "contents"}, nil)

	rec := doRequest(t, srv, "GET", "/assets/5", bearerToken(t, "obj-1"), nil)
	must200(t, rec)

	var resp assetResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "note", resp.Kind)
	assert.Equal(t, "wiki", resp.Title)
}

func TestUpdateAsset(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.assets.On("Update", mock.Anything, mock.Anything, uint(5), mock.MatchedBy(func(a *model.Asset) bool {
		return a.Login == "rotated" && !a.IsEnabled
	})).Return(nil)

	body := strings.NewReader(`{"kind":"credential","login":"rotated","is_enabled":false}`)
	rec := doRequest(t, srv, "PUT", "/assets/5", bearerToken(t, "obj-1"), body)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	stores.assets.AssertExpectations(t)
}

func TestArchiveAsset(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.assets.On("Archive", mock.Anything, mock.Anything, uint(5)).Return(nil)

	rec := doRequest(t, srv, "POST", "/assets/5/archive", bearerToken(t, "obj-1"), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	stores.assets.AssertExpectations(t)
}

func TestAssetMissing(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.assets.On("Get", mock.Anything, mock.Anything, uint(99)).
		Return(nil, vault.ErrAssetNotFound)

	rec := doRequest(t, srv, "GET", "/assets/99", bearerToken(t, "obj-1"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
