package endpoints

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/teamstore/keeper/pkg/model"
)

func TestWhoami(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.identities.On("Current", mock.Anything, mock.Anything).
		Return(&model.Identity{ID: 7, Kind: model.IdentityKindUser, ObjectID: "obj-1", Upn: "test@example.com"}, nil)
	stores.identities.On("IsAdmin", mock.Anything, mock.Anything).
		Return(true, nil)

	rec := doRequest(t, srv, "GET", "/whoami", bearerToken(t, "obj-1"), nil)
	must200(t, rec)

	var resp whoamiResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "obj-1", resp.Identity.ObjectID)
	assert.True(t, resp.IsAdmin)
	assert.Equal(t, "192.0.2.10", resp.ClientIP)
}
