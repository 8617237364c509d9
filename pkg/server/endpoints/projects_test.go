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

func TestListProjects(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.projects.On("List", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Project{
			{ID: 1, Title: "Payroll", AccessGrants: []model.AccessGrant{{ID: 3, Role: vault.RoleOwner}}},
			{ID: 2, Title: "Infrastructure"},
		}, nil)

	rec := doRequest(t, srv, "GET", "/projects", bearerToken(t, "obj-1"), nil)
	must200(t, rec)

	var resp []projectResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, "Payroll", resp[0].Title)
	assert.Equal(t, vault.RoleOwner, resp[0].Access[0].Role)

	stores.projects.AssertExpectations(t)
}

func TestListProjectsRequiresToken(t *testing.T) {
	srv, stores := newTestServer(t)

	rec := doRequest(t, srv, "GET", "/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	stores.projects.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetProject(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.projects.On("Get", mock.Anything, mock.Anything, 42).
		Return(&model.Project{ID: 42, Title: "Payroll", Description: "salaries"}, nil)
	stores.access.On("EffectiveRole", mock.Anything, mock.Anything, uint(42)).
		Return(vault.RoleEdit, nil)

	rec := doRequest(t, srv, "GET", "/projects/42", bearerToken(t, "obj-1"), nil)
	must200(t, rec)

	var resp projectResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(42), resp.ID)
	assert.Equal(t, "salaries", resp.Description)
	assert.Equal(t, vault.RoleEdit, resp.Role)
}

func TestGetProjectNotFoundAndNoAccessLookAlike(t *testing.T) {
	srv, stores := newTestServer(t)

	// The store answers identically for a missing project and an
	// inaccessible one; both surface as 404.
	stores.projects.On("Get", mock.Anything, mock.Anything, 404).
		Return(nil, vault.ErrProjectNotFound)
	stores.projects.On("Get", mock.Anything, mock.Anything, 403).
		Return(nil, vault.ErrProjectNotFound)

	missing := doRequest(t, srv, "GET", "/projects/404", bearerToken(t, "obj-1"), nil)
	denied := doRequest(t, srv, "GET", "/projects/403", bearerToken(t, "obj-1"), nil)

	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, http.StatusNotFound, denied.Code)
	assert.Equal(t, missing.Body.String(), denied.Body.String())
}

func TestGetProjectNegativeID(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.projects.On("Get", mock.Anything, mock.Anything, -1).
		Return(nil, vault.ErrInvalidArgument)

	rec := doRequest(t, srv, "GET", "/projects/-1", bearerToken(t, "obj-1"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProject(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.projects.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(p *model.Project) bool {
		return p.Title == "Payroll" && p.Category == "Finance"
	})).Return(uint(7), nil)

	body := strings.NewReader(`{"title":"Payroll","description":"salaries","category":"Finance"}`)
	rec := doRequest(t, srv, "POST", "/projects", bearerToken(t, "obj-1"), body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":7}`, rec.Body.String())

	stores.projects.AssertExpectations(t)
}

func TestCreateProjectInvalidBody(t *testing.T) {
	srv, stores := newTestServer(t)

	rec := doRequest(t, srv, "POST", "/projects", bearerToken(t, "obj-1"), strings.NewReader("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stores.projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProjectEmptyTitle(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.projects.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(uint(0), vault.ErrInvalidArgument)

	rec := doRequest(t, srv, "POST", "/projects", bearerToken(t, "obj-1"), strings.NewReader(`{"title":""}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArchiveProject(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.projects.On("Archive", mock.Anything, mock.Anything, mock.MatchedBy(func(p *model.Project) bool {
		return p.ID == 42
	})).Return(nil)

	rec := doRequest(t, srv, "POST", "/projects/42/archive", bearerToken(t, "obj-1"), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	stores.projects.AssertExpectations(t)
}

func TestImportProject(t *testing.T) {
	srv, stores := newTestServer(t)

	stores.projects.On("Import", mock.Anything, mock.Anything, mock.MatchedBy(func(p *model.Project) bool {
		return p.Title == "Imported" && len(p.Assets) == 1
	})).Return(uint(9), nil)

	body := strings.NewReader(`{"Title":"Imported","Assets":[{"Kind":"credential","Login":"enc"}]}`)
	rec := doRequest(t, srv, "POST", "/projects/import", bearerToken(t, "obj-1"), body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":9}`, rec.Body.String())
}
