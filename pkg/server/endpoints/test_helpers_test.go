package endpoints

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teamstore/keeper/pkg/server"
	"github.com/teamstore/keeper/pkg/server/middleware"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type testStores struct {
	projects   *MockProjectsStore
	assets     *MockAssetsStore
	access     *MockAccessStore
	identities *MockIdentitiesStore
}

func newTestServer(t *testing.T) (*server.Server, *testStores) {
	t.Helper()

	stores := &testStores{
		projects:   &MockProjectsStore{},
		assets:     &MockAssetsStore{},
		access:     &MockAccessStore{},
		identities: &MockIdentitiesStore{},
	}

	srv := server.NewServer(
		nil,
		middleware.NewHMACAuthenticator(testSecret),
		stores.projects,
		stores.assets,
		stores.access,
		stores.identities,
		"localhost",
		"0",
	)
	RegisterAll(srv)
	return srv, stores
}

func bearerToken(t *testing.T, objectID string) string {
	t.Helper()

	claims := middleware.Claims{
		DisplayName: "Test User",
		Upn:         "test@example.com",
		TenantID:    "tenant-1",
		ObjectID:    objectID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + token
}

func doRequest(t *testing.T, srv *server.Server, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.10:51234"

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	return rec
}

func must200(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
