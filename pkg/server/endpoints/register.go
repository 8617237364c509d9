package endpoints

import (
	"github.com/teamstore/keeper/pkg/server"
)

// RegisterAll registers all API endpoints on the server.
func RegisterAll(srv *server.Server) {
	RegisterProjectsEndpoints(srv)
	RegisterAccessEndpoints(srv)
	RegisterAssetsEndpoints(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterStatusEndpoints(srv)
}
