// Package server provides the HTTP server for the keeper API.
//
// It uses gorilla/mux for routing. The bearer-token middleware attaches a
// per-request identity scope; every endpoint resolves the caller out of the
// request context and passes the scope down explicitly.
//
// # Server Setup
//
//	srv := server.NewServer(db, authenticator, projects, assets, access, identities, host, port)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
//	GET    /projects                          - list accessible projects
//	POST   /projects                          - create a project
//	GET    /projects/{id}                     - fetch one project
//	POST   /projects/{id}/archive             - archive a project
//	POST   /projects/import                   - import an exported project
//	POST   /projects/{id}/access              - grant access
//	DELETE /projects/{id}/access              - revoke access
//	POST   /projects/{id}/assets              - create an asset
//	GET    /assets/{id}                       - fetch one asset
//	PUT    /assets/{id}                       - update an asset
//	POST   /assets/{id}/archive               - archive an asset
//	GET    /whoami                            - caller introspection
//
// Missing projects and projects the caller holds no grant on are answered
// identically with 404.
package server
