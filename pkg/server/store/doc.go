// Package store defines the storage interfaces the HTTP endpoints depend
// on. The vault services satisfy them; endpoint tests substitute mocks.
package store
