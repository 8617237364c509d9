// Package identity carries the per-request caller scope.
//
// A Scope is constructed once per operation by the transport layer and
// passed explicitly to the vault services. It caches the resolved caller
// identity and the admin evaluation for the lifetime of that one operation
// and is discarded at its end; nothing in this package is shared across
// requests.
package identity
