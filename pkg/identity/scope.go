package identity

import (
	"context"
	"net"

	"github.com/teamstore/keeper/pkg/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for the request Scope.
	Key ContextKey = "scope"
)

// Principal carries the caller claims supplied by the transport layer. The
// core never trusts these beyond using ObjectID to resolve a persisted
// identity; the remaining fields seed provisioning on first sight.
type Principal struct {
	ObjectID    string
	DisplayName string
	Upn         string
	TenantID    string
}

// Scope is the per-request resolution cache. One scope maps exactly one
// in-flight operation to one identity resolution; scopes are never shared
// across requests, so no locking is needed.
type Scope struct {
	principal *Principal
	remoteIP  net.IP

	caller  *model.Identity
	isAdmin *bool
}

// NewScope creates a scope for the given caller principal. A nil principal
// produces an anonymous scope; every mutating operation against it fails
// with an authorization error.
func NewScope(principal *Principal) *Scope {
	return &Scope{principal: principal}
}

// WithRemoteIP sets the origin network address recorded on audit events.
func (s *Scope) WithRemoteIP(ip net.IP) *Scope {
	s.remoteIP = ip
	return s
}

// Principal returns the transport-supplied caller claims, or nil.
func (s *Scope) Principal() *Principal {
	if s == nil {
		return nil
	}
	return s.principal
}

// RemoteIP returns the origin address for the scope, or "" when unknown.
func (s *Scope) RemoteIP() string {
	if s == nil || s.remoteIP == nil {
		return ""
	}
	return s.remoteIP.String()
}

// Caller returns the cached resolved identity, or nil if not yet resolved.
func (s *Scope) Caller() *model.Identity {
	if s == nil {
		return nil
	}
	return s.caller
}

// CacheCaller stores the resolved identity for the remainder of the scope.
func (s *Scope) CacheCaller(id *model.Identity) {
	s.caller = id
}

// AdminCached returns the cached admin flag, or nil if not yet evaluated or
// invalidated since.
func (s *Scope) AdminCached() *bool {
	if s == nil {
		return nil
	}
	return s.isAdmin
}

// CacheAdmin stores the admin evaluation for the remainder of the scope.
func (s *Scope) CacheAdmin(isAdmin bool) {
	s.isAdmin = &isAdmin
}

// InvalidateAdmin drops the cached admin flag. Called whenever administrator
// designations change within the scope.
func (s *Scope) InvalidateAdmin() {
	if s == nil {
		return
	}
	s.isAdmin = nil
}

// Get retrieves the Scope from context.
func Get(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(Key).(*Scope)
	return scope, ok
}

// Set stores the Scope in context.
func Set(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, Key, scope)
}
