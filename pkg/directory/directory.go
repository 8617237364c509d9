package directory

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the directory has no object with the
// requested identifier.
var ErrNotFound = errors.New("directory object not found")

// ErrLookupFailed is returned when the directory could not be queried at
// all. Lookups are never retried here; the caller owns retry policy.
var ErrLookupFailed = errors.New("directory lookup failed")

// PrincipalKind discriminates user and group directory objects.
type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "user"
	PrincipalGroup PrincipalKind = "group"
)

// Principal is a user or group resolved from the external directory.
type Principal struct {
	ObjectID    string
	Kind        PrincipalKind
	DisplayName string
	Upn         string
	TenantID    string
}

// Service resolves principals against the external directory. The requesting
// caller's object id is passed through so the directory can apply its own
// visibility rules.
type Service interface {
	// ResolveByObjectID looks up a principal by directory object identifier.
	ResolveByObjectID(ctx context.Context, objectID, requestingObjectID string) (*Principal, error)

	// ResolveByUPN looks up a user principal by user principal name.
	ResolveByUPN(ctx context.Context, upn, requestingObjectID string) (*Principal, error)
}
