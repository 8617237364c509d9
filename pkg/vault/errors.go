package vault

import "errors"

// Sentinel errors returned by the vault services. Callers branch on these
// with errors.Is; the transport layer maps them to status codes.
var (
	// ErrInvalidArgument indicates a structurally invalid request, such as
	// a nil project, a negative id or an empty title. It is returned before
	// any query is issued.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnauthorized indicates the request carries no resolvable caller,
	// or the caller lacks the access required for the operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrProjectNotFound is returned both when a project does not exist and
	// when the caller has no grant on it, so that probing cannot
	// distinguish the two.
	ErrProjectNotFound = errors.New("project not found")

	// ErrAssetNotFound is the asset-level analogue of ErrProjectNotFound.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidState indicates an internal invariant was violated mid
	// operation, such as an access grant without an attributable creator.
	ErrInvalidState = errors.New("invalid state")
)
