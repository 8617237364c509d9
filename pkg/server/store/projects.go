package store

import (
	"context"

	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
	"github.com/teamstore/keeper/pkg/vault"
)

// ProjectsStore abstracts project lifecycle operations.
type ProjectsStore interface {
	// List returns the non-archived projects visible to the caller.
	List(ctx context.Context, scope *identity.Scope, opts vault.ListOptions) ([]model.Project, error)

	// Get returns one project with grants and assets, decrypted. Returns
	// vault.ErrProjectNotFound for missing, archived and inaccessible
	// projects alike.
	Get(ctx context.Context, scope *identity.Scope, projectID int) (*model.Project, error)

	// Create persists a new project and returns its id.
	Create(ctx context.Context, scope *identity.Scope, project *model.Project) (uint, error)

	// Import persists a project exported from another store.
	Import(ctx context.Context, scope *identity.Scope, project *model.Project) (uint, error)

	// Archive transitions a project and its assets to archived.
	Archive(ctx context.Context, scope *identity.Scope, project *model.Project) error
}

// AssetsStore abstracts asset lifecycle operations.
type AssetsStore interface {
	Create(ctx context.Context, scope *identity.Scope, projectID uint, asset *model.Asset) (uint, error)
	Get(ctx context.Context, scope *identity.Scope, assetID uint) (*model.Asset, error)
	Update(ctx context.Context, scope *identity.Scope, assetID uint, update *model.Asset) error
	Archive(ctx context.Context, scope *identity.Scope, assetID uint) error
}

// AccessStore abstracts access grant evaluation and mutation.
type AccessStore interface {
	HasAccess(ctx context.Context, scope *identity.Scope, projectID uint) (bool, error)
	EffectiveRole(ctx context.Context, scope *identity.Scope, projectID uint) (string, error)
	Grant(ctx context.Context, scope *identity.Scope, projectID uint, targetObjectID, role string) error
	Revoke(ctx context.Context, scope *identity.Scope, projectID uint, targetObjectID, role string) error
}

// IdentitiesStore abstracts identity resolution.
type IdentitiesStore interface {
	Current(ctx context.Context, scope *identity.Scope) (*model.Identity, error)
	IsAdmin(ctx context.Context, scope *identity.Scope) (bool, error)
	ResolveByUPN(ctx context.Context, scope *identity.Scope, upn string) (*model.Identity, error)
}
