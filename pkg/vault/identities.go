package vault

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/teamstore/keeper/pkg/directory"
	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
)

// IdentityService resolves principals to persisted identities. Identities
// are provisioned on first sight, either from the verified claims of the
// caller or from a directory lookup, and are never deleted afterwards.
type IdentityService struct {
	db        *gorm.DB
	directory directory.Service
}

// NewIdentityService creates an identity service. The directory service may
// be nil, in which case only already-known or claim-backed identities
// resolve.
func NewIdentityService(db *gorm.DB, dir directory.Service) *IdentityService {
	return &IdentityService{db: db, directory: dir}
}

// Current resolves the calling identity for the scope. The first call per
// scope hits the database; the result is cached on the scope so repeated
// checks within one request resolve at most once. A previously-unseen caller
// is provisioned from its verified claims. Returns nil without error for an
// anonymous scope.
func (s *IdentityService) Current(ctx context.Context, scope *identity.Scope) (*model.Identity, error) {
	if cached := scope.Caller(); cached != nil {
		return cached, nil
	}

	principal := scope.Principal()
	if principal == nil || principal.ObjectID == "" {
		return nil, nil
	}

	var id model.Identity
	err := s.db.WithContext(ctx).Where("object_id = ?", principal.ObjectID).First(&id).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		id = model.Identity{
			Kind:        model.IdentityKindUser,
			ObjectID:    principal.ObjectID,
			DisplayName: principal.DisplayName,
			Upn:         principal.Upn,
			TenantID:    principal.TenantID,
		}
		if err := s.db.WithContext(ctx).Create(&id).Error; err != nil {
			return nil, fmt.Errorf("identities: failed to provision caller: %w", err)
		}
	default:
		return nil, fmt.Errorf("identities: failed to resolve caller: %w", err)
	}

	scope.CacheCaller(&id)
	return &id, nil
}

// ResolveOrProvision resolves an identity by directory object identifier,
// creating a local row from the directory entry when the identifier has not
// been seen before. Lookups against the directory are attempted exactly
// once; a missing object surfaces directory.ErrNotFound.
func (s *IdentityService) ResolveOrProvision(ctx context.Context, scope *identity.Scope, objectID string) (*model.Identity, error) {
	if objectID == "" {
		return nil, fmt.Errorf("%w: empty object id", ErrInvalidArgument)
	}

	var id model.Identity
	err := s.db.WithContext(ctx).Where("object_id = ?", objectID).First(&id).Error
	if err == nil {
		return &id, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("identities: failed to resolve %s: %w", objectID, err)
	}

	if s.directory == nil {
		return nil, directory.ErrNotFound
	}

	requestingObjectID := ""
	if p := scope.Principal(); p != nil {
		requestingObjectID = p.ObjectID
	}

	principal, err := s.directory.ResolveByObjectID(ctx, objectID, requestingObjectID)
	if err != nil {
		return nil, err
	}

	id = identityFromPrincipal(principal)
	if err := s.db.WithContext(ctx).Create(&id).Error; err != nil {
		return nil, fmt.Errorf("identities: failed to provision %s: %w", objectID, err)
	}
	return &id, nil
}

// ResolveByUPN resolves a user identity by user principal name, consulting
// the directory when the UPN is not yet known locally.
func (s *IdentityService) ResolveByUPN(ctx context.Context, scope *identity.Scope, upn string) (*model.Identity, error) {
	if upn == "" {
		return nil, fmt.Errorf("%w: empty upn", ErrInvalidArgument)
	}

	var id model.Identity
	err := s.db.WithContext(ctx).Where("upn = ?", upn).First(&id).Error
	if err == nil {
		return &id, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("identities: failed to resolve %s: %w", upn, err)
	}

	if s.directory == nil {
		return nil, directory.ErrNotFound
	}

	requestingObjectID := ""
	if p := scope.Principal(); p != nil {
		requestingObjectID = p.ObjectID
	}

	principal, err := s.directory.ResolveByUPN(ctx, upn, requestingObjectID)
	if err != nil {
		return nil, err
	}

	// The object id may have been provisioned under a stale or missing UPN
	// in the meantime; prefer the existing row.
	if err := s.db.WithContext(ctx).Where("object_id = ?", principal.ObjectID).First(&id).Error; err == nil {
		return &id, nil
	}

	id = identityFromPrincipal(principal)
	if err := s.db.WithContext(ctx).Create(&id).Error; err != nil {
		return nil, fmt.Errorf("identities: failed to provision %s: %w", upn, err)
	}
	return &id, nil
}

// IsAdmin reports whether the scope's caller is a global administrator. The
// evaluation is cached on the scope; administrator mutations within the same
// scope invalidate the cache.
func (s *IdentityService) IsAdmin(ctx context.Context, scope *identity.Scope) (bool, error) {
	if cached := scope.AdminCached(); cached != nil {
		return *cached, nil
	}

	current, err := s.Current(ctx, scope)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&model.Administrator{}).
		Where("identity_id = ?", current.ID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("identities: failed to check administrator: %w", err)
	}

	scope.CacheAdmin(count > 0)
	return count > 0, nil
}

// GrantAdministrator designates an identity as a global administrator.
// Idempotent: granting an existing administrator is a no-op.
func (s *IdentityService) GrantAdministrator(ctx context.Context, scope *identity.Scope, id *model.Identity) error {
	if id == nil || id.ID == 0 {
		return fmt.Errorf("%w: nil identity", ErrInvalidArgument)
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&model.Administrator{}).
		Where("identity_id = ?", id.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("identities: failed to check administrator: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Create(&model.Administrator{IdentityID: id.ID}).Error; err != nil {
		return fmt.Errorf("identities: failed to grant administrator: %w", err)
	}

	scope.InvalidateAdmin()
	return nil
}

// RevokeAdministrator removes an identity's administrator designation.
// Idempotent: revoking a non-administrator is a no-op.
func (s *IdentityService) RevokeAdministrator(ctx context.Context, scope *identity.Scope, id *model.Identity) error {
	if id == nil || id.ID == 0 {
		return fmt.Errorf("%w: nil identity", ErrInvalidArgument)
	}

	err := s.db.WithContext(ctx).
		Where("identity_id = ?", id.ID).
		Delete(&model.Administrator{}).Error
	if err != nil {
		return fmt.Errorf("identities: failed to revoke administrator: %w", err)
	}

	scope.InvalidateAdmin()
	return nil
}

func identityFromPrincipal(p *directory.Principal) model.Identity {
	kind := model.IdentityKindUser
	if p.Kind == directory.PrincipalGroup {
		kind = model.IdentityKindGroup
	}
	return model.Identity{
		Kind:        kind,
		ObjectID:    p.ObjectID,
		DisplayName: p.DisplayName,
		Upn:         p.Upn,
		TenantID:    p.TenantID,
	}
}
