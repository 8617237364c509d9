package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teamstore/keeper/pkg/audit"
	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
)

// AccessService evaluates and mutates per-project access grants.
type AccessService struct {
	db         *gorm.DB
	identities *IdentityService
	events     *audit.Store
}

// NewAccessService creates an access service.
func NewAccessService(db *gorm.DB, identities *IdentityService, events *audit.Store) *AccessService {
	return &AccessService{db: db, identities: identities, events: events}
}

// HasAccess reports whether the scope's caller may act on the project.
// Administrators have access to every non-archived project; everyone else
// needs at least one grant. The evaluation always runs against freshly
// loaded persisted state, never against rows the caller passed in. A
// missing or archived project evaluates to false rather than an error.
func (s *AccessService) HasAccess(ctx context.Context, scope *identity.Scope, projectID uint) (bool, error) {
	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}

	var project model.Project
	err = s.db.WithContext(ctx).Select("id", "is_archived").First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("access: failed to load project %d: %w", projectID, err)
	}
	if project.IsArchived {
		return false, nil
	}

	isAdmin, err := s.identities.IsAdmin(ctx, scope)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return true, nil
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&model.AccessGrant{}).
		Where("project_id = ? AND identity_id = ?", projectID, current.ID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("access: failed to load grants for project %d: %w", projectID, err)
	}

	return count > 0, nil
}

// EffectiveRole returns the most permissive role the caller holds on the
// project, or "" when the caller holds none. Administrators without a grant
// report RoleOwner.
func (s *AccessService) EffectiveRole(ctx context.Context, scope *identity.Scope, projectID uint) (string, error) {
	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return "", err
	}
	if current == nil {
		return "", nil
	}

	var grants []model.AccessGrant
	err = s.db.WithContext(ctx).
		Where("project_id = ? AND identity_id = ?", projectID, current.ID).
		Find(&grants).Error
	if err != nil {
		return "", fmt.Errorf("access: failed to load grants for project %d: %w", projectID, err)
	}

	if role := MostPermissiveRole(grants, current.ID); role != "" {
		return role, nil
	}

	isAdmin, err := s.identities.IsAdmin(ctx, scope)
	if err != nil {
		return "", err
	}
	if isAdmin {
		return RoleOwner, nil
	}
	return "", nil
}

// Grant gives the identity behind targetObjectID the given role on the
// project. The target is provisioned from the directory on first sight. The
// caller must itself have access to the project.
func (s *AccessService) Grant(ctx context.Context, scope *identity.Scope, projectID uint, targetObjectID, role string) error {
	if !ValidRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, role)
	}

	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrUnauthorized
	}

	ok, err := s.HasAccess(ctx, scope, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	target, err := s.identities.ResolveOrProvision(ctx, scope, targetObjectID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	grant := model.AccessGrant{
		ProjectID:    projectID,
		IdentityID:   target.ID,
		Role:         role,
		Created:      now,
		CreatedByID:  &current.ID,
		Modified:     now,
		ModifiedByID: &current.ID,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&grant).Error; err != nil {
			return fmt.Errorf("access: failed to create grant: %w", err)
		}
		return s.events.Append(tx, audit.AccessGrantedEvent{
			ActorID:        current.ID,
			ProjectID:      projectID,
			TargetObjectID: target.ObjectID,
			Role:           role,
			ClientIP:       scope.RemoteIP(),
		})
	})
}

// Revoke removes the target identity's grants with the given role on the
// project. Revoking a grant that does not exist is a no-op and emits no
// event. The caller must itself have access to the project.
func (s *AccessService) Revoke(ctx context.Context, scope *identity.Scope, projectID uint, targetObjectID, role string) error {
	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrUnauthorized
	}

	ok, err := s.HasAccess(ctx, scope, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	var target model.Identity
	err = s.db.WithContext(ctx).Where("object_id = ?", targetObjectID).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("access: failed to resolve %s: %w", targetObjectID, err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("project_id = ? AND identity_id = ?", projectID, target.ID)
		if role != "" {
			q = q.Where("role = ?", role)
		}
		res := q.Delete(&model.AccessGrant{})
		if res.Error != nil {
			return fmt.Errorf("access: failed to delete grants: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return s.events.Append(tx, audit.AccessRevokedEvent{
			ActorID:        current.ID,
			ProjectID:      projectID,
			TargetObjectID: target.ObjectID,
			Role:           role,
			ClientIP:       scope.RemoteIP(),
		})
	})
}
