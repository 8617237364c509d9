package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teamstore/keeper/pkg/audit"
	"github.com/teamstore/keeper/pkg/crypto"
	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
)

// AssetsService owns the credential and note lifecycle inside projects.
// Field encryption and access checks mirror ProjectsService; asset
// operations never reveal whether a project exists to callers without a
// grant on it.
type AssetsService struct {
	db         *gorm.DB
	cipher     *crypto.StringCipher
	identities *IdentityService
	access     *AccessService
	events     *audit.Store
}

// NewAssetsService creates an assets service.
func NewAssetsService(db *gorm.DB, cipher *crypto.StringCipher, identities *IdentityService, access *AccessService, events *audit.Store) *AssetsService {
	return &AssetsService{
		db:         db,
		cipher:     cipher,
		identities: identities,
		access:     access,
		events:     events,
	}
}

// Create persists a new asset under the project, encrypting its fields on
// the way in. The caller needs access to the project; lack of access and a
// missing project both surface as ErrProjectNotFound.
func (s *AssetsService) Create(ctx context.Context, scope *identity.Scope, projectID uint, asset *model.Asset) (uint, error) {
	if asset == nil {
		return 0, fmt.Errorf("%w: nil asset", ErrInvalidArgument)
	}
	if asset.Kind != model.AssetKindCredential && asset.Kind != model.AssetKindNote {
		return 0, fmt.Errorf("%w: unknown asset kind %q", ErrInvalidArgument, asset.Kind)
	}

	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, ErrUnauthorized
	}

	ok, err := s.access.HasAccess(ctx, scope, projectID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrProjectNotFound
	}

	for _, field := range asset.EncryptedFields() {
		enc, err := s.cipher.EncryptString(*field)
		if err != nil {
			return 0, fmt.Errorf("assets: %w", err)
		}
		*field = enc
	}

	now := time.Now().UTC()
	asset.ProjectID = projectID
	asset.IsEnabled = true
	asset.IsArchived = false
	asset.Created = now
	asset.CreatedByID = &current.ID
	asset.Modified = now
	asset.ModifiedByID = &current.ID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(asset).Error; err != nil {
			return fmt.Errorf("assets: failed to create: %w", err)
		}
		return s.events.Append(tx, audit.AssetCreatedEvent{
			ActorID:   current.ID,
			ProjectID: projectID,
			AssetID:   asset.ID,
			Kind:      string(asset.Kind),
			ClientIP:  scope.RemoteIP(),
		})
	})
	if err != nil {
		return 0, err
	}

	return asset.ID, nil
}

// Get returns one asset, decrypted, after checking the caller's access to
// the owning project.
func (s *AssetsService) Get(ctx context.Context, scope *identity.Scope, assetID uint) (*model.Asset, error) {
	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrUnauthorized
	}

	asset, err := s.load(ctx, scope, assetID)
	if err != nil {
		return nil, err
	}

	for _, field := range asset.EncryptedFields() {
		plain, err := s.cipher.DecryptString(*field)
		if err != nil {
			return nil, fmt.Errorf("assets: asset %d: %w", asset.ID, err)
		}
		*field = plain
	}
	return asset, nil
}

// Update replaces the value fields of an asset with the plaintext fields of
// update and flips IsEnabled to match. The audit event carries the old and
// new values in encrypted form only.
func (s *AssetsService) Update(ctx context.Context, scope *identity.Scope, assetID uint, update *model.Asset) error {
	if update == nil {
		return fmt.Errorf("%w: nil asset", ErrInvalidArgument)
	}

	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrUnauthorized
	}

	asset, err := s.load(ctx, scope, assetID)
	if err != nil {
		return err
	}

	oldValue := encryptedSnapshot(asset)

	update.Kind = asset.Kind
	fields := update.EncryptedFields()
	for _, field := range fields {
		enc, err := s.cipher.EncryptString(*field)
		if err != nil {
			return fmt.Errorf("assets: %w", err)
		}
		*field = enc
	}

	targets := asset.EncryptedFields()
	for i := range targets {
		*targets[i] = *fields[i]
	}
	asset.IsEnabled = update.IsEnabled
	asset.Modified = time.Now().UTC()
	asset.ModifiedByID = &current.ID

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(asset).Error; err != nil {
			return fmt.Errorf("assets: failed to update %d: %w", asset.ID, err)
		}
		return s.events.Append(tx, audit.AssetModifiedEvent{
			ActorID:   current.ID,
			ProjectID: asset.ProjectID,
			AssetID:   asset.ID,
			OldValue:  oldValue,
			NewValue:  encryptedSnapshot(asset),
			ClientIP:  scope.RemoteIP(),
		})
	})
}

// Archive transitions a single asset to archived. One-way, like project
// archive.
func (s *AssetsService) Archive(ctx context.Context, scope *identity.Scope, assetID uint) error {
	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrUnauthorized
	}

	asset, err := s.load(ctx, scope, assetID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Asset{}).
			Where("id = ?", asset.ID).
			Update("is_archived", true).Error; err != nil {
			return fmt.Errorf("assets: failed to archive %d: %w", asset.ID, err)
		}
		return s.events.Append(tx, audit.AssetArchivedEvent{
			ActorID:   current.ID,
			ProjectID: asset.ProjectID,
			AssetID:   asset.ID,
			ClientIP:  scope.RemoteIP(),
		})
	})
}

// load fetches a non-archived asset from persisted state and verifies the
// caller's access to its project. Missing assets, archived assets and
// assets in inaccessible projects all return ErrAssetNotFound.
func (s *AssetsService) load(ctx context.Context, scope *identity.Scope, assetID uint) (*model.Asset, error) {
	var asset model.Asset
	err := s.db.WithContext(ctx).First(&asset, assetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("assets: failed to load %d: %w", assetID, err)
	}
	if asset.IsArchived {
		return nil, ErrAssetNotFound
	}

	ok, err := s.access.HasAccess(ctx, scope, asset.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAssetNotFound
	}
	return &asset, nil
}

// encryptedSnapshot flattens the encrypted fields of an asset for the audit
// trail. Plaintext never appears here.
func encryptedSnapshot(a *model.Asset) string {
	out := ""
	for _, field := range a.EncryptedFields() {
		if out != "" {
			out += "|"
		}
		out += *field
	}
	return out
}
