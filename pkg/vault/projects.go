package vault

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/teamstore/keeper/pkg/audit"
	"github.com/teamstore/keeper/pkg/crypto"
	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
)

// ProjectsService owns the project lifecycle. Every mutation is a single
// database transaction that includes its audit event, and every encrypted
// field crosses the cipher exactly once on the way in and once on the way
// out.
type ProjectsService struct {
	db         *gorm.DB
	cipher     *crypto.StringCipher
	identities *IdentityService
	access     *AccessService
	events     *audit.Store
}

// NewProjectsService creates a projects service.
func NewProjectsService(db *gorm.DB, cipher *crypto.StringCipher, identities *IdentityService, access *AccessService, events *audit.Store) *ProjectsService {
	return &ProjectsService{
		db:         db,
		cipher:     cipher,
		identities: identities,
		access:     access,
		events:     events,
	}
}

// ListOptions controls List behaviour.
type ListOptions struct {
	// SkipDecryption returns rows with ciphertext fields intact, for export.
	SkipDecryption bool

	// Limit caps the number of projects returned; 0 means no cap.
	Limit int
}

// List returns the non-archived projects the caller may see, grants and
// assets preloaded. Administrators see every project; other callers see the
// projects they hold a grant on.
func (s *ProjectsService) List(ctx context.Context, scope *identity.Scope, opts ListOptions) ([]model.Project, error) {
	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrUnauthorized
	}

	isAdmin, err := s.identities.IsAdmin(ctx, scope)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Preload("AccessGrants").
		Preload("AccessGrants.Identity").
		Preload("Assets", "is_archived = ?", false).
		Where("projects.is_archived = ?", false).
		Order("projects.id")
	if !isAdmin {
		q = q.Joins("JOIN access_grants ON access_grants.project_id = projects.id").
			Where("access_grants.identity_id = ?", current.ID).
			Distinct("projects.*")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var projects []model.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("projects: failed to list: %w", err)
	}

	if !opts.SkipDecryption {
		for i := range projects {
			if err := s.decryptProject(&projects[i]); err != nil {
				return nil, err
			}
		}
	}

	return projects, nil
}

// Get returns one project with grants and non-archived assets, decrypted.
// A missing project, an archived project and a project the caller holds no
// grant on are indistinguishable; all return ErrProjectNotFound.
func (s *ProjectsService) Get(ctx context.Context, scope *identity.Scope, projectID int) (*model.Project, error) {
	if projectID < 0 {
		return nil, fmt.Errorf("%w: negative project id", ErrInvalidArgument)
	}

	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrUnauthorized
	}

	var project model.Project
	err = s.db.WithContext(ctx).
		Preload("AccessGrants").
		Preload("AccessGrants.Identity").
		Preload("Assets", "is_archived = ?", false).
		First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("projects: failed to load %d: %w", projectID, err)
	}
	if project.IsArchived {
		return nil, ErrProjectNotFound
	}

	isAdmin, err := s.identities.IsAdmin(ctx, scope)
	if err != nil {
		return nil, err
	}
	if !isAdmin && MostPermissiveRole(project.AccessGrants, current.ID) == "" {
		return nil, ErrProjectNotFound
	}

	if err := s.decryptProject(&project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Create persists a new project with plaintext fields encrypted on the way
// in. The caller always ends up with a grant: if the supplied grants do not
// include one for the caller, an Owner grant is synthesized. Grant creation
// is attributed to the caller. The project row, its grants and the creation
// event commit in one transaction.
func (s *ProjectsService) Create(ctx context.Context, scope *identity.Scope, project *model.Project) (uint, error) {
	return s.create(ctx, scope, project, true)
}

func (s *ProjectsService) create(ctx context.Context, scope *identity.Scope, project *model.Project, encryptAssets bool) (uint, error) {
	if project == nil {
		return 0, fmt.Errorf("%w: nil project", ErrInvalidArgument)
	}
	if strings.TrimSpace(project.Title) == "" {
		return 0, fmt.Errorf("%w: empty title", ErrInvalidArgument)
	}

	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, ErrUnauthorized
	}

	for _, field := range []*string{&project.Title, &project.Description, &project.Category} {
		enc, err := s.cipher.EncryptString(*field)
		if err != nil {
			return 0, fmt.Errorf("projects: %w", err)
		}
		*field = enc
	}
	if encryptAssets {
		for i := range project.Assets {
			if err := s.encryptAsset(&project.Assets[i]); err != nil {
				return 0, err
			}
		}
	}

	// Caller matching is by directory object id; the supplied grants may
	// carry identities that are not persisted yet.
	callerGranted := false
	for i := range project.AccessGrants {
		g := &project.AccessGrants[i]
		if g.IdentityID == current.ID {
			callerGranted = true
		}
		if g.Identity != nil && g.Identity.ObjectID == current.ObjectID {
			callerGranted = true
			g.Identity = current
			g.IdentityID = current.ID
		}
	}
	if !callerGranted {
		project.AccessGrants = append(project.AccessGrants, model.AccessGrant{
			Role:       RoleOwner,
			Identity:   current,
			IdentityID: current.ID,
		})
	}

	if err := s.resolveGrantIdentities(ctx, project.AccessGrants); err != nil {
		return 0, err
	}

	// Every grant must be attributable to a persisted creator.
	if current.ID == 0 {
		return 0, fmt.Errorf("%w: caller has no persisted identity", ErrInvalidState)
	}
	now := time.Now().UTC()
	for i := range project.AccessGrants {
		g := &project.AccessGrants[i]
		g.Created = now
		g.CreatedByID = &current.ID
		g.Modified = now
		g.ModifiedByID = &current.ID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("projects: failed to create: %w", err)
		}
		return s.events.Append(tx, audit.ProjectCreatedEvent{
			ActorID:   current.ID,
			ProjectID: project.ID,
			ClientIP:  scope.RemoteIP(),
		})
	})
	if err != nil {
		return 0, err
	}

	return project.ID, nil
}

// resolveGrantIdentities binds supplied grants to persisted identity rows.
// Grants may arrive carrying embedded identities that are already known
// locally under the same object id; those must reference the existing row,
// not insert a duplicate the unique index would swallow without an id.
// Identities not seen before stay attached and insert with the grant.
func (s *ProjectsService) resolveGrantIdentities(ctx context.Context, grants []model.AccessGrant) error {
	for i := range grants {
		g := &grants[i]
		if g.IdentityID != 0 {
			continue
		}
		if g.Identity == nil || g.Identity.ObjectID == "" {
			return fmt.Errorf("%w: grant without a resolvable identity", ErrInvalidArgument)
		}

		var existing model.Identity
		err := s.db.WithContext(ctx).Where("object_id = ?", g.Identity.ObjectID).First(&existing).Error
		switch {
		case err == nil:
			g.Identity = &existing
			g.IdentityID = existing.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			g.Identity.ID = 0
		default:
			return fmt.Errorf("projects: failed to resolve grant identity %s: %w", g.Identity.ObjectID, err)
		}
	}
	return nil
}

// Import persists a project exported from another store. All internal ids
// on the project, its grants and its assets are reset so the rows insert
// fresh. Asset fields must arrive as valid ciphertext under the local key;
// each is verified by decryption before anything is written.
func (s *ProjectsService) Import(ctx context.Context, scope *identity.Scope, project *model.Project) (uint, error) {
	if project == nil {
		return 0, fmt.Errorf("%w: nil project", ErrInvalidArgument)
	}

	project.ID = 0
	for i := range project.AccessGrants {
		g := &project.AccessGrants[i]
		g.ID = 0
		g.ProjectID = 0
		// Identity ids from the source instance mean nothing here; grants
		// rebind by object id during creation.
		g.IdentityID = 0
	}
	for i := range project.Assets {
		a := &project.Assets[i]
		a.ID = 0
		a.ProjectID = 0
		for _, field := range a.EncryptedFields() {
			if _, err := s.cipher.DecryptString(*field); err != nil {
				return 0, fmt.Errorf("projects: import asset %d: %w", i, err)
			}
		}
	}

	// Asset fields stay as verified ciphertext; only the plaintext project
	// fields are encrypted on the way in.
	return s.create(ctx, scope, project, false)
}

// Archive transitions a project and all its assets to archived. The
// transition is one-way; archived projects disappear from every read path.
// The project is reloaded inside the transaction so the cascade works from
// persisted state, not the caller's copy.
func (s *ProjectsService) Archive(ctx context.Context, scope *identity.Scope, project *model.Project) error {
	if project == nil || project.ID == 0 {
		return fmt.Errorf("%w: nil project", ErrInvalidArgument)
	}

	current, err := s.identities.Current(ctx, scope)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrUnauthorized
	}

	ok, err := s.access.HasAccess(ctx, scope, project.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProjectNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fresh model.Project
		if err := tx.Select("id", "is_archived").First(&fresh, project.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return fmt.Errorf("projects: failed to load %d: %w", project.ID, err)
		}

		res := tx.Model(&model.Project{}).
			Where("id = ? AND is_archived = ?", fresh.ID, false).
			Update("is_archived", true)
		if res.Error != nil {
			return fmt.Errorf("projects: failed to archive %d: %w", fresh.ID, res.Error)
		}
		if res.RowsAffected != 1 {
			log.Printf("projects: archive of %d affected %d rows", fresh.ID, res.RowsAffected)
		}

		if err := tx.Model(&model.Asset{}).
			Where("project_id = ? AND is_archived = ?", fresh.ID, false).
			Update("is_archived", true).Error; err != nil {
			return fmt.Errorf("projects: failed to archive assets of %d: %w", fresh.ID, err)
		}

		return s.events.Append(tx, audit.ProjectArchivedEvent{
			ActorID:   current.ID,
			ProjectID: fresh.ID,
			ClientIP:  scope.RemoteIP(),
		})
	})
	if err != nil {
		return err
	}

	project.IsArchived = true
	for i := range project.Assets {
		project.Assets[i].IsArchived = true
	}
	return nil
}

func (s *ProjectsService) decryptProject(p *model.Project) error {
	for _, field := range []*string{&p.Title, &p.Description, &p.Category} {
		plain, err := s.cipher.DecryptString(*field)
		if err != nil {
			return fmt.Errorf("projects: project %d: %w", p.ID, err)
		}
		*field = plain
	}
	for i := range p.Assets {
		if err := s.decryptAsset(&p.Assets[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProjectsService) encryptAsset(a *model.Asset) error {
	for _, field := range a.EncryptedFields() {
		enc, err := s.cipher.EncryptString(*field)
		if err != nil {
			return fmt.Errorf("projects: asset %d: %w", a.ID, err)
		}
		*field = enc
	}
	return nil
}

func (s *ProjectsService) decryptAsset(a *model.Asset) error {
	for _, field := range a.EncryptedFields() {
		plain, err := s.cipher.DecryptString(*field)
		if err != nil {
			return fmt.Errorf("projects: asset %d: %w", a.ID, err)
		}
		*field = plain
	}
	return nil
}
