// Package bootstrap seeds a fresh keeper instance from a declarative YAML
// file: administrator designations and initial projects with their assets.
package bootstrap

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
	"github.com/teamstore/keeper/pkg/vault"
)

// Seed is the parsed bootstrap file.
type Seed struct {
	Administrators []Administrator `yaml:"administrators"`
	Projects       []Project       `yaml:"projects"`
}

// Administrator designates one identity, addressed by object id or UPN.
type Administrator struct {
	ObjectID string `yaml:"object_id"`
	Upn      string `yaml:"upn"`
}

// Project declares one project to create with its assets. Field values are
// plaintext; encryption happens on the way into the store.
type Project struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Category    string  `yaml:"category"`
	Assets      []Asset `yaml:"assets"`
}

// Asset declares one credential or note.
type Asset struct {
	Kind   string `yaml:"kind"`
	Login  string `yaml:"login"`
	Domain string `yaml:"domain"`
	Value  string `yaml:"value"`
	Title  string `yaml:"title"`
	Body   string `yaml:"body"`
}

// Parse reads and validates a bootstrap file.
func Parse(r io.Reader) (*Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("bootstrap: failed to parse: %w", err)
	}

	for i, admin := range seed.Administrators {
		if admin.ObjectID == "" && admin.Upn == "" {
			return nil, fmt.Errorf("bootstrap: administrator %d needs object_id or upn", i)
		}
	}
	for i, project := range seed.Projects {
		if project.Title == "" {
			return nil, fmt.Errorf("bootstrap: project %d has no title", i)
		}
		for j, asset := range project.Assets {
			kind := model.AssetKind(asset.Kind)
			if kind != model.AssetKindCredential && kind != model.AssetKindNote {
				return nil, fmt.Errorf("bootstrap: project %d asset %d has unknown kind %q", i, j, asset.Kind)
			}
		}
	}

	return &seed, nil
}

// Apply creates everything the seed declares. The operator scope becomes
// the creator and owner of every seeded project. Apply is not idempotent;
// it is meant for empty instances.
func (s *Seed) Apply(
	ctx context.Context,
	scope *identity.Scope,
	identities *vault.IdentityService,
	projects *vault.ProjectsService,
) error {
	for _, admin := range s.Administrators {
		var (
			target *model.Identity
			err    error
		)
		if admin.ObjectID != "" {
			target, err = identities.ResolveOrProvision(ctx, scope, admin.ObjectID)
		} else {
			target, err = identities.ResolveByUPN(ctx, scope, admin.Upn)
		}
		if err != nil {
			return fmt.Errorf("bootstrap: administrator %s%s: %w", admin.ObjectID, admin.Upn, err)
		}
		if err := identities.GrantAdministrator(ctx, scope, target); err != nil {
			return fmt.Errorf("bootstrap: administrator %s: %w", target.ObjectID, err)
		}
	}

	for _, declared := range s.Projects {
		project := &model.Project{
			Title:       declared.Title,
			Description: declared.Description,
			Category:    declared.Category,
		}
		for _, asset := range declared.Assets {
			project.Assets = append(project.Assets, model.Asset{
				Kind:      model.AssetKind(asset.Kind),
				IsEnabled: true,
				Login:     asset.Login,
				Domain:    asset.Domain,
				Value:     asset.Value,
				Title:     asset.Title,
				Body:      asset.Body,
			})
		}

		if _, err := projects.Create(ctx, scope, project); err != nil {
			return fmt.Errorf("bootstrap: project %q: %w", declared.Title, err)
		}
	}

	return nil
}
