package endpoints

import (
	"time"

	"github.com/teamstore/keeper/pkg/model"
)

type identityResponse struct {
	ID          uint   `json:"id"`
	Kind        string `json:"kind"`
	ObjectID    string `json:"object_id"`
	DisplayName string `json:"display_name"`
	Upn         string `json:"upn,omitempty"`
}

type accessGrantResponse struct {
	ID       uint              `json:"id"`
	Role     string            `json:"role"`
	Identity *identityResponse `json:"identity,omitempty"`
	Created  time.Time         `json:"created"`
}

type assetResponse struct {
	ID        uint      `json:"id"`
	Kind      string    `json:"kind"`
	IsEnabled bool      `json:"is_enabled"`
	Login     string    `json:"login,omitempty"`
	Domain    string    `json:"domain,omitempty"`
	Value     string    `json:"value,omitempty"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	Created   time.Time `json:"created"`
	Modified  time.Time `json:"modified"`
}

type projectResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`

	// Role is the caller's effective role on the project. Only populated
	// on single-project reads.
	Role   string                `json:"role,omitempty"`
	Access []accessGrantResponse `json:"access"`
	Assets []assetResponse       `json:"assets"`
}

func presentIdentity(id *model.Identity) *identityResponse {
	if id == nil {
		return nil
	}
	return &identityResponse{
		ID:          id.ID,
		Kind:        string(id.Kind),
		ObjectID:    id.ObjectID,
		DisplayName: id.DisplayName,
		Upn:         id.Upn,
	}
}

func presentAsset(a *model.Asset) assetResponse {
	return assetResponse{
		ID:        a.ID,
		Kind:      string(a.Kind),
		IsEnabled: a.IsEnabled,
		Login:     a.Login,
		Domain:    a.Domain,
		Value:     a.Value,
		Title:     a.Title,
		Body:      a.Body,
		Created:   a.Created,
		Modified:  a.Modified,
	}
}

func presentProject(p *model.Project) projectResponse {
	resp := projectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Access:      make([]accessGrantResponse, 0, len(p.AccessGrants)),
		Assets:      make([]assetResponse, 0, len(p.Assets)),
	}
	for i := range p.AccessGrants {
		g := &p.AccessGrants[i]
		resp.Access = append(resp.Access, accessGrantResponse{
			ID:       g.ID,
			Role:     g.Role,
			Identity: presentIdentity(g.Identity),
			Created:  g.Created,
		})
	}
	for i := range p.Assets {
		resp.Assets = append(resp.Assets, presentAsset(&p.Assets[i]))
	}
	return resp
}
