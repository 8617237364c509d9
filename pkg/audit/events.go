package audit

import (
	"fmt"

	"github.com/teamstore/keeper/pkg/model"
)

// ProjectCreatedEvent records the creation of a project.
type ProjectCreatedEvent struct {
	ActorID   uint
	ProjectID uint
	ClientIP  string
}

func (e ProjectCreatedEvent) Type() EventType { return EventTypeProjectCreated }

func (e ProjectCreatedEvent) Message() string {
	return fmt.Sprintf("identity %d created project %d", e.ActorID, e.ProjectID)
}

func (e ProjectCreatedEvent) Severity() Severity { return SeverityInfo }
func (e ProjectCreatedEvent) Facility() int      { return FacilityAuthPriv }

func (e ProjectCreatedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"actor": fmt.Sprintf("%d", e.ActorID)},
		SDIDSubject: {"project": fmt.Sprintf("%d", e.ProjectID)},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": "create-project"},
	}
}

func (e ProjectCreatedEvent) Record() model.Event {
	projectID := e.ProjectID
	return model.Event{
		Type:      e.Type().String(),
		ActorID:   e.ActorID,
		ProjectID: &projectID,
		RemoteIP:  e.ClientIP,
	}
}

// ProjectArchivedEvent records the one-way archive transition of a project.
type ProjectArchivedEvent struct {
	ActorID   uint
	ProjectID uint
	ClientIP  string
}

func (e ProjectArchivedEvent) Type() EventType { return EventTypeProjectArchived }

func (e ProjectArchivedEvent) Message() string {
	return fmt.Sprintf("identity %d archived project %d", e.ActorID, e.ProjectID)
}

func (e ProjectArchivedEvent) Severity() Severity { return SeverityNotice }
func (e ProjectArchivedEvent) Facility() int      { return FacilityAuthPriv }

func (e ProjectArchivedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"actor": fmt.Sprintf("%d", e.ActorID)},
		SDIDSubject: {"project": fmt.Sprintf("%d", e.ProjectID)},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": "archive-project"},
	}
}

func (e ProjectArchivedEvent) Record() model.Event {
	projectID := e.ProjectID
	return model.Event{
		Type:      e.Type().String(),
		ActorID:   e.ActorID,
		ProjectID: &projectID,
		OldValue:  "active",
		NewValue:  "archived",
		RemoteIP:  e.ClientIP,
	}
}

// AccessGrantedEvent records a new access grant on a project.
type AccessGrantedEvent struct {
	ActorID        uint
	ProjectID      uint
	TargetObjectID string
	Role           string
	ClientIP       string
}

func (e AccessGrantedEvent) Type() EventType { return EventTypeAccessGranted }

func (e AccessGrantedEvent) Message() string {
	return fmt.Sprintf("identity %d granted %s on project %d to %s",
		e.ActorID, e.Role, e.ProjectID, e.TargetObjectID)
}

func (e AccessGrantedEvent) Severity() Severity { return SeverityInfo }
func (e AccessGrantedEvent) Facility() int      { return FacilityAuthPriv }

func (e AccessGrantedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"actor": fmt.Sprintf("%d", e.ActorID)},
		SDIDSubject: {"project": fmt.Sprintf("%d", e.ProjectID), "target": e.TargetObjectID, "role": e.Role},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": "grant-access"},
	}
}

func (e AccessGrantedEvent) Record() model.Event {
	projectID := e.ProjectID
	return model.Event{
		Type:      e.Type().String(),
		ActorID:   e.ActorID,
		ProjectID: &projectID,
		NewValue:  e.Role,
		RemoteIP:  e.ClientIP,
	}
}

// AccessRevokedEvent records removal of an access grant from a project.
type AccessRevokedEvent struct {
	ActorID        uint
	ProjectID      uint
	TargetObjectID string
	Role           string
	ClientIP       string
}

func (e AccessRevokedEvent) Type() EventType { return EventTypeAccessRevoked }

func (e AccessRevokedEvent) Message() string {
	return fmt.Sprintf("identity %d revoked %s on project %d from %s",
		e.ActorID, e.Role, e.ProjectID, e.TargetObjectID)
}

func (e AccessRevokedEvent) Severity() Severity { return SeverityNotice }
func (e AccessRevokedEvent) Facility() int      { return FacilityAuthPriv }

func (e AccessRevokedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"actor": fmt.Sprintf("%d", e.ActorID)},
		SDIDSubject: {"project": fmt.Sprintf("%d", e.ProjectID), "target": e.TargetObjectID, "role": e.Role},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": "revoke-access"},
	}
}

func (e AccessRevokedEvent) Record() model.Event {
	projectID := e.ProjectID
	return model.Event{
		Type:      e.Type().String(),
		ActorID:   e.ActorID,
		ProjectID: &projectID,
		OldValue:  e.Role,
		RemoteIP:  e.ClientIP,
	}
}

// AssetCreatedEvent records the creation of an asset inside a project.
type AssetCreatedEvent struct {
	ActorID   uint
	ProjectID uint
	AssetID   uint
	Kind      string
	ClientIP  string
}

func (e AssetCreatedEvent) Type() EventType { return EventTypeAssetCreated }

func (e AssetCreatedEvent) Message() string {
	return fmt.Sprintf("identity %d created %s asset %d in project %d",
		e.ActorID, e.Kind, e.AssetID, e.ProjectID)
}

func (e AssetCreatedEvent) Severity() Severity { return SeverityInfo }
func (e AssetCreatedEvent) Facility() int      { return FacilityAuthPriv }

func (e AssetCreatedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"actor": fmt.Sprintf("%d", e.ActorID)},
		SDIDSubject: {"project": fmt.Sprintf("%d", e.ProjectID), "asset": fmt.Sprintf("%d", e.AssetID), "kind": e.Kind},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": "create-asset"},
	}
}

func (e AssetCreatedEvent) Record() model.Event {
	projectID := e.ProjectID
	assetID := e.AssetID
	return model.Event{
		Type:      e.Type().String(),
		ActorID:   e.ActorID,
		ProjectID: &projectID,
		AssetID:   &assetID,
		RemoteIP:  e.ClientIP,
	}
}

// AssetModifiedEvent records a mutation of an asset. Old and new values are
// carried in their encrypted form; plaintext never reaches the audit trail.
type AssetModifiedEvent struct {
	ActorID   uint
	ProjectID uint
	AssetID   uint
	OldValue  string
	NewValue  string
	ClientIP  string
}

func (e AssetModifiedEvent) Type() EventType { return EventTypeAssetModified }

func (e AssetModifiedEvent) Message() string {
	return fmt.Sprintf("identity %d modified asset %d in project %d",
		e.ActorID, e.AssetID, e.ProjectID)
}

func (e AssetModifiedEvent) Severity() Severity { return SeverityInfo }
func (e AssetModifiedEvent) Facility() int      { return FacilityAuthPriv }

func (e AssetModifiedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"actor": fmt.Sprintf("%d", e.ActorID)},
		SDIDSubject: {"project": fmt.Sprintf("%d", e.ProjectID), "asset": fmt.Sprintf("%d", e.AssetID)},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": "modify-asset"},
	}
}

func (e AssetModifiedEvent) Record() model.Event {
	projectID := e.ProjectID
	assetID := e.AssetID
	return model.Event{
		Type:      e.Type().String(),
		ActorID:   e.ActorID,
		ProjectID: &projectID,
		AssetID:   &assetID,
		OldValue:  e.OldValue,
		NewValue:  e.NewValue,
		RemoteIP:  e.ClientIP,
	}
}

// AssetArchivedEvent records the archive transition of a single asset.
type AssetArchivedEvent struct {
	ActorID   uint
	ProjectID uint
	AssetID   uint
	ClientIP  string
}

func (e AssetArchivedEvent) Type() EventType { return EventTypeAssetArchived }

func (e AssetArchivedEvent) Message() string {
	return fmt.Sprintf("identity %d archived asset %d in project %d",
		e.ActorID, e.AssetID, e.ProjectID)
}

func (e AssetArchivedEvent) Severity() Severity { return SeverityNotice }
func (e AssetArchivedEvent) Facility() int      { return FacilityAuthPriv }

func (e AssetArchivedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"actor": fmt.Sprintf("%d", e.ActorID)},
		SDIDSubject: {"project": fmt.Sprintf("%d", e.ProjectID), "asset": fmt.Sprintf("%d", e.AssetID)},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": "archive-asset"},
	}
}

func (e AssetArchivedEvent) Record() model.Event {
	projectID := e.ProjectID
	assetID := e.AssetID
	return model.Event{
		Type:      e.Type().String(),
		ActorID:   e.ActorID,
		ProjectID: &projectID,
		AssetID:   &assetID,
		OldValue:  "active",
		NewValue:  "archived",
		RemoteIP:  e.ClientIP,
	}
}
