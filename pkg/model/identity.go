package model

// IdentityKind discriminates the closed set of principal variants.
type IdentityKind string

const (
	IdentityKindUser  IdentityKind = "user"
	IdentityKindGroup IdentityKind = "group"
)

// Identity represents a user or group principal known to the system. An
// identity is created on first sight of a previously-unseen directory object
// identifier and is never deleted, only referenced.
type Identity struct {
	ID          uint         `gorm:"column:id;primaryKey"`
	Kind        IdentityKind `gorm:"column:kind;not null"`
	ObjectID    string       `gorm:"column:object_id;uniqueIndex;not null"`
	DisplayName string       `gorm:"column:display_name"`
	TenantID    string       `gorm:"column:tenant_id"`

	// Upn is the user principal name; set only for Kind == IdentityKindUser.
	Upn string `gorm:"column:upn"`
}

func (Identity) TableName() string {
	return "identities"
}

// IsUser reports whether the identity is a user principal.
func (i *Identity) IsUser() bool {
	return i.Kind == IdentityKindUser
}

// IsGroup reports whether the identity is a group principal.
func (i *Identity) IsGroup() bool {
	return i.Kind == IdentityKindGroup
}
