package model

import "time"

// AccessGrant binds one identity to one project with a role. Uniqueness over
// (project, identity) is not enforced by the schema; duplicate grants are
// tolerated and resolved by the most permissive role at evaluation time.
type AccessGrant struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	ProjectID uint   `gorm:"column:project_id;not null;index"`
	Role      string `gorm:"column:role;not null"`

	IdentityID uint      `gorm:"column:identity_id;not null;index"`
	Identity   *Identity `gorm:"foreignKey:IdentityID"`

	Created      time.Time `gorm:"column:created"`
	CreatedByID  *uint     `gorm:"column:created_by_id"`
	CreatedBy    *Identity `gorm:"foreignKey:CreatedByID"`
	Modified     time.Time `gorm:"column:modified"`
	ModifiedByID *uint     `gorm:"column:modified_by_id"`
	ModifiedBy   *Identity `gorm:"foreignKey:ModifiedByID"`
}

func (AccessGrant) TableName() string {
	return "access_grants"
}
