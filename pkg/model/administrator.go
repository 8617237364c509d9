package model

import "time"

// Administrator designates an identity as a global administrator.
// Administrators bypass per-project access grant checks.
type Administrator struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	IdentityID uint      `gorm:"column:identity_id;not null;index"`
	Identity   *Identity `gorm:"foreignKey:IdentityID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Administrator) TableName() string {
	return "administrators"
}
