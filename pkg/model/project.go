package model

// Project is a container of assets. Title, Description and Category are
// at-rest-encrypted; the persisted columns always hold ciphertext.
//
// Invariant: a non-archived project carries at least one AccessGrant with
// role Owner at all times after creation.
type Project struct {
	ID          uint   `gorm:"column:id;primaryKey"`
	Title       string `gorm:"column:title;not null"`
	Description string `gorm:"column:description"`
	Category    string `gorm:"column:category"`
	IsArchived  bool   `gorm:"column:is_archived;not null;default:false"`

	AccessGrants []AccessGrant `gorm:"foreignKey:ProjectID"`
	Assets       []Asset       `gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}
