package model

import "time"

// AssetKind discriminates the closed set of asset variants.
type AssetKind string

const (
	AssetKindCredential AssetKind = "credential"
	AssetKindNote       AssetKind = "note"
)

// Asset belongs to exactly one project. Credentials carry Login, Domain and
// Value; notes carry Title and Body. All five columns are at-rest-encrypted.
// Archiving a project cascades to its assets.
type Asset struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	ProjectID uint      `gorm:"column:project_id;not null;index"`
	Kind      AssetKind `gorm:"column:kind;not null"`

	IsEnabled  bool `gorm:"column:is_enabled;not null;default:true"`
	IsArchived bool `gorm:"column:is_archived;not null;default:false"`

	// Credential fields
	Login  string `gorm:"column:login"`
	Domain string `gorm:"column:domain"`
	Value  string `gorm:"column:value"`

	// Note fields
	Title string `gorm:"column:title"`
	Body  string `gorm:"column:body"`

	Created      time.Time `gorm:"column:created"`
	CreatedByID  *uint     `gorm:"column:created_by_id"`
	CreatedBy    *Identity `gorm:"foreignKey:CreatedByID"`
	Modified     time.Time `gorm:"column:modified"`
	ModifiedByID *uint     `gorm:"column:modified_by_id"`
	ModifiedBy   *Identity `gorm:"foreignKey:ModifiedByID"`
}

func (Asset) TableName() string {
	return "assets"
}

// EncryptedFields returns pointers to the at-rest-encrypted columns that are
// populated for this asset's kind.
func (a *Asset) EncryptedFields() []*string {
	switch a.Kind {
	case AssetKindCredential:
		return []*string{&a.Login, &a.Domain, &a.Value}
	case AssetKindNote:
		return []*string{&a.Title, &a.Body}
	default:
		return nil
	}
}
