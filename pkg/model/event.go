package model

import "time"

// Event is an immutable audit record. Rows are append-only: the core never
// updates or deletes them.
type Event struct {
	ID   uint      `gorm:"column:id;primaryKey"`
	Type string    `gorm:"column:type;not null"`
	At   time.Time `gorm:"column:at;not null"`

	ActorID   uint  `gorm:"column:actor_id;not null"`
	ProjectID *uint `gorm:"column:project_id"`
	AssetID   *uint `gorm:"column:asset_id"`

	OldValue string `gorm:"column:old_value"`
	NewValue string `gorm:"column:new_value"`
	Data     string `gorm:"column:data"`

	RemoteIP string `gorm:"column:remote_ip"`
}

func (Event) TableName() string {
	return "events"
}
