package models

import (
	"time"

	"gorm.io/gorm"
)

type Incident struct {
	gorm.Model

	MonitorID   uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Report      string `gorm:"type:text"`
	Status      string `gorm:"not null;default:ongoing"`
	StartedAt   time.Time
	ResolvedAt  *time.Time

	// Relationships
	Monitor Monitor `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
