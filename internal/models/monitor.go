package models

import (
	"time"

	"gorm.io/gorm"
)

type Monitor struct {
	gorm.Model

	UserID           uint   `gorm:"not null;index"`
	Name             string `gorm:"not null"`
	URL              string `gorm:"not null"`
	CheckInterval    int    `gorm:"not null;default:60"` // Seconds between scheduled checks
	Timeout          int    `gorm:"not null;default:30"` // Probe timeout in seconds
	Status           string `gorm:"not null;default:unknown"`
	LastChecked      *time.Time
	LastStatusChange *time.Time

	// Relationships
	User      User       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Checks    []Check    `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Incidents []Incident `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
