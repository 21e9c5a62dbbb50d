package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	OrgName      string `gorm:"not null"`
	OrgSlug      string `gorm:"uniqueIndex;not null"`
	Plan         string `gorm:"not null;default:free"`

	// Relationships
	Monitors []Monitor `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
