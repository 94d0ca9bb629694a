package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a closed set. Free-text roles are not representable.
type Role string

const (
	RoleStudent Role = "student"
	RoleSociety Role = "society"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleSociety, RoleAdmin:
		return true
	}
	return false
}

// ApprovalStatus tracks the society signup lifecycle. Profiles with a role
// other than society are always approved.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
)

type Profile struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string         `gorm:"size:100;not null" json:"fullname"`
	Username     string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         Role           `gorm:"size:20;not null" json:"role"`
	Status       ApprovalStatus `gorm:"size:20;not null" json:"status"`
	SocietyID    *uuid.UUID     `gorm:"type:uuid" json:"society_id,omitempty"`
	Society      *Society       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"society,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
