package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventStatus string

const (
	EventPending  EventStatus = "pending"
	EventApproved EventStatus = "approved"
	EventRejected EventStatus = "rejected"
)

type Event struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string      `gorm:"size:150;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	EventDate   string      `gorm:"size:10;not null;index" json:"event_date"`
	StartTime   string      `gorm:"size:5;not null" json:"start_time"`
	EndTime     string      `gorm:"size:5" json:"end_time"`
	Venue       string      `gorm:"size:150;not null" json:"venue"`
	PosterURL   *string     `gorm:"type:text" json:"poster_url,omitempty"`
	SocietyID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"society_id"`
	Society     Society     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"society"`
	Status      EventStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
