package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registration links a student to an approved event. The composite unique
// index is the line of defense against double submits; the service maps
// the duplicate-key failure to a conflict.
type Registration struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_student" json:"event_id"`
	Event       Event     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_student" json:"student_id"`
	FullName    string    `gorm:"size:100;not null" json:"full_name"`
	RollNumber  string    `gorm:"size:50;not null" json:"roll_number"`
	PhoneNumber string    `gorm:"size:20;not null" json:"phone_number"`
	Department  string    `gorm:"size:100;not null" json:"department"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
