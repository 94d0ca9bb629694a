package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Society is the organizational entity that owns events. It is created
// before the profile that references it during society signup, so a row
// can briefly (or, after a rejected signup, permanently) have no profile.
type Society struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Society) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
