package dto

import (
	"io"

	"anoa.com/campuseventhub/internal/entity"
)

type CreateEventInput struct {
	Title       string `form:"title" binding:"required,max=150"`
	Description string `form:"description" binding:"max=5000"`
	EventDate   string `form:"event_date" binding:"required,datetime=2006-01-02"`
	StartTime   string `form:"start_time" binding:"required"`
	EndTime     string `form:"end_time"`
	Venue       string `form:"venue" binding:"required,max=150"`
}

// UpdateEventInput carries only content fields. Status is not part of the
// input on purpose: owners edit content, admins transition status.
type UpdateEventInput struct {
	Title       *string `json:"title" binding:"omitempty,max=150"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	EventDate   *string `json:"event_date" binding:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Venue       *string `json:"venue" binding:"omitempty,max=150"`
	PosterURL   *string `json:"poster_url"`
}

// PosterFile is an uploaded poster image.
type PosterFile struct {
	Reader   io.Reader
	FileName string
}

type SocietyEventResponse struct {
	entity.Event
	RegistrationCount int64 `json:"registration_count"`
}
