package repository

import (
	"context"

	"anoa.com/campuseventhub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindApproved(ctx context.Context) ([]entity.Event, error)
	FindBySociety(ctx context.Context, societyID uuid.UUID) ([]entity.Event, error)
	FindPending(ctx context.Context) ([]entity.Event, error)
	// UpdateFields applies a content-field update. The caller controls the
	// column set; status must never be part of it.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// UpdateStatusFromPending transitions status and reports how many rows
	// changed; zero means the event is gone or already transitioned.
	UpdateStatusFromPending(ctx context.Context, id uuid.UUID, status entity.EventStatus) (int64, error)
	// DeleteWithRegistrations removes the event and every registration
	// referencing it in a single transaction.
	DeleteWithRegistrations(ctx context.Context, id uuid.UUID) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	if err := r.db.WithContext(ctx).
		Preload("Society").
		Where("id = ?", id).
		First(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *eventRepository) FindApproved(ctx context.Context) ([]entity.Event, error) {
	var events []entity.Event
	if err := r.db.WithContext(ctx).
		Preload("Society").
		Where("status = ?", entity.EventApproved).
		Order("event_date asc").
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) FindBySociety(ctx context.Context, societyID uuid.UUID) ([]entity.Event, error) {
	var events []entity.Event
	if err := r.db.WithContext(ctx).
		Where("society_id = ?", societyID).
		Order("created_at desc").
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) FindPending(ctx context.Context) ([]entity.Event, error) {
	var events []entity.Event
	if err := r.db.WithContext(ctx).
		Preload("Society").
		Where("status = ?", entity.EventPending).
		Order("created_at asc").
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&entity.Event{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *eventRepository) UpdateStatusFromPending(ctx context.Context, id uuid.UUID, status entity.EventStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Event{}).
		Where("id = ? AND status = ?", id, entity.EventPending).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *eventRepository) DeleteWithRegistrations(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&entity.Registration{}).Error; err != nil {
			return err
		}

		return tx.Delete(&entity.Event{}, "id = ?", id).Error
	})
}
