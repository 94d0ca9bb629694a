package repository

import (
	"context"

	"anoa.com/campuseventhub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *entity.Registration) error
	FindByEventAndStudent(ctx context.Context, eventID, studentID uuid.UUID) (*entity.Registration, error)
	// DeleteByEventAndStudent reports how many rows were removed so the
	// caller can distinguish a cancel from a no-op.
	DeleteByEventAndStudent(ctx context.Context, eventID, studentID uuid.UUID) (int64, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Registration, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.Registration, error)
	CountByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *entity.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepository) FindByEventAndStudent(ctx context.Context, eventID, studentID uuid.UUID) (*entity.Registration, error) {
	var reg entity.Registration
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		First(&reg).Error; err != nil {
		return nil, err
	}

	return &reg, nil
}

func (r *registrationRepository) DeleteByEventAndStudent(ctx context.Context, eventID, studentID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Delete(&entity.Registration{})
	return res.RowsAffected, res.Error
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Registration, error) {
	var regs []entity.Registration
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at asc").
		Find(&regs).Error; err != nil {
		return nil, err
	}

	return regs, nil
}

func (r *registrationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.Registration, error) {
	var regs []entity.Registration
	if err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Event.Society").
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&regs).Error; err != nil {
		return nil, err
	}

	return regs, nil
}

func (r *registrationRepository) CountByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID uuid.UUID
		Total   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.Registration{}).
		Select("event_id, COUNT(*) as total").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.EventID] = row.Total
	}

	return counts, nil
}
