package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/campuseventhub/internal/entity"
	eventRepository "anoa.com/campuseventhub/internal/modules/event/repository"
	"anoa.com/campuseventhub/internal/modules/registration/dto"
	"anoa.com/campuseventhub/internal/modules/registration/repository"
	"anoa.com/campuseventhub/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegistrationService interface {
	Register(ctx context.Context, student *entity.Profile, eventID uuid.UUID, input dto.RegisterInput) (*entity.Registration, error)
	Cancel(ctx context.Context, student *entity.Profile, eventID uuid.UUID) error
	MyRegistrations(ctx context.Context, student *entity.Profile) ([]entity.Registration, error)
	Attendees(ctx context.Context, profile *entity.Profile, eventID uuid.UUID) ([]entity.Registration, error)
}

type registrationService struct {
	repo   repository.RegistrationRepository
	events eventRepository.EventRepository
	logger *zap.Logger
}

func NewRegistrationService(repo repository.RegistrationRepository, events eventRepository.EventRepository, logger *zap.Logger) RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &registrationService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// Register signs a student up for an approved event. The unique index on
// (event_id, student_id) is the backstop against double submits; the
// read-before-write is only there to give a clean error without a round
// trip through the constraint.
func (s *registrationService) Register(ctx context.Context, student *entity.Profile, eventID uuid.UUID, input dto.RegisterInput) (*entity.Registration, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperror.ErrUnavailable, err)
	}

	if event.Status != entity.EventApproved {
		return nil, apperror.ErrEventNotOpen
	}

	if _, err := s.repo.FindByEventAndStudent(ctx, eventID, student.ID); err == nil {
		return nil, apperror.ErrAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apperror.ErrUnavailable, err)
	}

	reg := &entity.Registration{
		EventID:     eventID,
		StudentID:   student.ID,
		FullName:    input.FullName,
		RollNumber:  input.RollNumber,
		PhoneNumber: input.PhoneNumber,
		Department:  input.Department,
	}

	if err := s.repo.Create(ctx, reg); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ErrAlreadyRegistered
		}
		return nil, err
	}

	return reg, nil
}

func (s *registrationService) Cancel(ctx context.Context, student *entity.Profile, eventID uuid.UUID) error {
	rows, err := s.repo.DeleteByEventAndStudent(ctx, eventID, student.ID)
	if err != nil {
		return err
	}

	if rows == 0 {
		return fmt.Errorf("%w: no registration found for this event", apperror.ErrNotFound)
	}

	return nil
}

func (s *registrationService) MyRegistrations(ctx context.Context, student *entity.Profile) ([]entity.Registration, error) {
	return s.repo.ListByStudent(ctx, student.ID)
}

// Attendees lists registrations for an event owned by the caller's
// society. Admins may also view any event's attendees.
func (s *registrationService) Attendees(ctx context.Context, profile *entity.Profile, eventID uuid.UUID) ([]entity.Registration, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if profile.Role != entity.RoleAdmin {
		if profile.Role != entity.RoleSociety || profile.SocietyID == nil || *profile.SocietyID != event.SocietyID {
			return nil, fmt.Errorf("%w: event belongs to another society", apperror.ErrForbidden)
		}
	}

	return s.repo.ListByEvent(ctx, eventID)
}
