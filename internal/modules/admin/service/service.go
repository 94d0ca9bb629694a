package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/campuseventhub/internal/entity"
	eventRepository "anoa.com/campuseventhub/internal/modules/event/repository"
	notifService "anoa.com/campuseventhub/internal/modules/notification/service"
	searchService "anoa.com/campuseventhub/internal/modules/search/service"
	userRepository "anoa.com/campuseventhub/internal/modules/user/repository"
	"anoa.com/campuseventhub/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AdminService interface {
	PendingSocieties(ctx context.Context) ([]entity.Profile, error)
	ApproveSociety(ctx context.Context, profileID uuid.UUID) error
	RejectSociety(ctx context.Context, profileID uuid.UUID) error
	PendingEvents(ctx context.Context) ([]entity.Event, error)
	ApproveEvent(ctx context.Context, eventID uuid.UUID) (*entity.Event, error)
	RejectEvent(ctx context.Context, eventID uuid.UUID) (*entity.Event, error)
}

type adminService struct {
	profiles      userRepository.ProfileRepository
	events        eventRepository.EventRepository
	notifications notifService.NotificationService
	search        searchService.EventSearchService
	logger        *zap.Logger
}

func NewAdminService(profiles userRepository.ProfileRepository, events eventRepository.EventRepository, notifications notifService.NotificationService, search searchService.EventSearchService, logger *zap.Logger) AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &adminService{
		profiles:      profiles,
		events:        events,
		notifications: notifications,
		search:        search,
		logger:        logger,
	}
}

func (s *adminService) PendingSocieties(ctx context.Context) ([]entity.Profile, error) {
	profiles, err := s.profiles.FindPendingSocieties(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrUnavailable, err)
	}

	for i := range profiles {
		profiles[i].PasswordHash = ""
	}

	return profiles, nil
}

// ApproveSociety transitions a pending society profile to approved.
// Approving an already approved profile is a no-op so a double click or
// a retried request does not error.
func (s *adminService) ApproveSociety(ctx context.Context, profileID uuid.UUID) error {
	rows, err := s.profiles.ApproveFromPending(ctx, profileID)
	if err != nil {
		return err
	}

	if rows == 0 {
		profile, ferr := s.profiles.FindByID(ctx, profileID)
		if ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return ferr
		}

		if profile.Role == entity.RoleSociety && profile.Status == entity.StatusApproved {
			return nil
		}

		return fmt.Errorf("%w: profile is not a pending society", apperror.ErrConflict)
	}

	if nerr := s.notifications.Notify(ctx, profileID, entity.NotifSocietyApproved,
		"Your society account has been approved. You can now log in and propose events.", nil); nerr != nil {
		s.logger.Warn("failed to create approval notification", zap.String("profile_id", profileID.String()), zap.Error(nerr))
	}

	return nil
}

// RejectSociety removes a pending society profile. The society row is
// left in place; it owns nothing and keeping it avoids touching rows an
// approved account might share a name with.
func (s *adminService) RejectSociety(ctx context.Context, profileID uuid.UUID) error {
	rows, err := s.profiles.DeletePendingSociety(ctx, profileID)
	if err != nil {
		return err
	}

	if rows == 0 {
		_, ferr := s.profiles.FindByID(ctx, profileID)
		if ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return ferr
		}

		return fmt.Errorf("%w: only a pending society can be rejected", apperror.ErrConflict)
	}

	return nil
}

func (s *adminService) PendingEvents(ctx context.Context) ([]entity.Event, error) {
	events, err := s.events.FindPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrUnavailable, err)
	}

	return events, nil
}

// ApproveEvent moves a pending event to approved, indexes it for search
// and notifies the owning society. Approving an already approved event
// is a no-op.
func (s *adminService) ApproveEvent(ctx context.Context, eventID uuid.UUID) (*entity.Event, error) {
	rows, err := s.events.UpdateStatusFromPending(ctx, eventID, entity.EventApproved)
	if err != nil {
		return nil, err
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if rows == 0 {
		if event.Status == entity.EventApproved {
			return event, nil
		}
		return nil, fmt.Errorf("%w: event is not pending", apperror.ErrConflict)
	}

	if serr := s.search.IndexEvent(event); serr != nil {
		s.logger.Warn("failed to index approved event", zap.String("event_id", eventID.String()), zap.Error(serr))
	}

	s.notifyOwner(ctx, event, entity.NotifEventApproved,
		fmt.Sprintf("Your event %q has been approved and is now public.", event.Title))

	return event, nil
}

// RejectEvent moves a pending event to rejected. Rejected events stay in
// the database so the owning society can see the outcome; they are never
// indexed for search.
func (s *adminService) RejectEvent(ctx context.Context, eventID uuid.UUID) (*entity.Event, error) {
	rows, err := s.events.UpdateStatusFromPending(ctx, eventID, entity.EventRejected)
	if err != nil {
		return nil, err
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if rows == 0 {
		if event.Status == entity.EventRejected {
			return event, nil
		}
		return nil, fmt.Errorf("%w: event is not pending", apperror.ErrConflict)
	}

	s.notifyOwner(ctx, event, entity.NotifEventRejected,
		fmt.Sprintf("Your event %q was not approved.", event.Title))

	return event, nil
}

func (s *adminService) notifyOwner(ctx context.Context, event *entity.Event, notifType entity.NotificationType, message string) {
	owner, err := s.profiles.FindBySocietyID(ctx, event.SocietyID)
	if err != nil {
		s.logger.Warn("failed to resolve event owner for notification",
			zap.String("event_id", event.ID.String()),
			zap.Error(err))
		return
	}

	if nerr := s.notifications.Notify(ctx, owner.ID, notifType, message, &event.ID); nerr != nil {
		s.logger.Warn("failed to create event notification",
			zap.String("event_id", event.ID.String()),
			zap.Error(nerr))
	}
}
