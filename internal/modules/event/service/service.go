package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/campuseventhub/internal/entity"
	"anoa.com/campuseventhub/internal/modules/event/dto"
	"anoa.com/campuseventhub/internal/modules/event/repository"
	regRepository "anoa.com/campuseventhub/internal/modules/registration/repository"
	searchService "anoa.com/campuseventhub/internal/modules/search/service"
	"anoa.com/campuseventhub/pkg/apperror"
	"anoa.com/campuseventhub/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EventService interface {
	Propose(ctx context.Context, profile *entity.Profile, input dto.CreateEventInput, poster *dto.PosterFile) (*entity.Event, error)
	ListApproved(ctx context.Context) ([]entity.Event, error)
	ListMine(ctx context.Context, profile *entity.Profile) ([]dto.SocietyEventResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	Update(ctx context.Context, profile *entity.Profile, id uuid.UUID, input dto.UpdateEventInput) (*entity.Event, error)
	Delete(ctx context.Context, profile *entity.Profile, id uuid.UUID) error
	Search(query string, limit int64) ([]searchService.EventDocument, error)
}

type eventService struct {
	repo      repository.EventRepository
	regs      regRepository.RegistrationRepository
	search    searchService.EventSearchService
	storage   storage.ImageStorage
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

func NewEventService(repo repository.EventRepository, regs regRepository.RegistrationRepository, search searchService.EventSearchService, imgStorage storage.ImageStorage, logger *zap.Logger) EventService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &eventService{
		repo:      repo,
		regs:      regs,
		search:    search,
		storage:   imgStorage,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

// Propose creates a new event for the caller's society. Every proposal
// starts pending regardless of who submits it; only an admin transition
// moves it to approved.
func (s *eventService) Propose(ctx context.Context, profile *entity.Profile, input dto.CreateEventInput, poster *dto.PosterFile) (*entity.Event, error) {
	societyID, err := ownedSocietyID(profile)
	if err != nil {
		return nil, err
	}

	event := &entity.Event{
		Title:       input.Title,
		Description: s.sanitizer.Sanitize(input.Description),
		EventDate:   input.EventDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Venue:       input.Venue,
		SocietyID:   societyID,
		Status:      entity.EventPending,
	}

	if poster != nil {
		url, err := s.storage.UploadImage(ctx, poster.Reader, "posters/"+societyID.String(), poster.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to upload poster: %w", err)
		}
		event.PosterURL = &url
	}

	if err := s.repo.Create(ctx, event); err != nil {
		if event.PosterURL != nil {
			if derr := s.storage.DeleteImage(ctx, *event.PosterURL); derr != nil {
				s.logger.Warn("failed to remove poster after create failure", zap.Error(derr))
			}
		}
		return nil, err
	}

	return event, nil
}

func (s *eventService) ListApproved(ctx context.Context) ([]entity.Event, error) {
	events, err := s.repo.FindApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrUnavailable, err)
	}

	return events, nil
}

func (s *eventService) ListMine(ctx context.Context, profile *entity.Profile) ([]dto.SocietyEventResponse, error) {
	societyID, err := ownedSocietyID(profile)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.FindBySociety(ctx, societyID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}

	counts, err := s.regs.CountByEvents(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SocietyEventResponse, len(events))
	for i := range events {
		out[i] = dto.SocietyEventResponse{
			Event:             events[i],
			RegistrationCount: counts[events[i].ID],
		}
	}

	return out, nil
}

func (s *eventService) Get(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return event, nil
}

// Update edits content fields on an event owned by the caller's society.
// The status column is untouched no matter what the input carries.
func (s *eventService) Update(ctx context.Context, profile *entity.Profile, id uuid.UUID, input dto.UpdateEventInput) (*entity.Event, error) {
	event, err := s.ownedEvent(ctx, profile, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = s.sanitizer.Sanitize(*input.Description)
	}
	if input.EventDate != nil {
		fields["event_date"] = *input.EventDate
	}
	if input.StartTime != nil {
		fields["start_time"] = *input.StartTime
	}
	if input.EndTime != nil {
		fields["end_time"] = *input.EndTime
	}
	if input.Venue != nil {
		fields["venue"] = *input.Venue
	}
	if input.PosterURL != nil {
		fields["poster_url"] = *input.PosterURL
	}

	if len(fields) == 0 {
		return event, nil
	}

	if err := s.repo.UpdateFields(ctx, event.ID, fields); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	// Keep the search document in sync when an approved event is edited.
	if updated.Status == entity.EventApproved {
		if serr := s.search.IndexEvent(updated); serr != nil {
			s.logger.Warn("failed to reindex event", zap.String("event_id", updated.ID.String()), zap.Error(serr))
		}
	}

	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, profile *entity.Profile, id uuid.UUID) error {
	event, err := s.ownedEvent(ctx, profile, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteWithRegistrations(ctx, event.ID); err != nil {
		return err
	}

	if serr := s.search.RemoveEvent(event.ID.String()); serr != nil {
		s.logger.Warn("failed to remove event from search index", zap.String("event_id", event.ID.String()), zap.Error(serr))
	}

	if event.PosterURL != nil {
		if derr := s.storage.DeleteImage(ctx, *event.PosterURL); derr != nil {
			s.logger.Warn("failed to delete poster", zap.String("event_id", event.ID.String()), zap.Error(derr))
		}
	}

	return nil
}

func (s *eventService) Search(query string, limit int64) ([]searchService.EventDocument, error) {
	return s.search.Search(query, limit)
}

func (s *eventService) ownedEvent(ctx context.Context, profile *entity.Profile, id uuid.UUID) (*entity.Event, error) {
	societyID, err := ownedSocietyID(profile)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if event.SocietyID != societyID {
		return nil, fmt.Errorf("%w: event belongs to another society", apperror.ErrForbidden)
	}

	return event, nil
}

func ownedSocietyID(profile *entity.Profile) (uuid.UUID, error) {
	if profile == nil || profile.Role != entity.RoleSociety || profile.SocietyID == nil {
		return uuid.Nil, fmt.Errorf("%w: only a society account can manage events", apperror.ErrForbidden)
	}

	if profile.Status != entity.StatusApproved {
		return uuid.Nil, apperror.ErrPendingApproval
	}

	return *profile.SocietyID, nil
}
