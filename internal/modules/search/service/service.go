package service

import (
	"encoding/json"
	"fmt"

	"anoa.com/campuseventhub/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const eventsIndex = "events"

// EventDocument is the shape stored in the search index. Only approved
// events are indexed; pending and rejected ones never reach it.
type EventDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Venue       string `json:"venue"`
	EventDate   string `json:"event_date"`
	StartTime   string `json:"start_time"`
	PosterURL   string `json:"poster_url"`
	SocietyID   string `json:"society_id"`
	SocietyName string `json:"society_name"`
	CreatedAt   int64  `json:"created_at"`
}

type EventSearchService interface {
	IndexEvent(event *entity.Event) error
	RemoveEvent(id string) error
	Search(query string, limit int64) ([]EventDocument, error)
}

type eventSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

// NewEventSearchService builds the search layer. A nil client disables
// indexing and search so the app can run without Meilisearch in dev.
func NewEventSearchService(client meilisearch.ServiceManager, logger *zap.Logger) EventSearchService {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &eventSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}

	if client != nil {
		s.configureIndex()
	}

	return s
}

func (s *eventSearchService) configureIndex() {
	index := s.client.Index(eventsIndex)

	filterable := []interface{}{"society_id", "event_date"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		s.logger.Warn("failed to set filterable attributes", zap.Error(err))
	}

	sortable := []string{"event_date", "created_at"}
	if _, err := index.UpdateSortableAttributes(&sortable); err != nil {
		s.logger.Warn("failed to set sortable attributes", zap.Error(err))
	}

	searchable := []string{"title", "description", "venue", "society_name"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		s.logger.Warn("failed to set searchable attributes", zap.Error(err))
	}
}

func (s *eventSearchService) IndexEvent(event *entity.Event) error {
	if s.client == nil {
		return nil
	}

	doc := EventDocument{
		ID:          event.ID.String(),
		Title:       event.Title,
		Description: s.sanitizer.Sanitize(event.Description),
		Venue:       event.Venue,
		EventDate:   event.EventDate,
		StartTime:   event.StartTime,
		SocietyID:   event.SocietyID.String(),
		SocietyName: event.Society.Name,
		CreatedAt:   event.CreatedAt.Unix(),
	}
	if event.PosterURL != nil {
		doc.PosterURL = *event.PosterURL
	}

	primaryKey := "id"
	if _, err := s.client.Index(eventsIndex).AddDocuments([]EventDocument{doc}, &primaryKey); err != nil {
		return fmt.Errorf("failed to index event: %w", err)
	}

	return nil
}

func (s *eventSearchService) RemoveEvent(id string) error {
	if s.client == nil {
		return nil
	}

	if _, err := s.client.Index(eventsIndex).DeleteDocument(id); err != nil {
		return fmt.Errorf("failed to remove event from index: %w", err)
	}

	return nil
}

func (s *eventSearchService) Search(query string, limit int64) ([]EventDocument, error) {
	if s.client == nil {
		return []EventDocument{}, nil
	}

	if limit <= 0 || limit > 50 {
		limit = 20
	}

	res, err := s.client.Index(eventsIndex).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
		Sort:  []string{"event_date:asc"},
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	// Hits come back as loosely typed values; a JSON round trip is the
	// stable way to get them into the document struct.
	raw, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, err
	}

	var docs []EventDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}
