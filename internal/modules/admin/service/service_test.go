package service

import (
	"context"
	"testing"

	"anoa.com/campuseventhub/internal/entity"
	eventRepository "anoa.com/campuseventhub/internal/modules/event/repository"
	searchService "anoa.com/campuseventhub/internal/modules/search/service"
	userRepository "anoa.com/campuseventhub/internal/modules/user/repository"
	"anoa.com/campuseventhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProfiles struct {
	userRepository.ProfileRepository

	profiles     map[uuid.UUID]*entity.Profile
	bySocietyID  map[uuid.UUID]*entity.Profile
	approvedRows int64
	deletedRows  int64
	approveCalls int
	deleteCalls  int
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		profiles:    map[uuid.UUID]*entity.Profile{},
		bySocietyID: map[uuid.UUID]*entity.Profile{},
	}
}

func (f *fakeProfiles) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfiles) FindBySocietyID(ctx context.Context, societyID uuid.UUID) (*entity.Profile, error) {
	if p, ok := f.bySocietyID[societyID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfiles) FindPendingSocieties(ctx context.Context) ([]entity.Profile, error) {
	var out []entity.Profile
	for _, p := range f.profiles {
		if p.Role == entity.RoleSociety && p.Status == entity.StatusPending {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProfiles) ApproveFromPending(ctx context.Context, id uuid.UUID) (int64, error) {
	f.approveCalls++
	if f.approvedRows > 0 {
		if p, ok := f.profiles[id]; ok {
			p.Status = entity.StatusApproved
		}
	}
	return f.approvedRows, nil
}

func (f *fakeProfiles) DeletePendingSociety(ctx context.Context, id uuid.UUID) (int64, error) {
	f.deleteCalls++
	if f.deletedRows > 0 {
		delete(f.profiles, id)
	}
	return f.deletedRows, nil
}

type fakeEvents struct {
	eventRepository.EventRepository

	events         map[uuid.UUID]*entity.Event
	transitionRows int64
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{events: map[uuid.UUID]*entity.Event{}}
}

func (f *fakeEvents) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEvents) FindPending(ctx context.Context) ([]entity.Event, error) {
	var out []entity.Event
	for _, e := range f.events {
		if e.Status == entity.EventPending {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvents) UpdateStatusFromPending(ctx context.Context, id uuid.UUID, status entity.EventStatus) (int64, error) {
	if f.transitionRows > 0 {
		if e, ok := f.events[id]; ok {
			e.Status = status
		}
	}
	return f.transitionRows, nil
}

type recordedNotification struct {
	userID  uuid.UUID
	kind    entity.NotificationType
	message string
}

type fakeNotifier struct {
	sent []recordedNotification
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, notifType entity.NotificationType, message string, refID *uuid.UUID) error {
	f.sent = append(f.sent, recordedNotification{userID: userID, kind: notifType, message: message})
	return nil
}

func (f *fakeNotifier) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error { return nil }

func (f *fakeNotifier) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error { return nil }

func (f *fakeNotifier) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeSearch struct {
	indexed []string
	removed []string
}

func (f *fakeSearch) IndexEvent(event *entity.Event) error {
	f.indexed = append(f.indexed, event.ID.String())
	return nil
}

func (f *fakeSearch) RemoveEvent(id string) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeSearch) Search(query string, limit int64) ([]searchService.EventDocument, error) {
	return nil, nil
}

func pendingSociety(profiles *fakeProfiles) *entity.Profile {
	societyID := uuid.New()
	p := &entity.Profile{
		ID:        uuid.New(),
		Role:      entity.RoleSociety,
		Status:    entity.StatusPending,
		SocietyID: &societyID,
	}
	profiles.profiles[p.ID] = p
	profiles.bySocietyID[societyID] = p
	return p
}

func TestApproveSociety(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.approvedRows = 1
	p := pendingSociety(profiles)
	notifier := &fakeNotifier{}
	svc := NewAdminService(profiles, newFakeEvents(), notifier, &fakeSearch{}, nil)

	err := svc.ApproveSociety(context.Background(), p.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, profiles.profiles[p.ID].Status)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, p.ID, notifier.sent[0].userID)
	assert.Equal(t, entity.NotifSocietyApproved, notifier.sent[0].kind)
}

func TestApproveSocietyIdempotent(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.approvedRows = 0
	p := pendingSociety(profiles)
	p.Status = entity.StatusApproved
	notifier := &fakeNotifier{}
	svc := NewAdminService(profiles, newFakeEvents(), notifier, &fakeSearch{}, nil)

	// A second approval changes nothing and reports success.
	err := svc.ApproveSociety(context.Background(), p.ID)

	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestApproveSocietyMissing(t *testing.T) {
	profiles := newFakeProfiles()
	svc := NewAdminService(profiles, newFakeEvents(), &fakeNotifier{}, &fakeSearch{}, nil)

	err := svc.ApproveSociety(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRejectSociety(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.deletedRows = 1
	p := pendingSociety(profiles)
	svc := NewAdminService(profiles, newFakeEvents(), &fakeNotifier{}, &fakeSearch{}, nil)

	err := svc.RejectSociety(context.Background(), p.ID)

	require.NoError(t, err)
	_, exists := profiles.profiles[p.ID]
	assert.False(t, exists)
}

func TestRejectApprovedSocietyConflicts(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.deletedRows = 0
	p := pendingSociety(profiles)
	p.Status = entity.StatusApproved
	svc := NewAdminService(profiles, newFakeEvents(), &fakeNotifier{}, &fakeSearch{}, nil)

	err := svc.RejectSociety(context.Background(), p.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func pendingEvent(events *fakeEvents, societyID uuid.UUID) *entity.Event {
	e := &entity.Event{
		ID:        uuid.New(),
		Title:     "Tech Fair",
		SocietyID: societyID,
		Status:    entity.EventPending,
	}
	events.events[e.ID] = e
	return e
}

func TestApproveEventIndexesAndNotifies(t *testing.T) {
	profiles := newFakeProfiles()
	owner := pendingSociety(profiles)
	owner.Status = entity.StatusApproved

	events := newFakeEvents()
	events.transitionRows = 1
	event := pendingEvent(events, *owner.SocietyID)

	notifier := &fakeNotifier{}
	search := &fakeSearch{}
	svc := NewAdminService(profiles, events, notifier, search, nil)

	approved, err := svc.ApproveEvent(context.Background(), event.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.EventApproved, approved.Status)
	assert.Equal(t, []string{event.ID.String()}, search.indexed)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, owner.ID, notifier.sent[0].userID)
	assert.Equal(t, entity.NotifEventApproved, notifier.sent[0].kind)
}

func TestApproveEventIdempotent(t *testing.T) {
	profiles := newFakeProfiles()
	owner := pendingSociety(profiles)

	events := newFakeEvents()
	events.transitionRows = 0
	event := pendingEvent(events, *owner.SocietyID)
	event.Status = entity.EventApproved

	search := &fakeSearch{}
	svc := NewAdminService(profiles, events, &fakeNotifier{}, search, nil)

	approved, err := svc.ApproveEvent(context.Background(), event.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.EventApproved, approved.Status)
	// Already indexed the first time around.
	assert.Empty(t, search.indexed)
}

func TestApproveRejectedEventConflicts(t *testing.T) {
	profiles := newFakeProfiles()
	owner := pendingSociety(profiles)

	events := newFakeEvents()
	events.transitionRows = 0
	event := pendingEvent(events, *owner.SocietyID)
	event.Status = entity.EventRejected

	svc := NewAdminService(profiles, events, &fakeNotifier{}, &fakeSearch{}, nil)

	_, err := svc.ApproveEvent(context.Background(), event.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestRejectEventNeverIndexes(t *testing.T) {
	profiles := newFakeProfiles()
	owner := pendingSociety(profiles)
	owner.Status = entity.StatusApproved

	events := newFakeEvents()
	events.transitionRows = 1
	event := pendingEvent(events, *owner.SocietyID)

	notifier := &fakeNotifier{}
	search := &fakeSearch{}
	svc := NewAdminService(profiles, events, notifier, search, nil)

	rejected, err := svc.RejectEvent(context.Background(), event.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.EventRejected, rejected.Status)
	assert.Empty(t, search.indexed)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, entity.NotifEventRejected, notifier.sent[0].kind)
}
