package service

import (
	"context"
	"testing"

	"anoa.com/campuseventhub/internal/entity"
	eventRepository "anoa.com/campuseventhub/internal/modules/event/repository"
	"anoa.com/campuseventhub/internal/modules/registration/dto"
	"anoa.com/campuseventhub/internal/modules/registration/repository"
	"anoa.com/campuseventhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeEventRepo struct {
	eventRepository.EventRepository
	events map[uuid.UUID]*entity.Event
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type regKey struct {
	event, student uuid.UUID
}

type fakeRegRepo struct {
	repository.RegistrationRepository

	regs      map[regKey]*entity.Registration
	createErr error
}

func newFakeRegRepo() *fakeRegRepo {
	return &fakeRegRepo{regs: map[regKey]*entity.Registration{}}
}

func (f *fakeRegRepo) Create(ctx context.Context, reg *entity.Registration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.regs[regKey{reg.EventID, reg.StudentID}] = reg
	return nil
}

func (f *fakeRegRepo) FindByEventAndStudent(ctx context.Context, eventID, studentID uuid.UUID) (*entity.Registration, error) {
	if r, ok := f.regs[regKey{eventID, studentID}]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRegRepo) DeleteByEventAndStudent(ctx context.Context, eventID, studentID uuid.UUID) (int64, error) {
	key := regKey{eventID, studentID}
	if _, ok := f.regs[key]; !ok {
		return 0, nil
	}
	delete(f.regs, key)
	return 1, nil
}

func (f *fakeRegRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Registration, error) {
	var out []entity.Registration
	for key, r := range f.regs {
		if key.event == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func student() *entity.Profile {
	return &entity.Profile{
		ID:     uuid.New(),
		Role:   entity.RoleStudent,
		Status: entity.StatusApproved,
	}
}

func eventWithStatus(status entity.EventStatus) (*fakeEventRepo, *entity.Event) {
	event := &entity.Event{
		ID:        uuid.New(),
		Title:     "Hackathon",
		SocietyID: uuid.New(),
		Status:    status,
	}
	return &fakeEventRepo{events: map[uuid.UUID]*entity.Event{event.ID: event}}, event
}

func registerInput() dto.RegisterInput {
	return dto.RegisterInput{
		FullName:    "A Student",
		RollNumber:  "CS-1234",
		PhoneNumber: "5550001",
		Department:  "Computer Science",
	}
}

func TestRegisterForApprovedEvent(t *testing.T) {
	events, event := eventWithStatus(entity.EventApproved)
	regs := newFakeRegRepo()
	svc := NewRegistrationService(regs, events, nil)

	reg, err := svc.Register(context.Background(), student(), event.ID, registerInput())

	require.NoError(t, err)
	assert.Equal(t, event.ID, reg.EventID)
	assert.Equal(t, "CS-1234", reg.RollNumber)
}

func TestRegisterForPendingEventRefused(t *testing.T) {
	events, event := eventWithStatus(entity.EventPending)
	svc := NewRegistrationService(newFakeRegRepo(), events, nil)

	_, err := svc.Register(context.Background(), student(), event.ID, registerInput())
	assert.ErrorIs(t, err, apperror.ErrEventNotOpen)
}

func TestRegisterForMissingEvent(t *testing.T) {
	events := &fakeEventRepo{events: map[uuid.UUID]*entity.Event{}}
	svc := NewRegistrationService(newFakeRegRepo(), events, nil)

	_, err := svc.Register(context.Background(), student(), uuid.New(), registerInput())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRegisterTwiceConflicts(t *testing.T) {
	events, event := eventWithStatus(entity.EventApproved)
	regs := newFakeRegRepo()
	svc := NewRegistrationService(regs, events, nil)
	s := student()

	_, err := svc.Register(context.Background(), s, event.ID, registerInput())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), s, event.ID, registerInput())
	assert.ErrorIs(t, err, apperror.ErrAlreadyRegistered)
}

func TestRegisterDuplicateKeyRace(t *testing.T) {
	events, event := eventWithStatus(entity.EventApproved)
	regs := newFakeRegRepo()
	// Simulate a concurrent insert slipping past the pre-check.
	regs.createErr = gorm.ErrDuplicatedKey
	svc := NewRegistrationService(regs, events, nil)

	_, err := svc.Register(context.Background(), student(), event.ID, registerInput())
	assert.ErrorIs(t, err, apperror.ErrAlreadyRegistered)
}

func TestCancelRegistration(t *testing.T) {
	events, event := eventWithStatus(entity.EventApproved)
	regs := newFakeRegRepo()
	svc := NewRegistrationService(regs, events, nil)
	s := student()

	_, err := svc.Register(context.Background(), s, event.ID, registerInput())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), s, event.ID))

	// A second cancel has nothing to remove.
	err = svc.Cancel(context.Background(), s, event.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAttendeesOwnerOnly(t *testing.T) {
	events, event := eventWithStatus(entity.EventApproved)
	regs := newFakeRegRepo()
	svc := NewRegistrationService(regs, events, nil)

	s := student()
	_, err := svc.Register(context.Background(), s, event.ID, registerInput())
	require.NoError(t, err)

	ownerSocietyID := event.SocietyID
	owner := &entity.Profile{
		ID:        uuid.New(),
		Role:      entity.RoleSociety,
		Status:    entity.StatusApproved,
		SocietyID: &ownerSocietyID,
	}

	list, err := svc.Attendees(context.Background(), owner, event.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	otherSocietyID := uuid.New()
	stranger := &entity.Profile{
		ID:        uuid.New(),
		Role:      entity.RoleSociety,
		Status:    entity.StatusApproved,
		SocietyID: &otherSocietyID,
	}

	_, err = svc.Attendees(context.Background(), stranger, event.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestAttendeesAdminAccess(t *testing.T) {
	events, event := eventWithStatus(entity.EventApproved)
	regs := newFakeRegRepo()
	svc := NewRegistrationService(regs, events, nil)

	_, err := svc.Register(context.Background(), student(), event.ID, registerInput())
	require.NoError(t, err)

	admin := &entity.Profile{
		ID:     uuid.New(),
		Role:   entity.RoleAdmin,
		Status: entity.StatusApproved,
	}

	list, err := svc.Attendees(context.Background(), admin, event.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
