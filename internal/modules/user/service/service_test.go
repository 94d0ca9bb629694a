package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/campuseventhub/internal/auth"
	"anoa.com/campuseventhub/internal/entity"
	"anoa.com/campuseventhub/internal/modules/user/dto"
	"anoa.com/campuseventhub/internal/modules/user/repository"
	"anoa.com/campuseventhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeProfileRepo struct {
	repository.ProfileRepository

	createErr        error
	created          []*entity.Profile
	societiesCreated []*entity.Society
	societiesDeleted []uuid.UUID

	byEmail    map[string]*entity.Profile
	byUsername map[string]*entity.Profile
	societies  []entity.Society
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		byEmail:    map[string]*entity.Profile{},
		byUsername: map[string]*entity.Profile{},
	}
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *entity.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, profile)
	return nil
}

func (f *fakeProfileRepo) CreateSociety(ctx context.Context, society *entity.Society) error {
	society.ID = uuid.New()
	f.societiesCreated = append(f.societiesCreated, society)
	return nil
}

func (f *fakeProfileRepo) DeleteSociety(ctx context.Context, id uuid.UUID) error {
	f.societiesDeleted = append(f.societiesDeleted, id)
	return nil
}

func (f *fakeProfileRepo) FindByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	if p, ok := f.byEmail[email]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepo) FindByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	if p, ok := f.byUsername[username]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepo) ListSocieties(ctx context.Context) ([]entity.Society, error) {
	return f.societies, nil
}

func (f *fakeProfileRepo) FindSocietyByID(ctx context.Context, id uuid.UUID) (*entity.Society, error) {
	for i := range f.societies {
		if f.societies[i].ID == id {
			return &f.societies[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type noopRevoker struct {
	revoked []string
}

func (r *noopRevoker) Revoke(ctx context.Context, session *auth.Session) error {
	r.revoked = append(r.revoked, session.Token)
	return nil
}

func (r *noopRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	return false, nil
}

func newTestService(repo repository.ProfileRepository) AuthService {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(repo, tokens, &noopRevoker{}, nil, 0, nil)
}

func signupInput(role string) dto.SignupInput {
	return dto.SignupInput{
		FullName:        "Robotics Club",
		Email:           "robotics@campus.local",
		Username:        "robotics",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            role,
	}
}

func TestSignupPasswordMismatch(t *testing.T) {
	svc := newTestService(newFakeProfileRepo())

	input := signupInput("student")
	input.ConfirmPassword = "different"

	_, err := svc.Signup(context.Background(), input)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestSignupStudentApprovedImmediately(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestService(repo)

	profile, err := svc.Signup(context.Background(), signupInput("student"))

	require.NoError(t, err)
	assert.Equal(t, entity.RoleStudent, profile.Role)
	assert.Equal(t, entity.StatusApproved, profile.Status)
	assert.Nil(t, profile.SocietyID)
	assert.Empty(t, repo.societiesCreated)
}

func TestSignupSocietyStartsPending(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestService(repo)

	profile, err := svc.Signup(context.Background(), signupInput("society"))

	require.NoError(t, err)
	assert.Equal(t, entity.RoleSociety, profile.Role)
	assert.Equal(t, entity.StatusPending, profile.Status)
	require.NotNil(t, profile.SocietyID)
	require.Len(t, repo.societiesCreated, 1)
	assert.Equal(t, repo.societiesCreated[0].ID, *profile.SocietyID)
}

func TestSignupSocietyCompensatesOnProfileFailure(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.createErr = errors.New("insert failed")
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), signupInput("society"))

	require.Error(t, err)
	// The society row created in step one must be rolled back.
	require.Len(t, repo.societiesCreated, 1)
	require.Len(t, repo.societiesDeleted, 1)
	assert.Equal(t, repo.societiesCreated[0].ID, repo.societiesDeleted[0])
}

func TestSignupDuplicateIsConflict(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.createErr = gorm.ErrDuplicatedKey
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), signupInput("student"))
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func storedProfile(t *testing.T, role entity.Role, status entity.ApprovalStatus) *entity.Profile {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	return &entity.Profile{
		ID:           uuid.New(),
		FullName:     "Someone",
		Username:     "someone",
		Email:        "someone@campus.local",
		PasswordHash: string(hashed),
		Role:         role,
		Status:       status,
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeProfileRepo()
	profile := storedProfile(t, entity.RoleStudent, entity.StatusApproved)
	repo.byEmail[profile.Email] = profile
	svc := newTestService(repo)

	res, err := svc.Login(context.Background(), dto.LoginInput{
		Identifier: profile.Email,
		Password:   "secret123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Empty(t, res.Profile.PasswordHash)
}

func TestLoginResolvesUsername(t *testing.T) {
	repo := newFakeProfileRepo()
	profile := storedProfile(t, entity.RoleStudent, entity.StatusApproved)
	repo.byEmail[profile.Email] = profile
	repo.byUsername[profile.Username] = profile
	svc := newTestService(repo)

	res, err := svc.Login(context.Background(), dto.LoginInput{
		Identifier: profile.Username,
		Password:   "secret123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestLoginUnknownUsername(t *testing.T) {
	svc := newTestService(newFakeProfileRepo())

	_, err := svc.Login(context.Background(), dto.LoginInput{
		Identifier: "nobody",
		Password:   "secret123",
	})

	assert.ErrorIs(t, err, apperror.ErrUsernameNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeProfileRepo()
	profile := storedProfile(t, entity.RoleStudent, entity.StatusApproved)
	repo.byEmail[profile.Email] = profile
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), dto.LoginInput{
		Identifier: profile.Email,
		Password:   "wrong",
	})

	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestSocietyDirectory(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.societies = []entity.Society{
		{ID: uuid.New(), Name: "Chess Club"},
		{ID: uuid.New(), Name: "Robotics Club"},
	}
	svc := newTestService(repo)

	societies, err := svc.Societies(context.Background())

	require.NoError(t, err)
	assert.Len(t, societies, 2)

	society, err := svc.Society(context.Background(), repo.societies[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Chess Club", society.Name)
}

func TestSocietyLookupMissing(t *testing.T) {
	svc := newTestService(newFakeProfileRepo())

	_, err := svc.Society(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLoginPendingSocietyBlocked(t *testing.T) {
	repo := newFakeProfileRepo()
	profile := storedProfile(t, entity.RoleSociety, entity.StatusPending)
	repo.byEmail[profile.Email] = profile
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), dto.LoginInput{
		Identifier: profile.Email,
		Password:   "secret123",
	})

	// Correct credentials are not enough before admin approval.
	assert.ErrorIs(t, err, apperror.ErrPendingApproval)
}
