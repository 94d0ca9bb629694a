package repository

import (
	"context"

	"anoa.com/campuseventhub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	FindByEmail(ctx context.Context, email string) (*entity.Profile, error)
	FindByUsername(ctx context.Context, username string) (*entity.Profile, error)
	FindBySocietyID(ctx context.Context, societyID uuid.UUID) (*entity.Profile, error)
	FindPendingSocieties(ctx context.Context) ([]entity.Profile, error)
	// ApproveFromPending flips a pending society profile to approved and
	// reports how many rows changed. Zero rows means the profile is gone
	// or already transitioned.
	ApproveFromPending(ctx context.Context, id uuid.UUID) (int64, error)
	// DeletePendingSociety hard-deletes a society profile, but only while
	// it is still pending.
	DeletePendingSociety(ctx context.Context, id uuid.UUID) (int64, error)
	CreateSociety(ctx context.Context, society *entity.Society) error
	DeleteSociety(ctx context.Context, id uuid.UUID) error
	FindSocietyByID(ctx context.Context, id uuid.UUID) (*entity.Society, error)
	ListSocieties(ctx context.Context) ([]entity.Society, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).
		Preload("Society").
		Where("id = ?", id).
		First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).
		Preload("Society").
		Where("email = ?", email).
		First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) FindByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).
		Preload("Society").
		Where("username = ?", username).
		First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) FindBySocietyID(ctx context.Context, societyID uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).
		Where("society_id = ?", societyID).
		First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) FindPendingSocieties(ctx context.Context) ([]entity.Profile, error) {
	var profiles []entity.Profile
	if err := r.db.WithContext(ctx).
		Preload("Society").
		Where("role = ? AND status = ?", entity.RoleSociety, entity.StatusPending).
		Order("created_at asc").
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) ApproveFromPending(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("id = ? AND role = ? AND status = ?", id, entity.RoleSociety, entity.StatusPending).
		Update("status", entity.StatusApproved)
	return res.RowsAffected, res.Error
}

func (r *profileRepository) DeletePendingSociety(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND role = ? AND status = ?", id, entity.RoleSociety, entity.StatusPending).
		Delete(&entity.Profile{})
	return res.RowsAffected, res.Error
}

func (r *profileRepository) CreateSociety(ctx context.Context, society *entity.Society) error {
	return r.db.WithContext(ctx).Create(society).Error
}

func (r *profileRepository) DeleteSociety(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Society{}, "id = ?", id).Error
}

func (r *profileRepository) FindSocietyByID(ctx context.Context, id uuid.UUID) (*entity.Society, error) {
	var society entity.Society
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&society).Error; err != nil {
		return nil, err
	}

	return &society, nil
}

func (r *profileRepository) ListSocieties(ctx context.Context) ([]entity.Society, error) {
	var societies []entity.Society
	if err := r.db.WithContext(ctx).Order("name asc").Find(&societies).Error; err != nil {
		return nil, err
	}

	return societies, nil
}
