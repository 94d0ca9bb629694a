package bootstrap

import (
	"anoa.com/campuseventhub/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Society{},
		&entity.Profile{},
		&entity.Event{},
		&entity.Registration{},
		&entity.Notification{},
	)
}

// SeedAdminUser creates the development admin account if it does not
// exist yet. Production deployments provision admins out of band.
func SeedAdminUser(db *gorm.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var count int64
	if err := db.Model(&entity.Profile{}).
		Where("email = ?", "admin@campus.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := entity.Profile{
		FullName:     "Administrator",
		Username:     "admin",
		Email:        "admin@campus.local",
		PasswordHash: string(hashed),
		Role:         entity.RoleAdmin,
		Status:       entity.StatusApproved,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("admin user seeded",
		zap.String("email", "admin@campus.local"),
		zap.String("password", password))

	return nil
}
