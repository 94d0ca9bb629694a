package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/campuseventhub/internal/auth"
	"anoa.com/campuseventhub/internal/entity"
	"anoa.com/campuseventhub/internal/modules/user/dto"
	"anoa.com/campuseventhub/internal/modules/user/repository"
	"anoa.com/campuseventhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Signup(ctx context.Context, input dto.SignupInput) (*entity.Profile, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Logout(ctx context.Context, session auth.Session) error
	CurrentProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	Societies(ctx context.Context) ([]entity.Society, error)
	Society(ctx context.Context, id uuid.UUID) (*entity.Society, error)
}

type authService struct {
	repo       repository.ProfileRepository
	tokens     *auth.TokenManager
	revoker    auth.Revoker
	rdb        *redis.Client
	loginLimit time.Duration
	logger     *zap.Logger
}

func NewAuthService(repo repository.ProfileRepository, tokens *auth.TokenManager, revoker auth.Revoker, rdb *redis.Client, loginLimit time.Duration, logger *zap.Logger) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &authService{
		repo:       repo,
		tokens:     tokens,
		revoker:    revoker,
		rdb:        rdb,
		loginLimit: loginLimit,
		logger:     logger,
	}
}

// Signup creates a profile. Students are approved immediately; societies
// get a society row first and a pending profile second. The two inserts are
// not atomic: if the profile insert fails the society row is removed by a
// compensating delete, and if that delete also fails the orphaned society
// row is tolerated (it owns nothing yet).
func (s *authService) Signup(ctx context.Context, input dto.SignupInput) (*entity.Profile, error) {
	if input.Password != input.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", apperror.ErrInvalidInput)
	}

	role := entity.Role(input.Role)
	if role != entity.RoleStudent && role != entity.RoleSociety {
		return nil, fmt.Errorf("%w: role must be student or society", apperror.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &entity.Profile{
		FullName:     input.FullName,
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: string(hashed),
		Role:         role,
		Status:       entity.StatusApproved,
	}

	if role == entity.RoleSociety {
		// The society row takes the signup full name as its initial name.
		society := &entity.Society{Name: input.FullName}
		if err := s.repo.CreateSociety(ctx, society); err != nil {
			return nil, fmt.Errorf("failed to create society entry: %w", err)
		}

		profile.Status = entity.StatusPending
		profile.SocietyID = &society.ID

		if err := s.repo.Create(ctx, profile); err != nil {
			if cerr := s.repo.DeleteSociety(ctx, society.ID); cerr != nil {
				s.logger.Warn("compensating society delete failed, orphan row left behind",
					zap.String("society_id", society.ID.String()),
					zap.Error(cerr))
			}
			return nil, translateCreateError(err)
		}

		return profile, nil
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, translateCreateError(err)
	}

	return profile, nil
}

func translateCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: username or email already taken", apperror.ErrConflict)
	}
	return err
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	allowed, err := checkAndSetRateLimit(ctx, s.rdb, "login", strings.ToLower(input.Identifier), s.loginLimit)
	if err != nil {
		s.logger.Warn("login rate limit check failed", zap.Error(err))
	} else if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	email := strings.ToLower(input.Identifier)
	if !strings.Contains(email, "@") {
		byUsername, err := s.repo.FindByUsername(ctx, input.Identifier)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.ErrUsernameNotFound
			}
			return nil, fmt.Errorf("%w: %v", apperror.ErrUnavailable, err)
		}
		email = byUsername.Email
	}

	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", apperror.ErrUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	// A pending society never receives a token; approval is picked up at
	// the next login by design.
	if profile.Role == entity.RoleSociety && profile.Status == entity.StatusPending {
		return nil, apperror.ErrPendingApproval
	}

	token, expiresAt, err := s.tokens.Generate(profile.ID)
	if err != nil {
		return nil, err
	}

	profile.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt.Unix(),
		Profile:     profile,
	}, nil
}

func (s *authService) Logout(ctx context.Context, session auth.Session) error {
	return s.revoker.Revoke(ctx, &session)
}

func (s *authService) CurrentProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	profile.PasswordHash = ""
	return profile, nil
}

// Societies is the public directory listing, ordered by name.
func (s *authService) Societies(ctx context.Context) ([]entity.Society, error) {
	societies, err := s.repo.ListSocieties(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrUnavailable, err)
	}

	return societies, nil
}

func (s *authService) Society(ctx context.Context, id uuid.UUID) (*entity.Society, error) {
	society, err := s.repo.FindSocietyByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return society, nil
}
