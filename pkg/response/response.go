package response

import (
	"net/http"

	"anoa.com/campuseventhub/internal/entity"
	"anoa.com/campuseventhub/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// GetProfile retrieves the profile loaded by the authorization middleware.
// Not set on the admin bypass path.
func GetProfile(c *gin.Context) (*entity.Profile, error) {
	val, exists := c.Get("profile")
	if !exists {
		return nil, apperror.ErrUnauthorized
	}

	profile, ok := val.(*entity.Profile)
	if !ok || profile == nil {
		return nil, apperror.ErrUnauthorized
	}

	return profile, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		zap.L().Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
