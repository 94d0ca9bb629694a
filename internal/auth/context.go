package auth

import (
	"time"

	"github.com/google/uuid"
)

// Context is the closed set of ways a request can claim an identity.
// A nil Context means anonymous.
type Context interface {
	authContext()
}

// Session is a verified JWT session bound to a profile.
type Session struct {
	ProfileID uuid.UUID
	Token     string
	ExpiresAt time.Time
}

func (Session) authContext() {}

// LocalOverride is the bootstrap admin bypass. It carries no identity and
// is produced only by the bypass middleware path; see middleware.bypassContext.
type LocalOverride struct{}

func (LocalOverride) authContext() {}
