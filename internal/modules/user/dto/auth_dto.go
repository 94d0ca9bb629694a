package dto

import "anoa.com/campuseventhub/internal/entity"

type SignupInput struct {
	FullName        string `json:"fullname" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required,min=3,max=50"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Role            string `json:"role" binding:"required,oneof=student society"`
}

type LoginInput struct {
	// Identifier is an email or a username; usernames are resolved to the
	// email on record before authenticating.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	Profile     *entity.Profile `json:"profile"`
}
