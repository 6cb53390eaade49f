// Package auth contiene DTOs para endpoints de autenticación.
package auth

import "time"

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse es la sesión emitida por sign-in o sign-up.
type SessionResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	RedirectTo  string    `json:"redirect_to,omitempty"`
}

type ProfileResponse struct {
	ID               string    `json:"id"`
	DisplayName      *string   `json:"display_name"`
	Role             string    `json:"role"`
	Phone            *string   `json:"phone"`
	EmergencyContact *string   `json:"emergency_contact"`
	CreatedBy        *string   `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// MeResponse es la cuenta del llamador; Profile es null si no tiene.
type MeResponse struct {
	UserID        string           `json:"user_id"`
	Email         string           `json:"email"`
	EmailVerified bool             `json:"email_verified"`
	CreatedAt     time.Time        `json:"created_at"`
	Profile       *ProfileResponse `json:"profile"`
}
