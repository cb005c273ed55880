package dto

import "time"

type SetSessionRequest struct {
	IDToken string `json:"idToken"`
}

type SessionDTO struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *UserDTO  `json:"user,omitempty"`
}
