package dto

import (
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
)

// RegisterUserRequest is sent by the chat front-end on every contact.
type RegisterUserRequest struct {
	ChatID    string `json:"chatId" binding:"required,max=64"`
	Username  string `json:"username" binding:"max=255"`
	FirstName string `json:"firstName" binding:"max=255"`
	LastName  string `json:"lastName" binding:"max=255"`
}

// UserResponse is the API view of a registered user.
type UserResponse struct {
	ChatID        string    `json:"chatId"`
	Username      string    `json:"username,omitempty"`
	FirstName     string    `json:"firstName,omitempty"`
	LastName      string    `json:"lastName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ChatID:        user.ChatID,
		Username:      user.Username,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		CreatedAt:     user.CreatedAt,
		LastUpdatedAt: user.LastUpdatedAt,
	}
}
