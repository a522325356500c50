package dto

import (
	"time"

	"wp-dispatch/models"
)

type UserDTO struct {
	ID           int64  `json:"id" example:"1"`
	ExternalID   string `json:"external_id,omitempty" example:"user_2abc"`
	Name         string `json:"name" example:"Ada"`
	LastName     string `json:"last_name" example:"Lovelace"`
	Email        string `json:"email" example:"ada@example.com"`
	WritingStyle string `json:"writing_style" example:"concise"`
	CreatedAt    string `json:"created_at" example:"2025-01-01T12:00:00Z"`
	UpdatedAt    string `json:"updated_at" example:"2025-01-01T12:00:00Z"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		ExternalID:   u.ExternalID,
		Name:         u.Name,
		LastName:     u.LastName,
		Email:        u.Email,
		WritingStyle: u.WritingStyle,
		CreatedAt:    u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func NewUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, NewUserDTO(&users[i]))
	}
	return out
}

type CreateUserRequestDTO struct {
	Name         string `json:"name" binding:"required" example:"Ada"`
	LastName     string `json:"last_name" example:"Lovelace"`
	Email        string `json:"email" binding:"required,email" example:"ada@example.com"`
	WritingStyle string `json:"writing_style"`
}

type UpdateUserRequestDTO struct {
	Name         *string `json:"name"`
	LastName     *string `json:"last_name"`
	Email        *string `json:"email" binding:"omitempty,email"`
	WritingStyle *string `json:"writing_style"`
}

func (r UpdateUserRequestDTO) Patch() models.UserPatch {
	return models.UserPatch{
		Name:         r.Name,
		LastName:     r.LastName,
		Email:        r.Email,
		WritingStyle: r.WritingStyle,
	}
}
