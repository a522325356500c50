package dto

import (
	"time"

	"wp-dispatch/models"
)

// BlogDTO exposes blog fields to API consumers.
// The application password is never returned; has_api_key reports whether one is stored.
type BlogDTO struct {
	ID        int64  `json:"id" example:"1"`
	Name      string `json:"name" example:"My Blog"`
	APIURL    string `json:"api_url" example:"myblog.org"`
	WPUser    string `json:"wp_user" example:"editor"`
	HasAPIKey bool   `json:"has_api_key" example:"true"`
	Favicon   string `json:"favicon" example:"https://myblog.org/favicon.ico"`
	Topic     string `json:"topic" example:"golang"`
	Keywords  string `json:"keywords" example:"go,backend"`
	OwnerID   int64  `json:"owner_id" example:"1"`
	CreatedAt string `json:"created_at" example:"2025-01-01T12:00:00Z"`
	UpdatedAt string `json:"updated_at" example:"2025-01-01T12:00:00Z"`
}

func NewBlogDTO(b *models.Blog) BlogDTO {
	return BlogDTO{
		ID:        b.ID,
		Name:      b.Name,
		APIURL:    b.APIURL,
		WPUser:    b.WPUser,
		HasAPIKey: b.APIKey != "",
		Favicon:   b.Favicon,
		Topic:     b.Topic,
		Keywords:  b.Keywords,
		OwnerID:   b.OwnerID,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func NewBlogDTOs(blogs []models.Blog) []BlogDTO {
	out := make([]BlogDTO, 0, len(blogs))
	for i := range blogs {
		out = append(out, NewBlogDTO(&blogs[i]))
	}
	return out
}

// CreateBlogRequestDTO 는 POST /blogs 요청 바디이다.
type CreateBlogRequestDTO struct {
	Name     string `json:"name" binding:"required" example:"My Blog"`
	APIURL   string `json:"api_url" example:"myblog.org"`
	WPUser   string `json:"wp_user" example:"editor"`
	APIKey   string `json:"api_key" example:"abcd efgh ijkl mnop"`
	Favicon  string `json:"favicon"`
	Topic    string `json:"topic"`
	Keywords string `json:"keywords"`
	OwnerID  int64  `json:"owner_id" example:"1"`
}

// UpdateBlogRequestDTO 는 PUT /blogs/{id} 요청 바디이다. 생략된 필드는 변경하지 않는다.
type UpdateBlogRequestDTO struct {
	Name     *string `json:"name"`
	APIURL   *string `json:"api_url"`
	WPUser   *string `json:"wp_user"`
	APIKey   *string `json:"api_key"`
	Favicon  *string `json:"favicon"`
	Topic    *string `json:"topic"`
	Keywords *string `json:"keywords"`
}

func (r UpdateBlogRequestDTO) Patch() models.BlogPatch {
	return models.BlogPatch{
		Name:     r.Name,
		APIURL:   r.APIURL,
		WPUser:   r.WPUser,
		APIKey:   r.APIKey,
		Favicon:  r.Favicon,
		Topic:    r.Topic,
		Keywords: r.Keywords,
	}
}
