package dto

import "github.com/hunet324/expertlink/internal/models"

type CreateContentRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
	Publish  bool   `json:"publish"`
}

type ContentListResponse struct {
	Items []models.Content `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type InteractionResponse struct {
	Message string `json:"message"`
	Active  bool   `json:"active"`
	Count   int    `json:"count"`
}

type CategoryResponse struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Order    int    `json:"order"`
}
