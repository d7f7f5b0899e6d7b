package dto

import "github.com/faceofmind/server/internal/domain"

type UserListFilter struct {
	Status   string
	Role     string
	Query    string
	Page     int
	PageSize int
}

type UserListItem struct {
	domain.User
	IsOnline bool `json:"is_online"`
}

type UserListResponse struct {
	Results          []UserListItem `json:"results"`
	Total            int64          `json:"total"`
	Page             int            `json:"page"`
	PageSize         int            `json:"page_size"`
	ActiveUsersCount int            `json:"active_users_count"`
}

type UpdateStatusRequest struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}
