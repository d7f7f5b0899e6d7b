package domain

import "time"

const (
	RoleUser         = "user"
	RoleAdmin        = "admin"
	RoleProfessional = "professional"
)

const (
	StatusInactive    = "inactive"
	StatusActive      = "active"
	StatusDeactivated = "deactivated"
	StatusSuspended   = "suspended"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `gorm:"not null" json:"first_name"`
	LastName     string    `gorm:"not null" json:"last_name"`
	Role         string    `gorm:"type:varchar(20);not null;default:user" json:"role"`
	Status       string    `gorm:"type:varchar(15);not null;default:inactive" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleProfessional:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusInactive, StatusActive, StatusDeactivated, StatusSuspended:
		return true
	}
	return false
}
