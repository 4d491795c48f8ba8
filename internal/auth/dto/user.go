package dto

import (
	"time"

	"github.com/tangimds/EMS/internal/auth/domain"
)

// UserOutput is the public view of a user; the password hash never leaves
// the service layer.
type UserOutput struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		LastLoginAt: u.LastLoginAt,
	}
}
