package identity

import (
	"time"

	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult contains the session issued after a successful login
type LoginResult struct {
	Token     string    `json:"-"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

// RegisterInput contains the self-registration form of a representative
type RegisterInput struct {
	Name     string     `json:"name" binding:"required,min=2,max=200"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=8,max=72"`
	Phone    string     `json:"phone" binding:"omitempty,max=50"`
	RegionID *uuid.UUID `json:"region_id"`
}

// ChangePasswordInput contains the input for a password change
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// CreateUserInput contains the admin form for a new user
type CreateUserInput struct {
	Name     string     `json:"name" binding:"required,min=2,max=200"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=8,max=72"`
	Phone    string     `json:"phone" binding:"omitempty,max=50"`
	Role     string     `json:"role" binding:"required,oneof=admin representative"`
	RegionID *uuid.UUID `json:"region_id"`
	Approved *bool      `json:"approved"`
}

// UpdateUserInput contains the admin form for editing a user. Nil fields are
// left unchanged.
type UpdateUserInput struct {
	Name        *string    `json:"name" binding:"omitempty,min=2,max=200"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	Phone       *string    `json:"phone" binding:"omitempty,max=50"`
	Role        *string    `json:"role" binding:"omitempty,oneof=admin representative"`
	RegionID    *uuid.UUID `json:"region_id"`
	ClearRegion bool       `json:"clear_region"` // removes the region when region_id is empty
	Password    *string    `json:"password" binding:"omitempty,min=8,max=72"`
}

// UserListFilter contains the query parameters of the user list
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=admin representative"`
	Approved *bool  `form:"approved"`
	Active   *bool  `form:"active"`
	RegionID string `form:"region_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserDTO represents user data returned by the API
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Approved    bool       `json:"approved"`
	Active      bool       `json:"active"`
	RegionID    *uuid.UUID `json:"region_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserDTO converts a domain user to its API representation
func ToUserDTO(u *identity.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        string(u.Role),
		Approved:    u.Approved,
		Active:      u.Active,
		RegionID:    u.RegionID,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []identity.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = ToUserDTO(&users[i])
	}
	return dtos
}
