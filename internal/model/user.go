package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User represents an authenticated operator of the system
type User struct {
	BaseModel
	Username     string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"username" validate:"required"`
	Password     string         `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName     string         `gorm:"type:varchar(255)" json:"full_name"`
	RoleID       *uint          `gorm:"index" json:"role_id"`
	Role         *Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	TokenVersion string         `gorm:"type:varchar(255);default:''" json:"-"` // Rotated on login/logout
	LastSeenAt   *time.Time     `json:"last_seen_at,omitempty"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"` // Soft delete keeps activity logs resolvable
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// RoleCode returns the code of the user's role, or "" when none is loaded.
func (u *User) RoleCode() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Code
}

// DisplayName is what gets recorded as requester / responsible party.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// GetPrivilegeCodes returns the privilege codes granted by the user's role
func (u *User) GetPrivilegeCodes() []string {
	if u.Role == nil {
		return []string{}
	}
	codes := make([]string, len(u.Role.Privileges))
	for i, p := range u.Role.Privileges {
		codes[i] = p.Code
	}
	return codes
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID         uuid.UUID  `json:"id"`
	Username   string     `json:"username"`
	FullName   string     `json:"full_name"`
	RoleID     *uint      `json:"role_id,omitempty"`
	Role       *Role      `json:"role,omitempty"`
	IsActive   bool       `json:"is_active"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	Privileges []string   `json:"privileges"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		RoleID:     u.RoleID,
		Role:       u.Role,
		IsActive:   u.IsActive,
		LastSeenAt: u.LastSeenAt,
		Privileges: u.GetPrivilegeCodes(),
	}
}
