package model

import "time"

type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

type UserRole string

const (
	UserRoleUnassigned UserRole = "unassigned"
	UserRoleUser       UserRole = "user"
	UserRoleAdmin      UserRole = "admin"
)

// User is a staff profile keyed by the identity provider uid. There is no
// UpdatedAt column: approval must leave every field but status and role alone.
type User struct {
	UID       string     `gorm:"type:varchar(128);primaryKey" json:"uid"`
	Email     string     `gorm:"type:varchar(255)" json:"email"`
	Name      string     `gorm:"type:varchar(255)" json:"name"`
	Status    UserStatus `gorm:"type:varchar(50)" json:"status"`
	Role      UserRole   `gorm:"type:varchar(50)" json:"role"`
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`
}

func (u *User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
