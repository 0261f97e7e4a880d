package model

import (
	"time"

	"gorm.io/gorm"
)

// Activity actions recorded for users.
const (
	ActivityRegister             = "REGISTER"
	ActivityLogin                = "LOGIN"
	ActivityLogout               = "LOGOUT"
	ActivityProfileUpdate        = "PROFILE_UPDATE"
	ActivityPasswordChange       = "PASSWORD_CHANGE"
	ActivityPasswordResetRequest = "PASSWORD_RESET_REQUEST"
	ActivityPasswordResetSuccess = "PASSWORD_RESET_SUCCESS"
)

// User is a site account.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	Username     string     `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email        string     `json:"email" gorm:"size:254;uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"size:100;not null"`
	FirstName    string     `json:"first_name" gorm:"size:150"`
	LastName     string     `json:"last_name" gorm:"size:150"`
	Phone        string     `json:"phone" gorm:"size:20"`
	Company      string     `json:"company" gorm:"size:200"`
	Country      string     `json:"country" gorm:"size:100"`
	Currency     string     `json:"currency" gorm:"size:3"`
	IsClient     bool       `json:"is_client"`
	IsAdmin      bool       `json:"is_admin_user"`
	DateJoined   time.Time  `json:"date_joined" gorm:"autoCreateTime"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	UpdatedAt    time.Time  `json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}

// UserActivity is an audit trail entry. Details holds a JSON object.
type UserActivity struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:36;index;not null"`
	Action    string    `json:"action" gorm:"size:100;not null"`
	Details   string    `json:"details,omitempty" gorm:"type:text"`
	IPAddress string    `json:"ip_address,omitempty" gorm:"size:45"`
	UserAgent string    `json:"user_agent,omitempty" gorm:"type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}
