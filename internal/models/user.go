package models

import (
	"time"
)

type Identity string

const (
	IdentityStudent Identity = "student"
	IdentityOfficer Identity = "officer"
)

// Valid reports whether the identity is one of the known roles.
func (i Identity) Valid() bool {
	return i == IdentityStudent || i == IdentityOfficer
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null;size:80"`
	PasswordHash string    `json:"-" gorm:"not null;size:120"`
	Identity     *Identity `json:"identity" gorm:"type:varchar(20)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	StudentProfile *StudentProfile `json:"student_profile,omitempty" gorm:"foreignKey:UserID"`
	OfficerProfile *OfficerProfile `json:"officer_profile,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// Is reports whether the user has the given identity.
func (u *User) Is(identity Identity) bool {
	return u.Identity != nil && *u.Identity == identity
}

type StudentProfile struct {
	ID     uint     `json:"id" gorm:"primaryKey"`
	UserID uint     `json:"user_id" gorm:"not null;uniqueIndex"`
	Score  *float64 `json:"score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

type OfficerProfile struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	UserID uint    `json:"user_id" gorm:"not null;uniqueIndex"`
	Major  *string `json:"major" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (OfficerProfile) TableName() string {
	return "officer_profiles"
}
