package models

import (
	"time"
)

// Question is a single officer-authored question bank entry.
type Question struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Content string `json:"content" gorm:"type:text;not null" validate:"required"`
	Topic   string `json:"topic" gorm:"not null;size:100" validate:"required,max=100"`

	OfficerID uint `json:"officer_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Officer *User `json:"-" gorm:"foreignKey:OfficerID;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string {
	return "question_bank"
}
