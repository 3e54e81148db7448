package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published by the accounts service
const (
	EventUserRegistered  = "user.registered"
	EventUserDeleted     = "user.deleted"
	EventQuestionCreated = "question.created"
	EventQuestionUpdated = "question.updated"
	EventQuestionDeleted = "question.deleted"
)

// Topic names, one per domain
const (
	TopicUsers     = "accounts.users"
	TopicQuestions = "accounts.questions"
)

// Event is the envelope for all published domain events
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent creates an event envelope with generated ID and current timestamp
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "accounts-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// UserEvent carries account data for user lifecycle events
type UserEvent struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Identity string `json:"identity,omitempty"`
}

// QuestionEvent carries question data for question lifecycle events
type QuestionEvent struct {
	QuestionID uint   `json:"question_id"`
	OfficerID  uint   `json:"officer_id"`
	Topic      string `json:"topic,omitempty"`
}
