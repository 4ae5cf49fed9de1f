package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MessageStatus is the delivery state recorded for a dispatch attempt.
type MessageStatus string

const (
	MessageStatusSent    MessageStatus = "sent"
	MessageStatusPending MessageStatus = "pending"
	MessageStatusFailed  MessageStatus = "failed"
)

// Message is one delivery record: a row describing a past dispatch
// attempt. Rows are written once and never updated except for status.
type Message struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	Content      string        `json:"content"`
	PhoneNumbers []string      `json:"phone_numbers"`
	Recipients   int           `json:"recipients"` // always len(PhoneNumbers)
	Status       MessageStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// MessageCreateRequest is the input for persisting a delivery record.
// Recipients is intentionally absent: the count is derived from
// PhoneNumbers at insert time and never trusted from a caller.
type MessageCreateRequest struct {
	UserID       uuid.UUID
	Content      string
	PhoneNumbers []string
	Status       MessageStatus
}

func (p MessageCreateRequest) Validate() error {
	if p.UserID == uuid.Nil {
		return errors.New("user_id is required")
	}
	if p.Content == "" {
		return errors.New("content is required")
	}
	if len(p.PhoneNumbers) == 0 {
		return errors.New("phone_numbers is required")
	}
	return nil
}

// MessageFilter controls history queries.
type MessageFilter struct {
	UserID   *uuid.UUID      // equals
	Statuses []MessageStatus // IN (...)
	From     *time.Time
	To       *time.Time
	Limit    int  // default 50
	Offset   int  // for pagination
	Desc     bool // order by created_at
}
