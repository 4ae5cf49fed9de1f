package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/model"
)

// MessageEntity is the storage shape of a delivery record. Recipient
// numbers are serialized as JSON so the same entity maps onto the
// postgres text payload and the sqlite test database.
type MessageEntity struct {
	ID           uuid.UUID `db:"id"            gorm:"primaryKey;type:uuid;column:id"`
	UserID       uuid.UUID `db:"user_id"       gorm:"column:user_id;type:uuid;not null;index"`
	Content      string    `db:"content"       gorm:"column:content;not null"`
	PhoneNumbers []string  `db:"phone_numbers" gorm:"column:phone_numbers;not null;serializer:json"`
	Recipients   int       `db:"recipients"    gorm:"column:recipients;not null"`
	Status       string    `db:"status"        gorm:"column:status;not null;default:sent"`
	CreatedAt    time.Time `db:"created_at"    gorm:"column:created_at;autoCreateTime"`
}

func (MessageEntity) TableName() string {
	return "messages"
}

func toMessageModel(e *MessageEntity) *model.Message {
	if e == nil {
		return nil
	}
	return &model.Message{
		ID:           e.ID,
		UserID:       e.UserID,
		Content:      e.Content,
		PhoneNumbers: e.PhoneNumbers,
		Recipients:   e.Recipients,
		Status:       model.MessageStatus(e.Status),
		CreatedAt:    e.CreatedAt,
	}
}

func toMessageModels(entities []*MessageEntity) []*model.Message {
	if entities == nil {
		return nil
	}
	models := make([]*model.Message, len(entities))
	for i, e := range entities {
		models[i] = toMessageModel(e)
	}
	return models
}
