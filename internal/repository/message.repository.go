package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/model"
	"github.com/mrezan/sms-dashboard/pkg/pg"
)

var (
	// ErrMessageNotFound is returned when a delivery record does not exist.
	ErrMessageNotFound = errors.New("message not found")
)

type MessageRepository struct {
	*pg.DB
}

func NewMessageRepository(db *pg.DB) *MessageRepository {
	return &MessageRepository{
		db,
	}
}

// Create persists one delivery record. The recipient count is derived
// from the number slice here and never taken from the caller.
func (r *MessageRepository) Create(ctx context.Context, p model.MessageCreateRequest) (*model.Message, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	entity := &MessageEntity{
		ID:           uuid.New(),
		UserID:       p.UserID,
		Content:      p.Content,
		PhoneNumbers: p.PhoneNumbers,
		Recipients:   len(p.PhoneNumbers),
		Status:       string(p.Status),
	}

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toMessageModel(entity), nil
}

func (r *MessageRepository) List(ctx context.Context, f model.MessageFilter) ([]*model.Message, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&MessageEntity{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at"
	if f.Desc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*MessageEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toMessageModels(entities), total, nil
}

// Count returns the number of delivery records matching the filter,
// used by the dashboard overview.
func (r *MessageRepository) Count(ctx context.Context, f model.MessageFilter) (int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&MessageEntity{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
