package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/model"
)

type MessageRepository interface {
	List(ctx context.Context, f model.MessageFilter) ([]*model.Message, int64, error) // results, totalCount
}

type HistoryService struct {
	messageRepo MessageRepository
}

func NewHistoryService(messageRepo MessageRepository) *HistoryService {
	return &HistoryService{
		messageRepo: messageRepo,
	}
}

// List returns delivery records visible to the caller. Plain users only
// ever see their own rows no matter what the filter asks for; admins
// and superadmins see everything.
func (s *HistoryService) List(ctx context.Context, callerID uuid.UUID, caller model.Role, f model.MessageFilter) ([]*model.Message, int64, error) {
	if caller != model.RoleAdmin && caller != model.RoleSuperadmin {
		f.UserID = &callerID
	}
	return s.messageRepo.List(ctx, f)
}
