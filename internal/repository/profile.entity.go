package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/model"
)

type ProfileEntity struct {
	ID        uuid.UUID `db:"id"         gorm:"primaryKey;type:uuid;column:id"`
	Name      string    `db:"name"       gorm:"column:name;not null"`
	Email     string    `db:"email"      gorm:"column:email;not null;uniqueIndex"`
	Role      string    `db:"role"       gorm:"column:role;not null;default:user"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `db:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (ProfileEntity) TableName() string {
	return "profiles"
}

func toProfileModel(e *ProfileEntity) *model.Profile {
	if e == nil {
		return nil
	}
	return &model.Profile{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Role:      model.Role(e.Role),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toProfileModels(entities []*ProfileEntity) []*model.Profile {
	if entities == nil {
		return nil
	}
	models := make([]*model.Profile, len(entities))
	for i, e := range entities {
		models[i] = toProfileModel(e)
	}
	return models
}
