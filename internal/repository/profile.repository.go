package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/model"
	"github.com/mrezan/sms-dashboard/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileRepository struct {
	*pg.DB
}

func NewProfileRepository(db *pg.DB) *ProfileRepository {
	return &ProfileRepository{
		db,
	}
}

func (r *ProfileRepository) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var entity ProfileEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return toProfileModel(&entity), nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]*model.Profile, error) {
	var entities []*ProfileEntity
	err := r.Read(ctx).WithContext(ctx).
		Order("created_at ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toProfileModels(entities), nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	entity := &ProfileEntity{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Role:  string(p.Role),
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toProfileModel(entity), nil
}

func (r *ProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&ProfileEntity{}).
		Where("id = ?", id).
		Update("role", string(role))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&ProfileEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
