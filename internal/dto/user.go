package dto

import (
	"time"

	"meeple-cafe/backend/internal/model"
)

// CreateStaffRequest 创建店员请求（管理员）
type CreateStaffRequest struct {
	Name            string `json:"name" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email"`
	InitialPassword string `json:"initial_password" binding:"required,min=8,max=64"`
	Role            string `json:"role" binding:"required,oneof=admin manager staff"`
	Position        string `json:"position" binding:"required,oneof=barista game_master floor kitchen"`
	BaseRate        int64  `json:"base_rate" binding:"required,gt=0"`
}

// UpdateStaffRequest 更新店员资料请求（管理员）
type UpdateStaffRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin manager staff"`
	Position *string `json:"position" binding:"omitempty,oneof=barista game_master floor kitchen"`
	IsActive *bool   `json:"is_active"`
}

// UpdatePayConfigRequest 更新店员薪资配置请求（管理员）
// ClearOverrides 为 true 时清空三个倍率覆盖，回退到门店默认值
type UpdatePayConfigRequest struct {
	BaseRate           *int64   `json:"base_rate" binding:"omitempty,gt=0"`
	WeekendMultiplier  *float64 `json:"weekend_multiplier" binding:"omitempty,gte=1"`
	OvertimeMultiplier *float64 `json:"overtime_multiplier" binding:"omitempty,gte=1"`
	OvertimeDailyHours *float64 `json:"overtime_daily_hours" binding:"omitempty,gt=0"`
	ClearOverrides     bool     `json:"clear_overrides"`
}

// StaffResponse 店员信息响应
type StaffResponse struct {
	UserID             string    `json:"user_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	Position           string    `json:"position"`
	BaseRate           int64     `json:"base_rate"`
	WeekendMultiplier  *float64  `json:"weekend_multiplier,omitempty"`
	OvertimeMultiplier *float64  `json:"overtime_multiplier,omitempty"`
	OvertimeDailyHours *float64  `json:"overtime_daily_hours,omitempty"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

// ToStaffResponse 模型转响应
func ToStaffResponse(u *model.User) StaffResponse {
	return StaffResponse{
		UserID:             u.UserID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               u.Role,
		Position:           u.Position,
		BaseRate:           u.BaseRate,
		WeekendMultiplier:  u.WeekendMultiplier,
		OvertimeMultiplier: u.OvertimeMultiplier,
		OvertimeDailyHours: u.OvertimeDailyHours,
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
	}
}

// StaffListRequest 店员列表查询
type StaffListRequest struct {
	PaginationRequest
	Role     string `form:"role"`
	Position string `form:"position"`
	Keyword  string `form:"keyword"`
}
