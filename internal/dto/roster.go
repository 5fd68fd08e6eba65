package dto

import (
	"time"

	"meeple-cafe/backend/internal/model"
)

// ShiftResponse 班次响应
type ShiftResponse struct {
	ShiftID      string    `json:"shift_id"`
	WeekStart    string    `json:"week_start"`
	DayOfWeek    int       `json:"day_of_week"`
	ShiftType    string    `json:"shift_type"`
	StaffID      string    `json:"staff_id"`
	StaffName    string    `json:"staff_name,omitempty"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	RequiredRole string    `json:"required_role,omitempty"`
}

// ToShiftResponse 模型转响应
func ToShiftResponse(s *model.RosterShift) ShiftResponse {
	resp := ShiftResponse{
		ShiftID:      s.ShiftID,
		WeekStart:    s.WeekStart.Format("2006-01-02"),
		DayOfWeek:    s.DayOfWeek,
		ShiftType:    s.ShiftType,
		StaffID:      s.StaffID,
		StartsAt:     s.StartsAt,
		EndsAt:       s.EndsAt,
		RequiredRole: s.RequiredRole,
	}
	if s.Staff != nil {
		resp.StaffName = s.Staff.Name
	}
	return resp
}

// CreateShiftRequest 创建班次请求（管理员；排班数据通常由外部流程导入，
// 该接口用于人工补录或调整）
type CreateShiftRequest struct {
	WeekStart    string `json:"week_start" binding:"required"` // YYYY-MM-DD，周一
	DayOfWeek    int    `json:"day_of_week" binding:"required,min=1,max=7"`
	ShiftType    string `json:"shift_type" binding:"required,oneof=opening day evening closing"`
	StaffID      string `json:"staff_id" binding:"required,uuid"`
	StartsAt     string `json:"starts_at" binding:"required"` // RFC3339
	EndsAt       string `json:"ends_at" binding:"required"`
	RequiredRole string `json:"required_role" binding:"omitempty,oneof=barista game_master floor kitchen"`
}

// ShiftListRequest 班次列表查询
type ShiftListRequest struct {
	StaffID   string `form:"staff_id"`
	WeekStart string `form:"week_start"` // YYYY-MM-DD
}

// AvailabilitySlot 单条可用性
type AvailabilitySlot struct {
	DayOfWeek int    `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime string `json:"start_time" binding:"required"` // HH:MM
	EndTime   string `json:"end_time" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=available unavailable if_needed"`
}

// SetAvailabilityRequest 整体覆盖本人每周可用性
type SetAvailabilityRequest struct {
	Slots []AvailabilitySlot `json:"slots" binding:"required,dive"`
}

// AvailabilityResponse 可用性响应
type AvailabilityResponse struct {
	AvailabilityID string `json:"availability_id"`
	StaffID        string `json:"staff_id"`
	DayOfWeek      int    `json:"day_of_week"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Status         string `json:"status"`
}

// ToAvailabilityResponse 模型转响应
func ToAvailabilityResponse(a *model.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		AvailabilityID: a.AvailabilityID,
		StaffID:        a.StaffID,
		DayOfWeek:      a.DayOfWeek,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		Status:         a.Status,
	}
}

// UpdateShopConfigRequest 更新门店默认薪资配置请求（管理员）
type UpdateShopConfigRequest struct {
	DefaultWeekendMultiplier  *float64 `json:"default_weekend_multiplier" binding:"omitempty,gte=1"`
	DefaultOvertimeMultiplier *float64 `json:"default_overtime_multiplier" binding:"omitempty,gte=1"`
	DefaultOvertimeDailyHours *float64 `json:"default_overtime_daily_hours" binding:"omitempty,gt=0"`
}

// CreateHolidayRequest 创建节假日请求（管理员）
type CreateHolidayRequest struct {
	Name          string  `json:"name" binding:"required,max=100"`
	StartDate     string  `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate       string  `json:"end_date" binding:"required"`
	PayMultiplier float64 `json:"pay_multiplier" binding:"required"`
}

// UpdateHolidayRequest 更新节假日请求（管理员）
type UpdateHolidayRequest struct {
	Name          *string  `json:"name" binding:"omitempty,max=100"`
	StartDate     *string  `json:"start_date"`
	EndDate       *string  `json:"end_date"`
	PayMultiplier *float64 `json:"pay_multiplier"`
}

// HolidayResponse 节假日响应
type HolidayResponse struct {
	HolidayID     string  `json:"holiday_id"`
	Name          string  `json:"name"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	PayMultiplier float64 `json:"pay_multiplier"`
}

// ToHolidayResponse 模型转响应
func ToHolidayResponse(h *model.Holiday) HolidayResponse {
	return HolidayResponse{
		HolidayID:     h.HolidayID,
		Name:          h.Name,
		StartDate:     h.StartDate.Format("2006-01-02"),
		EndDate:       h.EndDate.Format("2006-01-02"),
		PayMultiplier: h.PayMultiplier,
	}
}
