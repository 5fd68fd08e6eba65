package dto

import (
	"time"

	"meeple-cafe/backend/internal/model"
)

// ClockInRequest 上班打卡请求
type ClockInRequest struct {
	Location *model.GeoPoint `json:"location"`
}

// ClockInResponse 上班打卡响应
type ClockInResponse struct {
	RecordID         string    `json:"record_id"`
	ClockInTime      time.Time `json:"clock_in_time"`
	ShiftID          *string   `json:"shift_id,omitempty"`
	Prompt           string    `json:"prompt"`
	PointsAwarded    int       `json:"points_awarded"`
	RequiresApproval bool      `json:"requires_approval"`
}

// ClockOutRequest 下班打卡请求
type ClockOutRequest struct {
	Location *model.GeoPoint `json:"location"`
	Reason   string          `json:"reason"`
}

// ClockOutResponse 下班打卡响应
type ClockOutResponse struct {
	RecordID         string  `json:"record_id"`
	ActualHours      float64 `json:"actual_hours"`
	RequiresApproval bool    `json:"requires_approval"`
	ApprovedHours    *float64 `json:"approved_hours,omitempty"`
}

// ClockRecordResponse 打卡记录响应
type ClockRecordResponse struct {
	ID               string     `json:"id"`
	StaffID          string     `json:"staff_id"`
	StaffName        string     `json:"staff_name,omitempty"`
	ShiftID          *string    `json:"shift_id,omitempty"`
	ClockInTime      time.Time  `json:"clock_in_time"`
	ClockOutTime     *time.Time `json:"clock_out_time,omitempty"`
	RosteredStart    *time.Time `json:"rostered_start,omitempty"`
	RosteredEnd      *time.Time `json:"rostered_end,omitempty"`
	ActualHours      float64    `json:"actual_hours"`
	ApprovedHours    *float64   `json:"approved_hours,omitempty"`
	VarianceReason   string     `json:"variance_reason,omitempty"`
	RequiresApproval bool       `json:"requires_approval"`
	ApprovedBy       *string    `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ReviewNotes      string     `json:"review_notes,omitempty"`
	PointsAwarded    int        `json:"points_awarded"`
	IsLate           bool       `json:"is_late"`
}

// ToClockRecordResponse 模型转响应
func ToClockRecordResponse(r *model.ClockRecord) ClockRecordResponse {
	resp := ClockRecordResponse{
		ID:               r.ClockRecordID,
		StaffID:          r.StaffID,
		ShiftID:          r.ShiftID,
		ClockInTime:      r.ClockInTime,
		ClockOutTime:     r.ClockOutTime,
		RosteredStart:    r.RosteredStart,
		RosteredEnd:      r.RosteredEnd,
		ActualHours:      r.ActualHours(),
		ApprovedHours:    r.ApprovedHours,
		VarianceReason:   r.VarianceReason,
		RequiresApproval: r.RequiresApproval,
		ApprovedBy:       r.ApprovedBy,
		ApprovedAt:       r.ApprovedAt,
		ReviewNotes:      r.ReviewNotes,
		PointsAwarded:    r.PointsAwarded,
		IsLate:           r.IsLate,
	}
	if r.Staff != nil {
		resp.StaffName = r.Staff.Name
	}
	return resp
}

// ClockRecordListRequest 打卡记录查询
type ClockRecordListRequest struct {
	PaginationRequest
	StaffID string `form:"staff_id"`
	From    string `form:"from"`
	To      string `form:"to"`
}
