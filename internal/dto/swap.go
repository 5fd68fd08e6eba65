package dto

import (
	"time"

	"meeple-cafe/backend/internal/model"
)

// CreateSwapRequest 发起换班申请
type CreateSwapRequest struct {
	ShiftID       string `json:"shift_id" binding:"required,uuid"`
	TargetStaffID string `json:"target_staff_id" binding:"required,uuid"`
	Reason        string `json:"reason" binding:"max=500"`
}

// ResolveSwapRequest 人工裁决换班申请（经理/管理员）
type ResolveSwapRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes" binding:"max=500"`
}

// SwapRequestResponse 换班申请响应
type SwapRequestResponse struct {
	SwapRequestID       string         `json:"swap_request_id"`
	ShiftID             string         `json:"shift_id"`
	RequestingStaffID   string         `json:"requesting_staff_id"`
	RequestingStaffName string         `json:"requesting_staff_name,omitempty"`
	TargetStaffID       string         `json:"target_staff_id"`
	TargetStaffName     string         `json:"target_staff_name,omitempty"`
	Status              string         `json:"status"`
	Reason              string         `json:"reason,omitempty"`
	RequestedAt         time.Time      `json:"requested_at"`
	ResolvedAt          *time.Time     `json:"resolved_at,omitempty"`
	ResolvedBy          *string        `json:"resolved_by,omitempty"`
	ResolverNotes       string         `json:"resolver_notes,omitempty"`
	Shift               *ShiftResponse `json:"shift,omitempty"`
}

// ToSwapRequestResponse 模型转响应
func ToSwapRequestResponse(r *model.SwapRequest) SwapRequestResponse {
	resp := SwapRequestResponse{
		SwapRequestID:     r.SwapRequestID,
		ShiftID:           r.ShiftID,
		RequestingStaffID: r.RequestingStaffID,
		TargetStaffID:     r.TargetStaffID,
		Status:            string(r.Status),
		Reason:            r.Reason,
		RequestedAt:       r.RequestedAt,
		ResolvedAt:        r.ResolvedAt,
		ResolvedBy:        r.ResolvedBy,
		ResolverNotes:     r.ResolverNotes,
	}
	if r.RequestingStaff != nil {
		resp.RequestingStaffName = r.RequestingStaff.Name
	}
	if r.TargetStaff != nil {
		resp.TargetStaffName = r.TargetStaff.Name
	}
	if r.Shift != nil {
		s := ToShiftResponse(r.Shift)
		resp.Shift = &s
	}
	return resp
}

// SwapRequestListRequest 换班申请列表查询
type SwapRequestListRequest struct {
	PaginationRequest
	Status string `form:"status"`
}
