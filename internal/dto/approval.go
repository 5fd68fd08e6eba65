package dto

// ApproveClockRecordRequest 审批考勤记录请求（经理/管理员）
// ApprovedHours 缺省时按实际工时通过
type ApproveClockRecordRequest struct {
	ApprovedHours *float64 `json:"approved_hours" binding:"omitempty,gte=0"`
	Notes         string   `json:"notes" binding:"max=500"`
}

// PendingApprovalListRequest 待审批列表查询
type PendingApprovalListRequest struct {
	PaginationRequest
	StaffID string `form:"staff_id"`
}
