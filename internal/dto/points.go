package dto

import (
	"time"

	"meeple-cafe/backend/internal/model"
)

// AdjustPointsRequest 手动调整积分请求（管理员）
type AdjustPointsRequest struct {
	StaffID     string `json:"staff_id" binding:"required,uuid"`
	Delta       int    `json:"delta" binding:"required"`
	Description string `json:"description" binding:"required,max=500"`
}

// PointsLedgerListRequest 积分流水查询
type PointsLedgerListRequest struct {
	PaginationRequest
	Category string `form:"category"`
}

// PointsEntryResponse 积分流水响应
type PointsEntryResponse struct {
	EntryID     string    `json:"entry_id"`
	StaffID     string    `json:"staff_id"`
	Category    string    `json:"category"`
	Delta       int       `json:"delta"`
	Description string    `json:"description,omitempty"`
	EntityID    *string   `json:"entity_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToPointsEntryResponse 模型转响应
func ToPointsEntryResponse(e *model.PointsLedgerEntry) PointsEntryResponse {
	return PointsEntryResponse{
		EntryID:     e.EntryID,
		StaffID:     e.StaffID,
		Category:    e.Category,
		Delta:       e.Delta,
		Description: e.Description,
		EntityID:    e.EntityID,
		CreatedAt:   e.CreatedAt,
	}
}

// PointsTotalResponse 积分总额响应
type PointsTotalResponse struct {
	StaffID     string `json:"staff_id"`
	TotalPoints int    `json:"total_points"`
}
