package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"meeple-cafe/backend/internal/model"
	pkgerrors "meeple-cafe/backend/pkg/errors"
)

// 基于内存 map 的仓储 mock，覆盖业务层测试所需的全部接口。

// ── 店员 ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	user.Version = 1
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, userID string) (*model.User, error) {
	if u, ok := m.users[userID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) List(_ context.Context, role, position, _ string, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		if position != "" && u.Position != position {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	stored, ok := m.users[user.UserID]
	if !ok || stored.Version != user.Version {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version++
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

// ── 班次 ──

type mockShiftRepo struct {
	shifts map[string]*model.RosterShift
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.RosterShift)}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.RosterShift) error {
	if shift.ShiftID == "" {
		shift.ShiftID = uuid.New().String()
	}
	shift.Version = 1
	cp := *shift
	m.shifts[shift.ShiftID] = &cp
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, shiftID string) (*model.RosterShift, error) {
	if s, ok := m.shifts[shiftID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *mockShiftRepo) List(_ context.Context, staffID string, weekStart *time.Time) ([]model.RosterShift, error) {
	var out []model.RosterShift
	for _, s := range m.shifts {
		if staffID != "" && s.StaffID != staffID {
			continue
		}
		if weekStart != nil && !s.WeekStart.Equal(*weekStart) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (m *mockShiftRepo) ListForStaffInRange(_ context.Context, staffID string, from, to time.Time) ([]model.RosterShift, error) {
	var out []model.RosterShift
	for _, s := range m.shifts {
		if s.StaffID == staffID && !s.StartsAt.Before(from) && s.StartsAt.Before(to) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (m *mockShiftRepo) FindForStaffAt(_ context.Context, staffID string, at time.Time, window time.Duration) (*model.RosterShift, error) {
	var best *model.RosterShift
	for _, s := range m.shifts {
		if s.StaffID != staffID {
			continue
		}
		if s.StartsAt.After(at.Add(window)) || s.EndsAt.Before(at) {
			continue
		}
		if best == nil || s.StartsAt.Before(best.StartsAt) {
			best = s
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *mockShiftRepo) FindConflict(_ context.Context, staffID string, startsAt, endsAt time.Time, excludeShiftID string) (*model.RosterShift, error) {
	for _, s := range m.shifts {
		if s.StaffID != staffID || s.ShiftID == excludeShiftID {
			continue
		}
		if s.StartsAt.Before(endsAt) && s.EndsAt.After(startsAt) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockShiftRepo) Reassign(_ context.Context, shift *model.RosterShift, newStaffID string) error {
	return m.reassign(shift, newStaffID)
}

func (m *mockShiftRepo) reassign(shift *model.RosterShift, newStaffID string) error {
	stored, ok := m.shifts[shift.ShiftID]
	if !ok || stored.Version != shift.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.StaffID = newStaffID
	stored.Version++
	shift.StaffID = newStaffID
	shift.Version = stored.Version
	return nil
}

// ── 可用性 ──

type mockAvailabilityRepo struct {
	slots map[string][]model.Availability // staffID → slots
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{slots: make(map[string][]model.Availability)}
}

func (m *mockAvailabilityRepo) ReplaceForStaff(_ context.Context, staffID string, slots []model.Availability) error {
	out := make([]model.Availability, len(slots))
	for i, s := range slots {
		if s.AvailabilityID == "" {
			s.AvailabilityID = uuid.New().String()
		}
		out[i] = s
	}
	m.slots[staffID] = out
	return nil
}

func (m *mockAvailabilityRepo) ListByStaff(_ context.Context, staffID string) ([]model.Availability, error) {
	return append([]model.Availability(nil), m.slots[staffID]...), nil
}

func (m *mockAvailabilityRepo) HasUnavailableOverlap(_ context.Context, staffID string, dayOfWeek int, startTime, endTime string) (bool, error) {
	for _, s := range m.slots[staffID] {
		if s.DayOfWeek == dayOfWeek && s.Status == model.AvailabilityUnavailable &&
			s.StartTime < endTime && s.EndTime > startTime {
			return true, nil
		}
	}
	return false, nil
}

// ── 节假日 ──

type mockHolidayRepo struct {
	holidays map[string]*model.Holiday
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{holidays: make(map[string]*model.Holiday)}
}

func (m *mockHolidayRepo) Create(_ context.Context, h *model.Holiday) error {
	if h.HolidayID == "" {
		h.HolidayID = uuid.New().String()
	}
	h.Version = 1
	cp := *h
	m.holidays[h.HolidayID] = &cp
	return nil
}

func (m *mockHolidayRepo) GetByID(_ context.Context, holidayID string) (*model.Holiday, error) {
	if h, ok := m.holidays[holidayID]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, nil
}

func (m *mockHolidayRepo) Update(_ context.Context, h *model.Holiday) error {
	stored, ok := m.holidays[h.HolidayID]
	if !ok || stored.Version != h.Version {
		return pkgerrors.ErrOptimisticLock
	}
	h.Version++
	cp := *h
	m.holidays[h.HolidayID] = &cp
	return nil
}

func (m *mockHolidayRepo) Delete(_ context.Context, holidayID string) error {
	delete(m.holidays, holidayID)
	return nil
}

func (m *mockHolidayRepo) List(_ context.Context) ([]model.Holiday, error) {
	var out []model.Holiday
	for _, h := range m.holidays {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *mockHolidayRepo) ListOverlapping(_ context.Context, from, to time.Time) ([]model.Holiday, error) {
	var out []model.Holiday
	for _, h := range m.holidays {
		if !h.StartDate.After(to) && !h.EndDate.Before(from) {
			out = append(out, *h)
		}
	}
	return out, nil
}

// ── 考勤记录 ──

type mockClockRecordRepo struct {
	records map[string]*model.ClockRecord
}

func newMockClockRecordRepo() *mockClockRecordRepo {
	return &mockClockRecordRepo{records: make(map[string]*model.ClockRecord)}
}

func (m *mockClockRecordRepo) Create(_ context.Context, record *model.ClockRecord) error {
	for _, r := range m.records {
		if r.StaffID == record.StaffID && r.ClockOutTime == nil {
			return pkgerrors.ErrDuplicateOpenSession
		}
	}
	if record.ClockRecordID == "" {
		record.ClockRecordID = uuid.New().String()
	}
	record.Version = 1
	cp := *record
	m.records[record.ClockRecordID] = &cp
	return nil
}

func (m *mockClockRecordRepo) GetByID(_ context.Context, recordID string) (*model.ClockRecord, error) {
	if r, ok := m.records[recordID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *mockClockRecordRepo) GetOpenByStaff(_ context.Context, staffID string) (*model.ClockRecord, error) {
	for _, r := range m.records {
		if r.StaffID == staffID && r.ClockOutTime == nil {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockClockRecordRepo) Update(_ context.Context, record *model.ClockRecord) error {
	stored, ok := m.records[record.ClockRecordID]
	if !ok || stored.Version != record.Version {
		return pkgerrors.ErrOptimisticLock
	}
	record.Version++
	cp := *record
	m.records[record.ClockRecordID] = &cp
	return nil
}

func (m *mockClockRecordRepo) List(_ context.Context, staffID string, from, to *time.Time, offset, limit int) ([]model.ClockRecord, int64, error) {
	var out []model.ClockRecord
	for _, r := range m.records {
		if staffID != "" && r.StaffID != staffID {
			continue
		}
		if from != nil && r.ClockInTime.Before(*from) {
			continue
		}
		if to != nil && !r.ClockInTime.Before(*to) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockInTime.After(out[j].ClockInTime) })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (m *mockClockRecordRepo) ListPendingApproval(_ context.Context, staffID string, offset, limit int) ([]model.ClockRecord, int64, error) {
	var out []model.ClockRecord
	for _, r := range m.records {
		if !r.RequiresApproval || r.ApprovedAt != nil || r.ClockOutTime == nil {
			continue
		}
		if staffID != "" && r.StaffID != staffID {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockInTime.Before(out[j].ClockInTime) })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (m *mockClockRecordRepo) ListPayableInRange(_ context.Context, staffID string, from, to time.Time) ([]model.ClockRecord, error) {
	var out []model.ClockRecord
	for _, r := range m.records {
		if r.StaffID != staffID || r.ClockOutTime == nil || r.RequiresApproval {
			continue
		}
		if r.ClockInTime.Before(from) || !r.ClockInTime.Before(to) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockInTime.Before(out[j].ClockInTime) })
	return out, nil
}

func (m *mockClockRecordRepo) CountLate(_ context.Context, staffID string) (int64, error) {
	var count int64
	for _, r := range m.records {
		if r.StaffID == staffID && r.IsLate {
			count++
		}
	}
	return count, nil
}

// ── 积分 ──

type mockPointsRepo struct {
	entries []model.PointsLedgerEntry
	totals  map[string]int
	// failNext 注入下一次 Award 失败，用于验证尽力而为语义
	failNext bool
}

func newMockPointsRepo() *mockPointsRepo {
	return &mockPointsRepo{totals: make(map[string]int)}
}

var errMockLedgerDown = errors.New("积分存储不可用")

func (m *mockPointsRepo) Award(_ context.Context, entry *model.PointsLedgerEntry) error {
	if m.failNext {
		m.failNext = false
		return errMockLedgerDown
	}
	if entry.EntryID == "" {
		entry.EntryID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	m.totals[entry.StaffID] += entry.Delta
	return nil
}

func (m *mockPointsRepo) Refund(_ context.Context, staffID, category, entityID string, createdBy *string, description string) (int, error) {
	var sum int
	for _, e := range m.entries {
		if e.StaffID == staffID && e.Category == category && e.EntityID != nil && *e.EntityID == entityID {
			sum += e.Delta
		}
	}
	if sum == 0 {
		return 0, nil
	}
	m.entries = append(m.entries, model.PointsLedgerEntry{
		EntryID:     uuid.New().String(),
		StaffID:     staffID,
		Category:    category,
		Delta:       -sum,
		Description: description,
		EntityID:    &entityID,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	})
	m.totals[staffID] -= sum
	if sum < 0 {
		return -sum, nil
	}
	return sum, nil
}

func (m *mockPointsRepo) GetTotal(_ context.Context, staffID string) (int, error) {
	return m.totals[staffID], nil
}

func (m *mockPointsRepo) SumByCategoryInRange(_ context.Context, staffID, category string, from, to time.Time) (int, error) {
	var sum int
	for _, e := range m.entries {
		if e.StaffID == staffID && e.Category == category &&
			!e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			sum += e.Delta
		}
	}
	return sum, nil
}

func (m *mockPointsRepo) ListByStaff(_ context.Context, staffID, category string, offset, limit int) ([]model.PointsLedgerEntry, int64, error) {
	var out []model.PointsLedgerEntry
	for _, e := range m.entries {
		if e.StaffID != staffID {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

// ── 换班申请 ──

type mockSwapRepo struct {
	reqs   map[string]*model.SwapRequest
	shifts *mockShiftRepo
}

func newMockSwapRepo(shifts *mockShiftRepo) *mockSwapRepo {
	return &mockSwapRepo{reqs: make(map[string]*model.SwapRequest), shifts: shifts}
}

func (m *mockSwapRepo) Create(_ context.Context, req *model.SwapRequest) error {
	if req.SwapRequestID == "" {
		req.SwapRequestID = uuid.New().String()
	}
	req.Version = 1
	cp := *req
	cp.Status = model.SwapPending
	m.reqs[req.SwapRequestID] = &cp
	return nil
}

func (m *mockSwapRepo) GetByID(_ context.Context, requestID string) (*model.SwapRequest, error) {
	r, ok := m.reqs[requestID]
	if !ok {
		return nil, nil
	}
	cp := *r
	if shift, _ := m.shifts.GetByID(context.Background(), r.ShiftID); shift != nil {
		cp.Shift = shift
	}
	return &cp, nil
}

func (m *mockSwapRepo) List(_ context.Context, staffID, status string, offset, limit int) ([]model.SwapRequest, int64, error) {
	var out []model.SwapRequest
	for _, r := range m.reqs {
		if staffID != "" && r.RequestingStaffID != staffID && r.TargetStaffID != staffID {
			continue
		}
		if status != "" && string(r.Status) != status {
			continue
		}
		out = append(out, *r)
	}
	total := int64(len(out))
	return out, total, nil
}

func (m *mockSwapRepo) Resolve(_ context.Context, req *model.SwapRequest, shift *model.RosterShift, newStaffID string) error {
	stored, ok := m.reqs[req.SwapRequestID]
	if !ok || stored.Status != model.SwapPending || stored.Version != req.Version {
		return pkgerrors.ErrOptimisticLock
	}
	// 模拟事务：先试改派，失败则申请行不动
	if newStaffID != "" {
		if err := m.shifts.reassign(shift, newStaffID); err != nil {
			return err
		}
	}
	stored.Status = req.Status
	stored.ResolvedAt = req.ResolvedAt
	stored.ResolvedBy = req.ResolvedBy
	stored.ResolverNotes = req.ResolverNotes
	stored.Version++
	req.Version = stored.Version
	return nil
}

// ── 门店配置 ──

type mockShopConfigRepo struct {
	cfg model.ShopConfig
}

func newMockShopConfigRepo() *mockShopConfigRepo {
	return &mockShopConfigRepo{cfg: model.ShopConfig{
		Singleton:                 true,
		DefaultWeekendMultiplier:  1.5,
		DefaultOvertimeMultiplier: 1.5,
		DefaultOvertimeDailyHours: 8,
	}}
}

func (m *mockShopConfigRepo) Get(_ context.Context) (*model.ShopConfig, error) {
	cp := m.cfg
	return &cp, nil
}

func (m *mockShopConfigRepo) Update(_ context.Context, cfg *model.ShopConfig) error {
	m.cfg = *cfg
	return nil
}
