package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"meeple-cafe/backend/internal/dto"
	"meeple-cafe/backend/internal/model"
)

type swapTestEnv struct {
	svc              SwapService
	swapRepo         *mockSwapRepo
	shiftRepo        *mockShiftRepo
	availabilityRepo *mockAvailabilityRepo
	userRepo         *mockUserRepo
}

func newSwapTestEnv() *swapTestEnv {
	shiftRepo := newMockShiftRepo()
	swapRepo := newMockSwapRepo(shiftRepo)
	availabilityRepo := newMockAvailabilityRepo()
	userRepo := newMockUserRepo()
	return &swapTestEnv{
		svc:              NewSwapService(swapRepo, shiftRepo, availabilityRepo, userRepo, zap.NewNop()),
		swapRepo:         swapRepo,
		shiftRepo:        shiftRepo,
		availabilityRepo: availabilityRepo,
		userRepo:         userRepo,
	}
}

func (e *swapTestEnv) addStaff(t *testing.T, name, email, position string) *model.User {
	t.Helper()
	staff := &model.User{Name: name, Email: email, Role: model.RoleStaff, Position: position, IsActive: true}
	if err := e.userRepo.Create(context.Background(), staff); err != nil {
		t.Fatalf("创建测试店员失败: %v", err)
	}
	return staff
}

// addFutureShift 明天同一时段的班次
func (e *swapTestEnv) addFutureShift(t *testing.T, staffID, requiredRole string) *model.RosterShift {
	t.Helper()
	start := time.Now().Add(24 * time.Hour)
	dow := int(start.Weekday())
	if dow == 0 {
		dow = 7 // ISO：周日=7
	}
	shift := &model.RosterShift{
		WeekStart:    start.Truncate(24 * time.Hour),
		DayOfWeek:    dow,
		ShiftType:    model.ShiftEvening,
		StaffID:      staffID,
		StartsAt:     start,
		EndsAt:       start.Add(8 * time.Hour),
		RequiredRole: requiredRole,
	}
	if err := e.shiftRepo.Create(context.Background(), shift); err != nil {
		t.Fatalf("创建测试班次失败: %v", err)
	}
	return shift
}

func TestSwapRequest_AutoApproved(t *testing.T) {
	env := newSwapTestEnv()
	ctx := context.Background()

	requester := env.addStaff(t, "小张", "zhang@example.com", model.PositionFloor)
	target := env.addStaff(t, "小刘", "liu@example.com", model.PositionFloor)
	shift := env.addFutureShift(t, requester.UserID, "")

	swap, err := env.svc.Request(ctx, requester.UserID, &dto.CreateSwapRequest{
		ShiftID:       shift.ShiftID,
		TargetStaffID: target.UserID,
		Reason:        "当天有事",
	})
	if err != nil {
		t.Fatalf("Request 失败: %v", err)
	}
	if swap.Status != model.SwapAutoApproved {
		t.Fatalf("期望 auto_approved，实际: %s", swap.Status)
	}
	if swap.ResolvedAt == nil {
		t.Error("自动审批应写入 resolved_at")
	}

	// 班次已改派给目标店员
	reloaded, _ := env.shiftRepo.GetByID(ctx, shift.ShiftID)
	if reloaded.StaffID != target.UserID {
		t.Errorf("班次应改派给 %s，实际: %s", target.UserID, reloaded.StaffID)
	}
}

func TestSwapRequest_TargetUnavailableStaysPending(t *testing.T) {
	env := newSwapTestEnv()
	ctx := context.Background()

	requester := env.addStaff(t, "小张", "zhang@example.com", model.PositionFloor)
	target := env.addStaff(t, "小刘", "liu@example.com", model.PositionFloor)
	shift := env.addFutureShift(t, requester.UserID, "")

	// 目标店员整天标记 unavailable
	env.availabilityRepo.ReplaceForStaff(ctx, target.UserID, []model.Availability{{
		StaffID: target.UserID, DayOfWeek: shift.DayOfWeek,
		StartTime: "00:00", EndTime: "23:59",
		Status: model.AvailabilityUnavailable,
	}})

	swap, err := env.svc.Request(ctx, requester.UserID, &dto.CreateSwapRequest{
		ShiftID:       shift.ShiftID,
		TargetStaffID: target.UserID,
	})
	if err != nil {
		t.Fatalf("Request 失败: %v", err)
	}
	if swap.Status != model.SwapPending {
		t.Fatalf("目标不可用时应保持 pending，实际: %s", swap.Status)
	}

	// 班次未被改派
	reloaded, _ := env.shiftRepo.GetByID(ctx, shift.ShiftID)
	if reloaded.StaffID != requester.UserID {
		t.Error("pending 状态下班次不应改派")
	}

	// 经理否决
	resolved, err := env.svc.Resolve(ctx, swap.SwapRequestID, "manager-1", &dto.ResolveSwapRequest{
		Approve: false,
		Notes:   "当晚人手不足",
	})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if resolved.Status != model.SwapVetoed {
		t.Errorf("期望 vetoed，实际: %s", resolved.Status)
	}
	reloaded, _ = env.shiftRepo.GetByID(ctx, shift.ShiftID)
	if reloaded.StaffID != requester.UserID {
		t.Error("否决后班次必须保持原店员")
	}
}

func TestSwapRequest_RoleMismatchStaysPending(t *testing.T) {
	env := newSwapTestEnv()
	ctx := context.Background()

	requester := env.addStaff(t, "小张", "zhang@example.com", model.PositionGameMaster)
	target := env.addStaff(t, "小刘", "liu@example.com", model.PositionKitchen)
	shift := env.addFutureShift(t, requester.UserID, model.PositionGameMaster)

	swap, err := env.svc.Request(ctx, requester.UserID, &dto.CreateSwapRequest{
		ShiftID:       shift.ShiftID,
		TargetStaffID: target.UserID,
	})
	if err != nil {
		t.Fatalf("Request 失败: %v", err)
	}
	if swap.Status != model.SwapPending {
		t.Errorf("岗位不符时应保持 pending，实际: %s", swap.Status)
	}
}

func TestSwapRequest_TargetConflictStaysPending(t *testing.T) {
	env := newSwapTestEnv()
	ctx := context.Background()

	requester := env.addStaff(t, "小张", "zhang@example.com", model.PositionFloor)
	target := env.addStaff(t, "小刘", "liu@example.com", model.PositionFloor)
	shift := env.addFutureShift(t, requester.UserID, "")
	env.addFutureShift(t, target.UserID, "") // 目标同时段已有班次

	swap, err := env.svc.Request(ctx, requester.UserID, &dto.CreateSwapRequest{
		ShiftID:       shift.ShiftID,
		TargetStaffID: target.UserID,
	})
	if err != nil {
		t.Fatalf("Request 失败: %v", err)
	}
	if swap.Status != model.SwapPending {
		t.Errorf("目标有冲突班次时应保持 pending，实际: %s", swap.Status)
	}
}

func TestSwapRequest_Validation(t *testing.T) {
	env := newSwapTestEnv()
	ctx := context.Background()

	requester := env.addStaff(t, "小张", "zhang@example.com", model.PositionFloor)
	other := env.addStaff(t, "小王", "wang@example.com", model.PositionFloor)
	target := env.addStaff(t, "小刘", "liu@example.com", model.PositionFloor)

	shift := env.addFutureShift(t, other.UserID, "")
	if _, err := env.svc.Request(ctx, requester.UserID, &dto.CreateSwapRequest{
		ShiftID: shift.ShiftID, TargetStaffID: target.UserID,
	}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("非本人班次应返回 ErrNotOwner，实际: %v", err)
	}

	// 已开始的班次
	past := &model.RosterShift{
		WeekStart: time.Now().Truncate(24 * time.Hour), DayOfWeek: 1,
		ShiftType: model.ShiftDay, StaffID: requester.UserID,
		StartsAt: time.Now().Add(-2 * time.Hour), EndsAt: time.Now().Add(6 * time.Hour),
	}
	env.shiftRepo.Create(ctx, past)
	if _, err := env.svc.Request(ctx, requester.UserID, &dto.CreateSwapRequest{
		ShiftID: past.ShiftID, TargetStaffID: target.UserID,
	}); !errors.Is(err, ErrShiftInPast) {
		t.Errorf("已开始的班次应返回 ErrShiftInPast，实际: %v", err)
	}

	// 与自己换班
	future := env.addFutureShift(t, requester.UserID, "")
	if _, err := env.svc.Request(ctx, requester.UserID, &dto.CreateSwapRequest{
		ShiftID: future.ShiftID, TargetStaffID: requester.UserID,
	}); !errors.Is(err, ErrSwapWithSelf) {
		t.Errorf("与自己换班应返回 ErrSwapWithSelf，实际: %v", err)
	}
}

func TestSwapResolve_AdminApproveReassigns(t *testing.T) {
	env := newSwapTestEnv()
	ctx := context.Background()

	requester := env.addStaff(t, "小张", "zhang@example.com", model.PositionFloor)
	target := env.addStaff(t, "小刘", "liu@example.com", model.PositionKitchen)
	shift := env.addFutureShift(t, requester.UserID, model.PositionFloor) // 岗位不符 → pending

	swap, err := env.svc.Request(ctx, requester.UserID, &dto.CreateSwapRequest{
		ShiftID: shift.ShiftID, TargetStaffID: target.UserID,
	})
	if err != nil {
		t.Fatalf("Request 失败: %v", err)
	}
	if swap.Status != model.SwapPending {
		t.Fatalf("前置条件错误：期望 pending，实际: %s", swap.Status)
	}

	resolved, err := env.svc.Resolve(ctx, swap.SwapRequestID, "manager-1", &dto.ResolveSwapRequest{Approve: true})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if resolved.Status != model.SwapAdminApproved {
		t.Errorf("期望 admin_approved，实际: %s", resolved.Status)
	}
	if resolved.ResolvedBy == nil || *resolved.ResolvedBy != "manager-1" {
		t.Error("resolved_by 应为裁决人")
	}
	reloaded, _ := env.shiftRepo.GetByID(ctx, shift.ShiftID)
	if reloaded.StaffID != target.UserID {
		t.Error("人工批准后班次应改派给目标店员")
	}
}

func TestSwapResolve_ImmutableAfterResolution(t *testing.T) {
	env := newSwapTestEnv()
	ctx := context.Background()

	requester := env.addStaff(t, "小张", "zhang@example.com", model.PositionFloor)
	target := env.addStaff(t, "小刘", "liu@example.com", model.PositionFloor)
	shift := env.addFutureShift(t, requester.UserID, "")

	swap, err := env.svc.Request(ctx, requester.UserID, &dto.CreateSwapRequest{
		ShiftID: shift.ShiftID, TargetStaffID: target.UserID,
	})
	if err != nil {
		t.Fatalf("Request 失败: %v", err)
	}
	if swap.Status != model.SwapAutoApproved {
		t.Fatalf("前置条件错误：期望 auto_approved，实际: %s", swap.Status)
	}

	// 已裁决的申请不可再变更
	if _, err := env.svc.Resolve(ctx, swap.SwapRequestID, "manager-1", &dto.ResolveSwapRequest{Approve: false}); !errors.Is(err, ErrSwapAlreadyResolved) {
		t.Errorf("期望 ErrSwapAlreadyResolved，实际: %v", err)
	}
}
