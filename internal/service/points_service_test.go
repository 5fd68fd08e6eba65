package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"meeple-cafe/backend/internal/dto"
	"meeple-cafe/backend/internal/model"
)

func newPointsTestEnv() (PointsService, *mockPointsRepo, *mockUserRepo) {
	pointsRepo := newMockPointsRepo()
	userRepo := newMockUserRepo()
	return NewPointsService(pointsRepo, userRepo, zap.NewNop()), pointsRepo, userRepo
}

func TestAward_UpdatesTotal(t *testing.T) {
	svc, _, _ := newPointsTestEnv()
	ctx := context.Background()

	entity := "game-1"
	if _, err := svc.Award(ctx, "staff-1", model.PointsCategoryKnowledgeAdd, 30, &entity, nil, "新增游戏讲解"); err != nil {
		t.Fatalf("Award 失败: %v", err)
	}
	if _, err := svc.Award(ctx, "staff-1", model.PointsCategoryTeaching, 10, nil, nil, "带教新人"); err != nil {
		t.Fatalf("Award 失败: %v", err)
	}

	total, err := svc.GetTotal(ctx, "staff-1")
	if err != nil {
		t.Fatalf("GetTotal 失败: %v", err)
	}
	if total != 40 {
		t.Errorf("期望总额 40，实际: %d", total)
	}
}

func TestAward_Validation(t *testing.T) {
	svc, _, _ := newPointsTestEnv()
	ctx := context.Background()

	if _, err := svc.Award(ctx, "staff-1", "nonsense", 10, nil, nil, ""); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("期望 ErrInvalidCategory，实际: %v", err)
	}
	if _, err := svc.Award(ctx, "staff-1", model.PointsCategoryTeaching, 0, nil, nil, ""); !errors.Is(err, ErrZeroDelta) {
		t.Errorf("期望 ErrZeroDelta，实际: %v", err)
	}
}

func TestRefund_OffsetsNetAmount(t *testing.T) {
	svc, pointsRepo, _ := newPointsTestEnv()
	ctx := context.Background()

	entity := "game-1"
	if _, err := svc.Award(ctx, "staff-1", model.PointsCategoryKnowledgeUpgrade, 60, &entity, nil, ""); err != nil {
		t.Fatalf("Award 失败: %v", err)
	}

	refunded, err := svc.Refund(ctx, "staff-1", model.PointsCategoryKnowledgeUpgrade, entity, nil)
	if err != nil {
		t.Fatalf("Refund 失败: %v", err)
	}
	if refunded != 60 {
		t.Errorf("期望退回 60，实际: %d", refunded)
	}
	if total, _ := svc.GetTotal(ctx, "staff-1"); total != 0 {
		t.Errorf("退回后总额应为 0，实际: %d", total)
	}
	if len(pointsRepo.entries) != 2 {
		t.Errorf("应有发放 + 冲销两条流水，实际: %d", len(pointsRepo.entries))
	}
}

func TestRefund_DoubleRefundIsNoOp(t *testing.T) {
	svc, pointsRepo, _ := newPointsTestEnv()
	ctx := context.Background()

	entity := "game-1"
	if _, err := svc.Award(ctx, "staff-1", model.PointsCategoryKnowledgeUpgrade, 60, &entity, nil, ""); err != nil {
		t.Fatalf("Award 失败: %v", err)
	}
	if _, err := svc.Refund(ctx, "staff-1", model.PointsCategoryKnowledgeUpgrade, entity, nil); err != nil {
		t.Fatalf("首次 Refund 失败: %v", err)
	}

	// 二次退回：净额已为 0，必须是无操作
	refunded, err := svc.Refund(ctx, "staff-1", model.PointsCategoryKnowledgeUpgrade, entity, nil)
	if err != nil {
		t.Fatalf("二次 Refund 失败: %v", err)
	}
	if refunded != 0 {
		t.Errorf("二次退回应返回 0，实际: %d", refunded)
	}
	if len(pointsRepo.entries) != 2 {
		t.Errorf("二次退回不应新增流水，实际条数: %d", len(pointsRepo.entries))
	}
	if total, _ := svc.GetTotal(ctx, "staff-1"); total != 0 {
		t.Errorf("总额应保持 0，实际: %d", total)
	}
}

func TestAdjustManual(t *testing.T) {
	svc, _, userRepo := newPointsTestEnv()
	ctx := context.Background()

	staff := &model.User{Name: "小王", Email: "wang@example.com", Role: model.RoleStaff, Position: model.PositionFloor, IsActive: true}
	if err := userRepo.Create(ctx, staff); err != nil {
		t.Fatalf("创建测试店员失败: %v", err)
	}

	entry, err := svc.AdjustManual(ctx, "admin-1", &dto.AdjustPointsRequest{
		StaffID:     staff.UserID,
		Delta:       -20,
		Description: "损坏桌游配件",
	})
	if err != nil {
		t.Fatalf("AdjustManual 失败: %v", err)
	}
	if entry.Category != model.PointsCategoryManualAdjust {
		t.Errorf("手动调整应记入 manual_adjustment，实际: %s", entry.Category)
	}
	if total, _ := svc.GetTotal(ctx, staff.UserID); total != -20 {
		t.Errorf("期望总额 -20，实际: %d", total)
	}

	// 店员不存在
	if _, err := svc.AdjustManual(ctx, "admin-1", &dto.AdjustPointsRequest{StaffID: "ghost", Delta: 5, Description: "x"}); !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("期望 ErrStaffNotFound，实际: %v", err)
	}
}
