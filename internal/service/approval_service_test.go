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

// addPendingRecord 注入一条已关闭、待审批的考勤记录（实际工时 hours 小时）
func addPendingRecord(t *testing.T, repo *mockClockRecordRepo, staffID string, hours float64) *model.ClockRecord {
	t.Helper()
	in := time.Now().Add(-time.Duration(hours * float64(time.Hour)))
	out := time.Now()
	record := &model.ClockRecord{
		StaffID:          staffID,
		ClockInTime:      in,
		ClockOutTime:     &out,
		RequiresApproval: true,
	}
	if err := repo.Create(context.Background(), record); err != nil {
		t.Fatalf("注入测试记录失败: %v", err)
	}
	return record
}

func TestApprove_DefaultsToActualHours(t *testing.T) {
	clockRepo := newMockClockRecordRepo()
	svc := NewApprovalService(clockRepo, zap.NewNop())
	record := addPendingRecord(t, clockRepo, "staff-1", 8)

	approved, err := svc.Approve(context.Background(), record.ClockRecordID, "manager-1", &dto.ApproveClockRecordRequest{})
	if err != nil {
		t.Fatalf("Approve 失败: %v", err)
	}
	if approved.RequiresApproval {
		t.Error("审批后 requires_approval 应清除")
	}
	if approved.ApprovedAt == nil || approved.ApprovedBy == nil {
		t.Fatal("审批人与审批时间应写入")
	}
	if *approved.ApprovedBy != "manager-1" {
		t.Errorf("审批人错误: %s", *approved.ApprovedBy)
	}
	if approved.ApprovedHours == nil {
		t.Fatal("approved_hours 应写入")
	}
	if diff := *approved.ApprovedHours - 8; diff > 0.01 || diff < -0.01 {
		t.Errorf("缺省应按实际工时通过，实际: %v", *approved.ApprovedHours)
	}
}

func TestApprove_ExplicitHours(t *testing.T) {
	clockRepo := newMockClockRecordRepo()
	svc := NewApprovalService(clockRepo, zap.NewNop())
	record := addPendingRecord(t, clockRepo, "staff-1", 8)

	hours := 7.5
	approved, err := svc.Approve(context.Background(), record.ClockRecordID, "manager-1", &dto.ApproveClockRecordRequest{
		ApprovedHours: &hours,
		Notes:         "扣除用餐时间",
	})
	if err != nil {
		t.Fatalf("Approve 失败: %v", err)
	}
	if *approved.ApprovedHours != 7.5 {
		t.Errorf("期望 approved_hours=7.5，实际: %v", *approved.ApprovedHours)
	}
}

func TestApprove_DoubleApprovalRejected(t *testing.T) {
	clockRepo := newMockClockRecordRepo()
	svc := NewApprovalService(clockRepo, zap.NewNop())
	record := addPendingRecord(t, clockRepo, "staff-1", 8)
	ctx := context.Background()

	if _, err := svc.Approve(ctx, record.ClockRecordID, "manager-1", &dto.ApproveClockRecordRequest{}); err != nil {
		t.Fatalf("首次 Approve 失败: %v", err)
	}
	if _, err := svc.Approve(ctx, record.ClockRecordID, "manager-2", &dto.ApproveClockRecordRequest{}); !errors.Is(err, ErrNotPending) {
		t.Errorf("重复审批应返回 ErrNotPending，实际: %v", err)
	}
}

func TestApprove_InvalidHours(t *testing.T) {
	clockRepo := newMockClockRecordRepo()
	svc := NewApprovalService(clockRepo, zap.NewNop())
	ctx := context.Background()

	record := addPendingRecord(t, clockRepo, "staff-1", 8)

	negative := -1.0
	if _, err := svc.Approve(ctx, record.ClockRecordID, "manager-1", &dto.ApproveClockRecordRequest{ApprovedHours: &negative}); !errors.Is(err, ErrInvalidHours) {
		t.Errorf("负数工时应返回 ErrInvalidHours，实际: %v", err)
	}

	// 明显超过会话实际时长
	absurd := 20.0
	if _, err := svc.Approve(ctx, record.ClockRecordID, "manager-1", &dto.ApproveClockRecordRequest{ApprovedHours: &absurd}); !errors.Is(err, ErrInvalidHours) {
		t.Errorf("超长工时应返回 ErrInvalidHours，实际: %v", err)
	}
}

func TestApprove_OpenSessionRejected(t *testing.T) {
	clockRepo := newMockClockRecordRepo()
	svc := NewApprovalService(clockRepo, zap.NewNop())
	ctx := context.Background()

	// 迟到超 15 分钟、尚未下班打卡的会话
	open := &model.ClockRecord{
		StaffID:          "staff-1",
		ClockInTime:      time.Now().Add(-30 * time.Minute),
		RequiresApproval: true,
		IsLate:           true,
	}
	if err := clockRepo.Create(ctx, open); err != nil {
		t.Fatalf("注入测试记录失败: %v", err)
	}

	// open 会话不可终审：此时审批会落在 0 工时上，且之后的下班打卡
	// 会把已终审的记录重新标回待审批，使其既不可审又不计薪
	if _, err := svc.Approve(ctx, open.ClockRecordID, "manager-1", &dto.ApproveClockRecordRequest{}); !errors.Is(err, ErrSessionStillOpen) {
		t.Fatalf("审批 open 会话应返回 ErrSessionStillOpen，实际: %v", err)
	}

	// open 会话也不应出现在待审批队列里
	_, total, err := svc.ListPending(ctx, &dto.PendingApprovalListRequest{})
	if err != nil {
		t.Fatalf("ListPending 失败: %v", err)
	}
	if total != 0 {
		t.Errorf("open 会话不应入队，实际: %d", total)
	}

	// 下班打卡后方可审批
	stored, _ := clockRepo.GetByID(ctx, open.ClockRecordID)
	out := time.Now()
	stored.ClockOutTime = &out
	if err := clockRepo.Update(ctx, stored); err != nil {
		t.Fatalf("关闭测试记录失败: %v", err)
	}

	_, total, _ = svc.ListPending(ctx, &dto.PendingApprovalListRequest{})
	if total != 1 {
		t.Fatalf("关闭后应入队，实际: %d", total)
	}
	approved, err := svc.Approve(ctx, open.ClockRecordID, "manager-1", &dto.ApproveClockRecordRequest{})
	if err != nil {
		t.Fatalf("关闭后 Approve 失败: %v", err)
	}
	if approved.ApprovedHours == nil || *approved.ApprovedHours <= 0 {
		t.Errorf("approved_hours 应为正值，实际: %v", approved.ApprovedHours)
	}
}

func TestApprove_NotesKeepVarianceReason(t *testing.T) {
	clockRepo := newMockClockRecordRepo()
	svc := NewApprovalService(clockRepo, zap.NewNop())
	record := addPendingRecord(t, clockRepo, "staff-1", 8)
	record.VarianceReason = "家中有急事"
	if err := clockRepo.Update(context.Background(), record); err != nil {
		t.Fatalf("写入测试原因失败: %v", err)
	}

	approved, err := svc.Approve(context.Background(), record.ClockRecordID, "manager-1", &dto.ApproveClockRecordRequest{
		Notes: "情况属实，照常计薪",
	})
	if err != nil {
		t.Fatalf("Approve 失败: %v", err)
	}
	// 店员自述原因是审计证据，审批意见单独存放，不得覆盖
	if approved.VarianceReason != "家中有急事" {
		t.Errorf("variance_reason 被覆盖: %s", approved.VarianceReason)
	}
	if approved.ReviewNotes != "情况属实，照常计薪" {
		t.Errorf("审批意见未写入: %s", approved.ReviewNotes)
	}
}

func TestListPending(t *testing.T) {
	clockRepo := newMockClockRecordRepo()
	svc := NewApprovalService(clockRepo, zap.NewNop())
	ctx := context.Background()

	addPendingRecord(t, clockRepo, "staff-1", 8)
	record2 := addPendingRecord(t, clockRepo, "staff-2", 6)

	records, total, err := svc.ListPending(ctx, &dto.PendingApprovalListRequest{})
	if err != nil {
		t.Fatalf("ListPending 失败: %v", err)
	}
	if total != 2 || len(records) != 2 {
		t.Fatalf("期望 2 条待审批，实际: total=%d len=%d", total, len(records))
	}

	// 审批一条后队列缩短
	if _, err := svc.Approve(ctx, record2.ClockRecordID, "manager-1", &dto.ApproveClockRecordRequest{}); err != nil {
		t.Fatalf("Approve 失败: %v", err)
	}
	_, total, _ = svc.ListPending(ctx, &dto.PendingApprovalListRequest{})
	if total != 1 {
		t.Errorf("审批后应剩 1 条，实际: %d", total)
	}
}
