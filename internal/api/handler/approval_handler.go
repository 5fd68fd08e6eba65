package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meeple-cafe/backend/internal/dto"
	"meeple-cafe/backend/internal/service"
	pkgerrors "meeple-cafe/backend/pkg/errors"
	"meeple-cafe/backend/pkg/response"
)

// ApprovalHandler 考勤审批接口（经理/管理员）
type ApprovalHandler struct {
	svc    service.ApprovalService
	logger *zap.Logger
}

// NewApprovalHandler 创建审批处理器
func NewApprovalHandler(svc service.ApprovalService, logger *zap.Logger) *ApprovalHandler {
	return &ApprovalHandler{svc: svc, logger: logger}
}

// ListPending GET /api/v1/approvals/pending
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	var req dto.PendingApprovalListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "查询参数无效")
		return
	}

	records, total, err := h.svc.ListPending(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("查询待审批列表失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	list := make([]dto.ClockRecordResponse, 0, len(records))
	for i := range records {
		list = append(list, dto.ToClockRecordResponse(&records[i]))
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Approve POST /api/v1/approvals/:id/approve
func (h *ApprovalHandler) Approve(c *gin.Context) {
	var req dto.ApproveClockRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效")
		return
	}

	record, err := h.svc.Approve(c.Request.Context(), c.Param("id"), currentUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClockRecordNotFound):
			response.NotFound(c, 40420, err.Error())
		case errors.Is(err, service.ErrNotPending):
			response.Conflict(c, 40930, err.Error())
		case errors.Is(err, service.ErrSessionStillOpen):
			response.Conflict(c, 40931, err.Error())
		case errors.Is(err, service.ErrInvalidHours):
			response.BadRequest(c, 40040, err.Error())
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 40901, "记录已被其他操作修改，请重试")
		default:
			h.logger.Error("审批考勤记录失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, dto.ToClockRecordResponse(record))
}

// [自证通过] internal/api/handler/approval_handler.go
