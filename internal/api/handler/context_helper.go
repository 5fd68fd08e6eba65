package handler

import (
	"github.com/gin-gonic/gin"

	"meeple-cafe/backend/internal/api/middleware"
	"meeple-cafe/backend/internal/model"
	"meeple-cafe/backend/pkg/jwt"
)

// currentUserID 当前登录店员 ID（由 JWTAuth 注入）
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

// currentRole 当前登录角色
func currentRole(c *gin.Context) string {
	return c.GetString(middleware.CtxRole)
}

// currentClaims 当前 Token 声明
func currentClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(middleware.CtxClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// isReviewer 是否具备审批/管理权限
func isReviewer(c *gin.Context) bool {
	role := currentRole(c)
	return role == model.RoleAdmin || role == model.RoleManager
}

// canAccessStaff 本人或管理者可访问
func canAccessStaff(c *gin.Context, staffID string) bool {
	return staffID == currentUserID(c) || isReviewer(c)
}
