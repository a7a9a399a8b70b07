package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// CapabilityManageBooks 管理图书所需的权限
const CapabilityManageBooks = "manage_books"

// Context键
const (
	ctxKeyClaims = "claims"
	ctxKeyToken  = "token"
)

// TokenBlacklist 已登出Token查询(由Redis会话存储实现)
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware 后台会话认证中间件
// 设计说明：
// 1. Token优先从会话Cookie读取，其次是Authorization: Bearer头
// 2. 验证签名与有效期，检查黑名单（blacklist为nil时跳过）
// 3. 将Claims注入Context，RequireCapability在此基础上做权限判断
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
	cookieName string
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
		cookieName: cookieName,
	}
}

// RequireAuth 要求有效的后台会话
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCapability 要求会话持有指定权限
// 未登录返回401，已登录但缺少权限返回403
func (m *AuthMiddleware) RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			c.Abort()
			return
		}

		if !GetClaims(c).Can(capability) {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// authenticate 校验Token并注入Claims，失败时已写入响应
func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	token := m.extractToken(c)
	if token == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return false
	}

	if m.blacklist != nil {
		revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return false
		}
		if revoked {
			response.Error(c, apperrors.ErrInvalidToken)
			return false
		}
	}

	claims, err := m.jwtManager.ParseToken(token)
	if err != nil {
		response.Error(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
		return false
	}

	c.Set(ctxKeyClaims, claims)
	c.Set(ctxKeyToken, token)
	return true
}

// extractToken Cookie优先，其次Bearer头
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetClaims 获取当前会话Claims，未认证时返回空Claims
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, exists := c.Get(ctxKeyClaims); exists {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return &jwt.Claims{}
}

// GetUsername 当前后台用户名，匿名为空串
func GetUsername(c *gin.Context) string {
	return GetClaims(c).Username
}

// GetToken 当前请求使用的会话Token
func GetToken(c *gin.Context) string {
	return c.GetString(ctxKeyToken)
}
