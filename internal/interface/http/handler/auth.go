package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// SessionStore 后台会话记录(由Redis实现，未启用Redis时为nil)
type SessionStore interface {
	SaveSession(ctx context.Context, username string, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, username string) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// AuthHandler 后台登录/登出
// 设计说明：
// 1. 后台账号来自配置(admin.users)，密码为bcrypt哈希
// 2. 登录成功签发JWT，写入HttpOnly会话Cookie，同时在响应体返回(供脚本使用Bearer头)
// 3. 登出时Token进入黑名单直到自然过期
type AuthHandler struct {
	users      config.AdminConfig
	jwtManager *jwt.Manager
	sessions   SessionStore
	cookieName string
	secure     bool
}

// NewAuthHandler 创建登录处理器
func NewAuthHandler(cfg *config.Config, jwtManager *jwt.Manager, sessions SessionStore) *AuthHandler {
	return &AuthHandler{
		users:      cfg.Admin,
		jwtManager: jwtManager,
		sessions:   sessions,
		cookieName: cfg.JWT.CookieName,
		secure:     cfg.Server.Mode == "release",
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy 用户不存在时也做一次bcrypt比较，避免通过响应时间枚举用户名
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bookshelf-dummy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login 后台登录
// @Summary      后台登录
// @Description  校验用户名密码，签发会话Token并写入Cookie
// @Tags         后台
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "用户名或密码错误"
// @Router       /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	user, ok := h.users.FindUser(req.Username)
	if !ok {
		compareDummy(req.Password)
		response.Error(c, apperrors.ErrInvalidPassword)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		response.Error(c, apperrors.ErrInvalidPassword)
		return
	}

	session, err := h.jwtManager.GenerateToken(user.Username, user.Capabilities)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.sessions != nil {
		data := map[string]interface{}{
			"login_at": time.Now().Format(time.RFC3339),
			"ip":       c.ClientIP(),
		}
		if err := h.sessions.SaveSession(c.Request.Context(), user.Username, data, h.jwtManager.Expire()); err != nil {
			// 会话记录只用于审计，失败不阻止登录
			zap.L().Warn("保存会话失败", zap.String("username", user.Username), zap.Error(err))
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, session.Token, int(h.jwtManager.Expire().Seconds()), "/", "", h.secure, true)

	response.Success(c, &dto.LoginResponse{
		Username:     user.Username,
		Capabilities: user.Capabilities,
		Token:        session.Token,
		ExpiresAt:    session.ExpiresAt.Format("2006-01-02 15:04:05"),
	})
}

// Logout 后台登出
// @Summary      后台登出
// @Description  当前会话Token加入黑名单并清除Cookie
// @Tags         后台
// @Produce      json
// @Security     CookieAuth
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Router       /admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)

	if h.sessions != nil {
		ttl := time.Duration(0)
		if claims.ExpiresAt != nil {
			ttl = time.Until(claims.ExpiresAt.Time)
		}
		if err := h.sessions.AddToBlacklist(c.Request.Context(), middleware.GetToken(c), ttl); err != nil {
			response.Error(c, err)
			return
		}
		if err := h.sessions.DeleteSession(c.Request.Context(), claims.Username); err != nil {
			zap.L().Warn("删除会话失败", zap.String("username", claims.Username), zap.Error(err))
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secure, true)
	response.Success(c, nil)
}
