package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/username-dz/joker/internal/shop/repository"
	"github.com/username-dz/joker/internal/shop/service"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterRequest 注册请求体
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

// Register 注册用户并直接登录
// POST /api/users
func (h *AuthHandler) Register(c *gin.Context) {
	var body RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, tokens, err := h.svc.Register(c.Request.Context(), body.Email, body.Password, body.Name)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			BadRequest(c, err.Error())
			return
		}
		InternalError(c, "register failed: "+err.Error())
		return
	}

	Created(c, gin.H{"user": user, "tokens": tokens})
}

// LoginRequest 登录请求体
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 邮箱密码登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, tokens, err := h.svc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			Unauthorized(c, err.Error())
			return
		}
		InternalError(c, "login failed: "+err.Error())
		return
	}

	Success(c, gin.H{"user": user, "tokens": tokens})
}

// UserInfo 当前用户信息
// GET /api/auth/user-info
func (h *AuthHandler) UserInfo(c *gin.Context) {
	user, err := h.svc.UserInfo(c.Request.Context(), GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "User not found")
			return
		}
		InternalError(c, "get user info failed: "+err.Error())
		return
	}

	Success(c, gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"is_staff":     user.IsStaff,
		"is_superuser": user.IsSuperuser,
	})
}

// RefreshRequest 刷新token请求体
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh 刷新token对
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var body RefreshRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), body.RefreshToken)
	if err != nil {
		Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	Success(c, tokens)
}

// Logout 退出登录，作废refresh token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var body RefreshRequest
	if err := c.ShouldBindJSON(&body); err == nil && body.RefreshToken != "" {
		h.svc.Logout(c.Request.Context(), body.RefreshToken)
	}
	Success(c, gin.H{"status": "logged out"})
}
