package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/username-dz/joker/internal/shop/repository"
	"github.com/username-dz/joker/internal/shop/service"
)

// ContactHandler 联系留言处理器
type ContactHandler struct {
	svc *service.ContactService
}

func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Create 提交留言（无需登录）
// POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var in service.CreateContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	contact, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		InternalError(c, "create contact failed: "+err.Error())
		return
	}

	Created(c, contact)
}

// List 分页查询留言
// GET /api/contacts?page=1&page_size=20
func (h *ContactHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	result, err := h.svc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		InternalError(c, "list contacts failed: "+err.Error())
		return
	}

	Success(c, result)
}

// Get 获取留言详情
// GET /api/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	contact, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Contact not found")
			return
		}
		InternalError(c, "get contact failed: "+err.Error())
		return
	}

	Success(c, contact)
}

// Delete 删除留言
// DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Contact not found")
			return
		}
		InternalError(c, "delete contact failed: "+err.Error())
		return
	}

	Success(c, gin.H{"status": "contact deleted"})
}

// MarkRead 标记留言为已读
// POST /api/contacts/:id/mark_as_read
func (h *ContactHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	_, err := h.svc.MarkRead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Contact not found")
			return
		}
		InternalError(c, "mark read failed: "+err.Error())
		return
	}

	Success(c, gin.H{"status": "message marked as read"})
}

// Unread 未读留言列表
// GET /api/contacts/unread
func (h *ContactHandler) Unread(c *gin.Context) {
	items, err := h.svc.ListUnread(c.Request.Context())
	if err != nil {
		InternalError(c, "list unread contacts failed: "+err.Error())
		return
	}
	Success(c, items)
}

// UnreadCount 未读留言数
// GET /api/contacts/unread_count
func (h *ContactHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.CountUnread(c.Request.Context())
	if err != nil {
		InternalError(c, "count unread contacts failed: "+err.Error())
		return
	}
	Success(c, gin.H{"unread_count": count})
}
