package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/username-dz/joker/internal/shop/repository"
	"github.com/username-dz/joker/internal/shop/service"
)

// RequestHandler 订单请求处理器
type RequestHandler struct {
	svc *service.RequestService
}

func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// Create 创建订单请求（无需登录）。
// 支持multipart表单（front_image/back_image文件）和JSON（frontImage/backImage base64）。
// POST /api/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var in service.CreateRequestInput
	var front, back *service.ImageUpload

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&in); err != nil {
			BadRequest(c, "Invalid form data: "+err.Error())
			return
		}
		if fh, err := c.FormFile("front_image"); err == nil {
			f, err := fh.Open()
			if err == nil {
				defer f.Close()
				front = &service.ImageUpload{Reader: f, Size: fh.Size, ContentType: fh.Header.Get("Content-Type")}
			}
		}
		if fh, err := c.FormFile("back_image"); err == nil {
			f, err := fh.Open()
			if err == nil {
				defer f.Close()
				back = &service.ImageUpload{Reader: f, Size: fh.Size, ContentType: fh.Header.Get("Content-Type")}
			}
		}
	} else {
		if err := c.ShouldBindJSON(&in); err != nil {
			BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	req, err := h.svc.Create(c.Request.Context(), &in, front, back)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArticle) || errors.Is(err, service.ErrInvalidSize) {
			BadRequest(c, err.Error())
			return
		}
		InternalError(c, "create request failed: "+err.Error())
		return
	}

	Created(c, req)
}

// List 分页查询订单请求
// GET /api/requests?page=1&page_size=20&state=pending
func (h *RequestHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	state := c.Query("state")

	result, err := h.svc.List(c.Request.Context(), page, pageSize, state)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			BadRequest(c, "Invalid status")
			return
		}
		InternalError(c, "list requests failed: "+err.Error())
		return
	}

	Success(c, result)
}

// Get 获取订单请求详情
// GET /api/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	req, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Request not found")
			return
		}
		InternalError(c, "get request failed: "+err.Error())
		return
	}

	Success(c, req)
}

// Delete 删除订单请求
// DELETE /api/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Request not found")
			return
		}
		InternalError(c, "delete request failed: "+err.Error())
		return
	}

	Success(c, gin.H{"status": "request deleted"})
}

// MarkSeen 标记为已查看
// POST /api/requests/:id/mark_seen
func (h *RequestHandler) MarkSeen(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	req, err := h.svc.MarkSeen(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Request not found")
			return
		}
		InternalError(c, "mark seen failed: "+err.Error())
		return
	}

	Success(c, gin.H{
		"status":  "request marked as seen",
		"is_seen": req.IsSeen,
		"state":   req.State,
	})
}

// MarkDelivered 标记为已交付
// POST /api/requests/:id/mark_delivered
func (h *RequestHandler) MarkDelivered(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	_, err := h.svc.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Request not found")
			return
		}
		InternalError(c, "mark delivered failed: "+err.Error())
		return
	}

	Success(c, gin.H{"status": "request marked as delivered"})
}

// UpdateStatusRequest 状态更新请求体
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 更新订单状态
// POST /api/requests/:id/update_status
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	req, err := h.svc.UpdateStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			BadRequest(c, "Invalid status")
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Request not found")
			return
		}
		InternalError(c, "update status failed: "+err.Error())
		return
	}

	Success(c, gin.H{"status": "request status updated to " + req.State})
}

// Unseen 未查看订单列表
// GET /api/requests/unseen
func (h *RequestHandler) Unseen(c *gin.Context) {
	h.listByState(c, "unseen")
}

// Pending 待处理订单列表
// GET /api/requests/pending
func (h *RequestHandler) Pending(c *gin.Context) {
	h.listByState(c, "pending")
}

// Progress 制作中订单列表
// GET /api/requests/progress
func (h *RequestHandler) Progress(c *gin.Context) {
	h.listByState(c, "progress")
}

// Finished 已完成订单列表
// GET /api/requests/finished
func (h *RequestHandler) Finished(c *gin.Context) {
	h.listByState(c, "finished")
}

func (h *RequestHandler) listByState(c *gin.Context, state string) {
	items, err := h.svc.ListByState(c.Request.Context(), state)
	if err != nil {
		InternalError(c, "list requests failed: "+err.Error())
		return
	}
	Success(c, items)
}
