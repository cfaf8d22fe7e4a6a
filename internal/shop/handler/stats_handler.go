package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/username-dz/joker/internal/shop/service"
)

// StatsHandler 统计处理器
type StatsHandler struct {
	svc *service.StatsService
}

func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Calculate 计算区间统计，日期缺省时取当天
// GET /api/statistics/calculate?start_date=2026-01-01&end_date=2026-01-31
func (h *StatsHandler) Calculate(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	stats, err := h.svc.Calculate(c.Request.Context(), startDate, endDate)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			BadRequest(c, err.Error())
			return
		}
		// 内部错误不透出细节，原因已在服务端记录
		InternalError(c, "Failed to calculate statistics")
		return
	}

	Success(c, stats)
}

// Export 导出统计报表
// GET /api/statistics/export?start_date=2026-01-01&end_date=2026-01-31
func (h *StatsHandler) Export(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	f, filename, err := h.svc.Export(c.Request.Context(), startDate, endDate)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			BadRequest(c, err.Error())
			return
		}
		InternalError(c, "Failed to export statistics")
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
