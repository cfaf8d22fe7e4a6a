package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 统计错误
var (
	ErrStatsFailed = errors.New("failed to calculate statistics")
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

// StatsService 订单统计服务
type StatsService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStatsService(db *gorm.DB, logger *zap.Logger) *StatsService {
	return &StatsService{db: db, logger: logger}
}

// Statistics 统计结果
type Statistics struct {
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	TotalRequests      int64   `json:"total_requests"`
	UnseenRequests     int64   `json:"unseen_requests"`
	SeenRequests       int64   `json:"seen_requests"`
	PendingRequests    int64   `json:"pending_requests"`
	InProgressRequests int64   `json:"in_progress_requests"`
	FinishedRequests   int64   `json:"finished_requests"`
	DeliveredRequests  int64   `json:"delivered_requests"`
	ConversionRate     float64 `json:"conversion_rate"`
	TotalRevenue       int64   `json:"total_revenue"`
	RepetitionsCount   int64   `json:"repetitions_count"`
	TopArticle         string  `json:"top_article"`
	TopColor           string  `json:"top_color"`
}

// Calculate 统计给定日期区间（按天，闭区间）内的订单指标。
// 任一边界缺失时整个区间退化为当天。
func (s *StatsService) Calculate(ctx context.Context, startDate, endDate string) (*Statistics, error) {
	if startDate == "" || endDate == "" {
		today := time.Now().Format(dateLayout)
		startDate, endDate = today, today
	}

	start, err := time.ParseInLocation(dateLayout, startDate, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	// 闭区间：end日全天包含在内
	until := end.AddDate(0, 0, 1)

	stats := &Statistics{StartDate: startDate, EndDate: endDate}

	row := s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN state = 'unseen' THEN 1 END) AS unseen,
			COUNT(CASE WHEN state = 'seen' THEN 1 END) AS seen,
			COUNT(CASE WHEN state = 'pending' THEN 1 END) AS pending,
			COUNT(CASE WHEN state = 'progress' THEN 1 END) AS progress,
			COUNT(CASE WHEN state = 'finished' THEN 1 END) AS finished,
			COUNT(CASE WHEN is_delivered THEN 1 END) AS delivered,
			COALESCE(SUM(CASE WHEN state IN ('finished', 'delivered') THEN price END), 0) AS revenue,
			COALESCE(SUM(repetitions), 0) AS repetitions
		FROM requests
		WHERE creation_date >= ? AND creation_date < ?
	`, start, until).Row()

	if err := row.Scan(
		&stats.TotalRequests,
		&stats.UnseenRequests,
		&stats.SeenRequests,
		&stats.PendingRequests,
		&stats.InProgressRequests,
		&stats.FinishedRequests,
		&stats.DeliveredRequests,
		&stats.TotalRevenue,
		&stats.RepetitionsCount,
	); err != nil {
		s.logger.Error("calculate statistics failed",
			zap.String("start_date", startDate),
			zap.String("end_date", endDate),
			zap.Error(err),
		)
		return nil, ErrStatsFailed
	}

	if stats.TotalRequests > 0 {
		stats.ConversionRate = float64(stats.FinishedRequests+stats.DeliveredRequests) / float64(stats.TotalRequests) * 100
	}

	stats.TopArticle = s.topValue(ctx, "article", start, until)
	stats.TopColor = s.topValue(ctx, "color", start, until)

	return stats, nil
}

// topValue 取区间内出现次数最多的字段值，并列时按字典序取最小，失败返回空串
func (s *StatsService) topValue(ctx context.Context, column string, from, until time.Time) string {
	var value string
	query := fmt.Sprintf(`
		SELECT %s FROM requests
		WHERE creation_date >= ? AND creation_date < ?
		GROUP BY %s
		ORDER BY COUNT(*) DESC, %s ASC
		LIMIT 1
	`, column, column, column)

	if err := s.db.WithContext(ctx).Raw(query, from, until).Scan(&value).Error; err != nil {
		s.logger.Warn("top value aggregation failed", zap.String("column", column), zap.Error(err))
		return ""
	}
	return value
}

// Export 导出统计报表为xlsx
func (s *StatsService) Export(ctx context.Context, startDate, endDate string) (*excelize.File, string, error) {
	stats, err := s.Calculate(ctx, startDate, endDate)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Statistics"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	f.SetCellValue(sheet, "A1", "Metric")
	f.SetCellValue(sheet, "B1", "Value")
	f.SetCellStyle(sheet, "A1", "B1", boldStyle)
	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "B", 18)

	rows := []struct {
		Name  string
		Value interface{}
	}{
		{"Period", stats.StartDate + " ~ " + stats.EndDate},
		{"Total requests", stats.TotalRequests},
		{"Unseen", stats.UnseenRequests},
		{"Seen", stats.SeenRequests},
		{"Pending", stats.PendingRequests},
		{"In progress", stats.InProgressRequests},
		{"Finished", stats.FinishedRequests},
		{"Delivered", stats.DeliveredRequests},
		{"Conversion rate (%)", stats.ConversionRate},
		{"Total revenue", stats.TotalRevenue},
		{"Repetitions", stats.RepetitionsCount},
		{"Top article", stats.TopArticle},
		{"Top color", stats.TopColor},
	}
	for i, r := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), r.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), r.Value)
	}

	filename := fmt.Sprintf("statistics_%s_%s.xlsx", stats.StartDate, stats.EndDate)
	return f, filename, nil
}
