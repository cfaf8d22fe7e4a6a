package service

import (
	"context"
	"testing"
	"time"

	"github.com/username-dz/joker/internal/shop/entity"
	"github.com/username-dz/joker/internal/shop/testutil"
	"go.uber.org/zap"
)

func seedStatsRequest(t *testing.T, env *testutil.TestEnv, state string, delivered bool, price, repetitions int, article, color string, created time.Time) {
	t.Helper()
	req := &entity.Request{
		Article:      article,
		Color:        color,
		Quantity:     1,
		State:        state,
		IsDelivered:  delivered,
		Price:        price,
		Repetitions:  repetitions,
		CreationDate: created,
	}
	if err := env.DB.Create(req).Error; err != nil {
		t.Fatalf("Failed to seed request: %v", err)
	}
}

// Conversion rate counts finished states and delivered flags as two
// independent axes: total=10, finished=3, delivered=2 → 50%.
func TestStatisticsConversionRate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	env := &testutil.TestEnv{DB: db, T: t}
	svc := NewStatsService(db, zap.NewNop())

	now := time.Now()
	day := now.Format("2006-01-02")

	// 3 finished (not delivered)
	for i := 0; i < 3; i++ {
		seedStatsRequest(t, env, entity.StateFinished, false, 100, 0, entity.ArticleTShirt, "white", now)
	}
	// 2 delivered while still in progress
	for i := 0; i < 2; i++ {
		seedStatsRequest(t, env, entity.StateProgress, true, 500, 0, entity.ArticleMug, "black", now)
	}
	// 5 unseen
	for i := 0; i < 5; i++ {
		seedStatsRequest(t, env, entity.StateUnseen, false, 200, 1, entity.ArticleTShirt, "white", now)
	}

	stats, err := svc.Calculate(context.Background(), day, day)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if stats.TotalRequests != 10 {
		t.Fatalf("expected 10 total, got %d", stats.TotalRequests)
	}
	if stats.FinishedRequests != 3 {
		t.Fatalf("expected 3 finished, got %d", stats.FinishedRequests)
	}
	if stats.DeliveredRequests != 2 {
		t.Fatalf("expected 2 delivered, got %d", stats.DeliveredRequests)
	}
	if stats.ConversionRate != 50.0 {
		t.Fatalf("expected conversion rate 50.0, got %v", stats.ConversionRate)
	}

	// Revenue only matches the 'finished' state: "delivered" is not a state
	// value, so the delivered-in-progress rows contribute nothing.
	if stats.TotalRevenue != 300 {
		t.Fatalf("expected revenue 300, got %d", stats.TotalRevenue)
	}

	// Repetitions sum over the whole window, not state-restricted
	if stats.RepetitionsCount != 5 {
		t.Fatalf("expected repetitions 5, got %d", stats.RepetitionsCount)
	}

	if stats.TopArticle != entity.ArticleTShirt {
		t.Fatalf("expected top article t_shirt, got %q", stats.TopArticle)
	}
	if stats.TopColor != "white" {
		t.Fatalf("expected top color white, got %q", stats.TopColor)
	}
}

func TestStatisticsEmptyWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewStatsService(db, zap.NewNop())

	stats, err := svc.Calculate(context.Background(), "2001-01-01", "2001-01-02")
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if stats.TotalRequests != 0 {
		t.Fatalf("expected 0 total, got %d", stats.TotalRequests)
	}
	if stats.ConversionRate != 0 {
		t.Fatalf("expected conversion rate 0, got %v", stats.ConversionRate)
	}
	if stats.TotalRevenue != 0 {
		t.Fatalf("expected revenue 0, got %d", stats.TotalRevenue)
	}
	if stats.TopArticle != "" || stats.TopColor != "" {
		t.Fatalf("expected empty top values, got %q / %q", stats.TopArticle, stats.TopColor)
	}
}

// The date window is inclusive on both ends and compares by day only.
func TestStatisticsWindowBounds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	env := &testutil.TestEnv{DB: db, T: t}
	svc := NewStatsService(db, zap.NewNop())

	now := time.Now()
	inWindow := now.AddDate(0, 0, -1)
	outOfWindow := now.AddDate(0, 0, -10)

	seedStatsRequest(t, env, entity.StateUnseen, false, 0, 0, entity.ArticleMug, "red", inWindow)
	seedStatsRequest(t, env, entity.StateUnseen, false, 0, 0, entity.ArticleMug, "red", outOfWindow)

	start := inWindow.Format("2006-01-02")
	end := now.Format("2006-01-02")

	stats, err := svc.Calculate(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if stats.TotalRequests != 1 {
		t.Fatalf("expected 1 request in window, got %d", stats.TotalRequests)
	}
}

func TestStatisticsInvalidDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewStatsService(db, zap.NewNop())

	if _, err := svc.Calculate(context.Background(), "01/02/2026", "2026-02-01"); err != ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
