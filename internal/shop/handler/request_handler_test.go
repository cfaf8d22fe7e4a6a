package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/username-dz/joker/internal/shop/entity"
	"github.com/username-dz/joker/internal/shop/repository"
	"github.com/username-dz/joker/internal/shop/service"
	"github.com/username-dz/joker/internal/shop/testutil"
	"go.uber.org/zap"
)

func setupRequestTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repo := repository.NewRequestRepository(db)
	imageSvc := service.NewImageService(nil, "test-bucket", zap.NewNop())
	svc := service.NewRequestService(repo, imageSvc, zap.NewNop())
	handler := NewRequestHandler(svc)

	router := testutil.SetupRouter()
	router.POST("/api/requests", handler.Create)
	api := testutil.AuthGroup(router, "/api/requests")
	api.GET("", handler.List)
	api.GET("/unseen", handler.Unseen)
	api.GET("/pending", handler.Pending)
	api.GET("/:id", handler.Get)
	api.POST("/:id/mark_seen", handler.MarkSeen)
	api.POST("/:id/mark_delivered", handler.MarkDelivered)
	api.POST("/:id/update_status", handler.UpdateStatus)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestCreateRequestDefaults(t *testing.T) {
	env := setupRequestTest(t)

	body := map[string]interface{}{
		"article": "t_shirt",
		"size":    "L",
		"phone":   "0555123456",
		"city":    "Algiers",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/requests", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["state"] != "unseen" {
		t.Fatalf("expected state unseen, got %v", data["state"])
	}
	if data["is_seen"].(bool) {
		t.Fatal("expected is_seen false")
	}
	if data["is_delivered"].(bool) {
		t.Fatal("expected is_delivered false")
	}
	if data["color"] != "white" {
		t.Fatalf("expected default color white, got %v", data["color"])
	}
	if data["quantity"].(float64) != 1 {
		t.Fatalf("expected default quantity 1, got %v", data["quantity"])
	}
}

func TestCreateRequestInvalidArticle(t *testing.T) {
	env := setupRequestTest(t)

	body := map[string]interface{}{"article": "poster"}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/requests", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

// A broken base64 payload must not block record creation; the image slot
// just stays empty.
func TestCreateRequestMalformedBase64(t *testing.T) {
	env := setupRequestTest(t)

	body := map[string]interface{}{
		"article":    "mug",
		"frontImage": "image/png;base64,***definitely-not-base64***",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/requests", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if url, ok := data["front_image"].(string); ok && url != "" {
		t.Fatalf("expected empty front image slot, got %q", url)
	}
}

func TestMarkSeenIdempotent(t *testing.T) {
	env := setupRequestTest(t)
	token := testutil.DefaultTestToken()

	req := testutil.SeedRequest(t, env.DB)
	path := fmt.Sprintf("/api/requests/%d/mark_seen", req.ID)

	for i := 0; i < 2; i++ {
		w := testutil.DoRequest(env.Router, http.MethodPost, path, nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d: %s", i+1, w.Code, w.Body.String())
		}
	}

	var got entity.Request
	env.DB.Where("id = ?", req.ID).First(&got)
	if !got.IsSeen {
		t.Fatal("expected is_seen true")
	}
	if got.State != entity.StateSeen {
		t.Fatalf("expected state seen, got %q", got.State)
	}
}

func TestMarkDeliveredKeepsState(t *testing.T) {
	env := setupRequestTest(t)
	token := testutil.DefaultTestToken()

	req := testutil.SeedRequest(t, env.DB, func(r *entity.Request) {
		r.State = entity.StateProgress
	})

	w := testutil.DoRequest(env.Router, http.MethodPost, fmt.Sprintf("/api/requests/%d/mark_delivered", req.ID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got entity.Request
	env.DB.Where("id = ?", req.ID).First(&got)
	if !got.IsDelivered {
		t.Fatal("expected is_delivered true")
	}
	if got.State != entity.StateProgress {
		t.Fatalf("expected state unchanged (progress), got %q", got.State)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	env := setupRequestTest(t)
	token := testutil.DefaultTestToken()

	req := testutil.SeedRequest(t, env.DB)

	w := testutil.DoRequest(env.Router, http.MethodPost,
		fmt.Sprintf("/api/requests/%d/update_status", req.ID),
		map[string]interface{}{"status": "shipped"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// Record must be left unchanged
	var got entity.Request
	env.DB.Where("id = ?", req.ID).First(&got)
	if got.State != entity.StateUnseen {
		t.Fatalf("expected state unchanged (unseen), got %q", got.State)
	}
}

func TestUpdateStatusValidValue(t *testing.T) {
	env := setupRequestTest(t)
	token := testutil.DefaultTestToken()

	req := testutil.SeedRequest(t, env.DB)

	w := testutil.DoRequest(env.Router, http.MethodPost,
		fmt.Sprintf("/api/requests/%d/update_status", req.ID),
		map[string]interface{}{"status": "progress"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got entity.Request
	env.DB.Where("id = ?", req.ID).First(&got)
	if got.State != entity.StateProgress {
		t.Fatalf("expected state progress, got %q", got.State)
	}
	if got.IsSeen || got.IsDelivered {
		t.Fatal("update_status must not touch is_seen/is_delivered")
	}
}

func TestListPagination(t *testing.T) {
	env := setupRequestTest(t)
	token := testutil.DefaultTestToken()

	for i := 0; i < 45; i++ {
		testutil.SeedRequest(t, env.DB, func(r *entity.Request) {
			r.CreationDate = time.Now().Add(-time.Duration(i) * time.Minute)
		})
	}

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/requests?page=1&page_size=20", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	results := data["results"].([]interface{})
	if len(results) != 20 {
		t.Fatalf("expected 20 results, got %d", len(results))
	}
	if data["count"].(float64) != 45 {
		t.Fatalf("expected count 45, got %v", data["count"])
	}
	if data["total_pages"].(float64) != 3 {
		t.Fatalf("expected total_pages 3, got %v", data["total_pages"])
	}

	// Ordered by creation date descending: the most recent row comes first
	first := results[0].(map[string]interface{})
	last := results[19].(map[string]interface{})
	if first["creation_date"].(string) < last["creation_date"].(string) {
		t.Fatal("expected creation_date descending order")
	}
}

func TestFilteredStateView(t *testing.T) {
	env := setupRequestTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedRequest(t, env.DB)
	testutil.SeedRequest(t, env.DB, func(r *entity.Request) { r.State = entity.StatePending })
	testutil.SeedRequest(t, env.DB, func(r *entity.Request) { r.State = entity.StatePending })

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/requests/pending", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	items := resp["data"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 pending requests, got %d", len(items))
	}
}

func TestGetRequestDerivedFirstVisit(t *testing.T) {
	env := setupRequestTest(t)
	token := testutil.DefaultTestToken()

	req := testutil.SeedRequest(t, env.DB, func(r *entity.Request) {
		r.UUID = "1773570600000-visitor"
	})

	w := testutil.DoRequest(env.Router, http.MethodGet, fmt.Sprintf("/api/requests/%d", req.ID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if _, ok := data["first_visit_date"].(string); !ok {
		t.Fatalf("expected derived first_visit_date in response, got %v", data["first_visit_date"])
	}
}

func TestRequestEndpointsRequireAuth(t *testing.T) {
	env := setupRequestTest(t)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/requests", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
