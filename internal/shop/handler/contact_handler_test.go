package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/username-dz/joker/internal/shop/entity"
	"github.com/username-dz/joker/internal/shop/repository"
	"github.com/username-dz/joker/internal/shop/service"
	"github.com/username-dz/joker/internal/shop/testutil"
)

func setupContactTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repo := repository.NewContactRepository(db)
	svc := service.NewContactService(repo, nil)
	handler := NewContactHandler(svc)

	router := testutil.SetupRouter()
	router.POST("/api/contacts", handler.Create)
	api := testutil.AuthGroup(router, "/api/contacts")
	api.GET("", handler.List)
	api.GET("/unread", handler.Unread)
	api.GET("/unread_count", handler.UnreadCount)
	api.GET("/:id", handler.Get)
	api.DELETE("/:id", handler.Delete)
	api.POST("/:id/mark_as_read", handler.MarkRead)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func createContact(t *testing.T, env *testutil.TestEnv, fullName string) uint {
	t.Helper()
	body := map[string]interface{}{
		"fullName":    fullName,
		"email":       "visitor@example.com",
		"phoneNumber": "0666123456",
		"message":     "Do you print on hoodies?",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/contacts", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}

func TestCreateContactPublic(t *testing.T) {
	env := setupContactTest(t)

	id := createContact(t, env, "Amine B")

	var got entity.Contact
	env.DB.Where("id = ?", id).First(&got)
	if got.Read {
		t.Fatal("new contact must start unread")
	}
	if got.FullName != "Amine B" {
		t.Fatalf("expected full name persisted, got %q", got.FullName)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("expected timestamp set on create")
	}
}

func TestCreateContactMissingFields(t *testing.T) {
	env := setupContactTest(t)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/contacts",
		map[string]interface{}{"fullName": "No Email"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestContactUnreadFlow(t *testing.T) {
	env := setupContactTest(t)
	token := testutil.DefaultTestToken()

	first := createContact(t, env, "First")
	createContact(t, env, "Second")

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/contacts/unread_count", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["unread_count"].(float64) != 2 {
		t.Fatalf("expected unread_count 2, got %v", data["unread_count"])
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, fmt.Sprintf("/api/contacts/%d/mark_as_read", first), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/contacts/unread", nil, token)
	resp = testutil.ParseResponse(w)
	items := resp["data"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 unread contact, got %d", len(items))
	}
	remaining := items[0].(map[string]interface{})
	if remaining["fullName"] != "Second" {
		t.Fatalf("expected Second still unread, got %v", remaining["fullName"])
	}
}

func TestContactListPagination(t *testing.T) {
	env := setupContactTest(t)
	token := testutil.DefaultTestToken()

	for i := 0; i < 25; i++ {
		createContact(t, env, fmt.Sprintf("Visitor %d", i))
	}

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/contacts?page=2&page_size=10", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["count"].(float64) != 25 {
		t.Fatalf("expected count 25, got %v", data["count"])
	}
	if data["total_pages"].(float64) != 3 {
		t.Fatalf("expected total_pages 3, got %v", data["total_pages"])
	}
	results := data["results"].([]interface{})
	if len(results) != 10 {
		t.Fatalf("expected 10 results on page 2, got %d", len(results))
	}
}

func TestContactDelete(t *testing.T) {
	env := setupContactTest(t)
	token := testutil.DefaultTestToken()

	id := createContact(t, env, "Gone Soon")

	w := testutil.DoRequest(env.Router, http.MethodDelete, fmt.Sprintf("/api/contacts/%d", id), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, fmt.Sprintf("/api/contacts/%d", id), nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}
