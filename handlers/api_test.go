package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodbridge-api/config"
	"foodbridge-api/handlers"
	"foodbridge-api/lifecycle"
	"foodbridge-api/live"
	"foodbridge-api/models"
	"foodbridge-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupServer(t *testing.T) (*gin.Engine, *handlers.API) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.FoodRequest{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db

	hub := live.NewHub()
	t.Cleanup(hub.Close)
	api := handlers.New(lifecycle.NewEngine(db, hub), hub)

	r := gin.New()
	routes.SetupRoutes(r, api)
	return r, api
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func registerUser(t *testing.T, r *gin.Engine, name, email string, role models.UserRole) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no token in response", email)
	}
	return token
}

func TestEndToEndLifecycle(t *testing.T) {
	r, _ := setupServer(t)

	restaurant := registerUser(t, r, "Mario's Pizzeria", "mario@example.com", models.RoleRestaurant)
	ngo := registerUser(t, r, "Helping Hands", "hands@example.com", models.RoleNGO)

	// Restaurant posts a request.
	w := doJSON(t, r, http.MethodPost, "/api/restaurant/requests", restaurant, gin.H{
		"food_description": "20 sandwiches",
		"quantity":         "20 portions",
		"location":         "123 Main St",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", w.Code, w.Body.String())
	}
	created := decode(t, w)["request"].(map[string]interface{})
	requestID := created["id"].(string)
	if created["status"] != "pending" {
		t.Fatalf("expected pending, got %v", created["status"])
	}
	if created["restaurant_name"] != "Mario's Pizzeria" {
		t.Fatalf("expected name snapshot, got %v", created["restaurant_name"])
	}
	if _, set := created["accepted_by"]; set {
		t.Fatalf("expected no acceptor on new request, got %v", created["accepted_by"])
	}

	// Visible in the restaurant's own list and the NGO queue.
	w = doJSON(t, r, http.MethodGet, "/api/restaurant/requests", restaurant, nil)
	if w.Code != http.StatusOK || decode(t, w)["count"].(float64) != 1 {
		t.Fatalf("own list: status %d, body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/api/ngo/requests/pending", ngo, nil)
	if w.Code != http.StatusOK || decode(t, w)["count"].(float64) != 1 {
		t.Fatalf("pending list: status %d, body %s", w.Code, w.Body.String())
	}

	// NGO accepts.
	w = doJSON(t, r, http.MethodPut, "/api/ngo/requests/"+requestID+"/accept", ngo, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("accept: status %d, body %s", w.Code, w.Body.String())
	}
	accepted := decode(t, w)["request"].(map[string]interface{})
	if accepted["status"] != "accepted" || accepted["accepted_by_name"] != "Helping Hands" {
		t.Fatalf("unexpected accept result: %v", accepted)
	}

	// Gone from the queue, present in the NGO's accepted view.
	w = doJSON(t, r, http.MethodGet, "/api/ngo/requests/pending", ngo, nil)
	if decode(t, w)["count"].(float64) != 0 {
		t.Fatalf("expected empty pending queue, body %s", w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/api/ngo/requests/accepted", ngo, nil)
	if decode(t, w)["count"].(float64) != 1 {
		t.Fatalf("expected one accepted request, body %s", w.Body.String())
	}

	// NGO completes; the request stays in the accepted-or-completed view.
	w = doJSON(t, r, http.MethodPut, "/api/ngo/requests/"+requestID+"/complete", ngo, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status %d, body %s", w.Code, w.Body.String())
	}
	if decode(t, w)["request"].(map[string]interface{})["status"] != "completed" {
		t.Fatalf("expected completed, body %s", w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/api/ngo/requests/accepted", ngo, nil)
	if decode(t, w)["count"].(float64) != 1 {
		t.Fatalf("completed request should remain visible, body %s", w.Body.String())
	}

	// No longer actionable for acceptance.
	other := registerUser(t, r, "Second NGO", "second@example.com", models.RoleNGO)
	w = doJSON(t, r, http.MethodPut, "/api/ngo/requests/"+requestID+"/accept", other, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on late accept, got %d, body %s", w.Code, w.Body.String())
	}
}

func TestAcceptRace_LoserGetsConflict(t *testing.T) {
	r, _ := setupServer(t)

	restaurant := registerUser(t, r, "R", "r@example.com", models.RoleRestaurant)
	first := registerUser(t, r, "First NGO", "first@example.com", models.RoleNGO)
	second := registerUser(t, r, "Second NGO", "second@example.com", models.RoleNGO)

	w := doJSON(t, r, http.MethodPost, "/api/restaurant/requests", restaurant, gin.H{
		"food_description": "bread", "quantity": "5 loaves", "location": "depot",
	})
	requestID := decode(t, w)["request"].(map[string]interface{})["id"].(string)

	if w = doJSON(t, r, http.MethodPut, "/api/ngo/requests/"+requestID+"/accept", first, nil); w.Code != http.StatusOK {
		t.Fatalf("first accept: status %d", w.Code)
	}
	if w = doJSON(t, r, http.MethodPut, "/api/ngo/requests/"+requestID+"/accept", second, nil); w.Code != http.StatusConflict {
		t.Fatalf("expected conflict for losing NGO, got %d, body %s", w.Code, w.Body.String())
	}

	// The winner's claim is intact.
	w = doJSON(t, r, http.MethodGet, "/api/ngo/requests/accepted", first, nil)
	if decode(t, w)["count"].(float64) != 1 {
		t.Fatalf("winner lost their claim, body %s", w.Body.String())
	}
}

func TestRestaurantMayCompleteOwnAcceptedRequest(t *testing.T) {
	r, _ := setupServer(t)

	restaurant := registerUser(t, r, "R", "r@example.com", models.RoleRestaurant)
	ngo := registerUser(t, r, "N", "n@example.com", models.RoleNGO)

	w := doJSON(t, r, http.MethodPost, "/api/restaurant/requests", restaurant, gin.H{
		"food_description": "soup", "quantity": "10 l", "location": "kitchen",
	})
	requestID := decode(t, w)["request"].(map[string]interface{})["id"].(string)
	doJSON(t, r, http.MethodPut, "/api/ngo/requests/"+requestID+"/accept", ngo, nil)

	w = doJSON(t, r, http.MethodPut, "/api/restaurant/requests/"+requestID+"/complete", restaurant, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner complete: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestCompletePendingRejected(t *testing.T) {
	r, _ := setupServer(t)

	restaurant := registerUser(t, r, "R", "r@example.com", models.RoleRestaurant)
	w := doJSON(t, r, http.MethodPost, "/api/restaurant/requests", restaurant, gin.H{
		"food_description": "soup", "quantity": "10 l", "location": "kitchen",
	})
	requestID := decode(t, w)["request"].(map[string]interface{})["id"].(string)

	w = doJSON(t, r, http.MethodPut, "/api/restaurant/requests/"+requestID+"/complete", restaurant, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 completing a pending request, got %d, body %s", w.Code, w.Body.String())
	}
}

func TestRoleGates(t *testing.T) {
	r, _ := setupServer(t)

	ngo := registerUser(t, r, "N", "n@example.com", models.RoleNGO)

	// NGO may not use restaurant endpoints.
	w := doJSON(t, r, http.MethodPost, "/api/restaurant/requests", ngo, gin.H{
		"food_description": "x", "quantity": "y", "location": "z",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong role, got %d", w.Code)
	}

	// No token at all.
	w = doJSON(t, r, http.MethodGet, "/api/ngo/requests/pending", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestOnboarding_RoleSelectionOnce(t *testing.T) {
	r, _ := setupServer(t)

	// Register with no role: dashboards are closed until onboarding.
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Undecided", "email": "u@example.com", "password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d, body %s", w.Code, w.Body.String())
	}
	token := decode(t, w)["token"].(string)

	w = doJSON(t, r, http.MethodGet, "/api/ngo/requests/pending", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 before role selection, got %d", w.Code)
	}

	// Pick a role; a fresh token comes back with the role baked in.
	w = doJSON(t, r, http.MethodPost, "/api/profile/role", token, gin.H{"role": "ngo"})
	if w.Code != http.StatusOK {
		t.Fatalf("select role: status %d, body %s", w.Code, w.Body.String())
	}
	token = decode(t, w)["token"].(string)

	w = doJSON(t, r, http.MethodGet, "/api/ngo/requests/pending", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected access after role selection, got %d", w.Code)
	}

	// Role is immutable once set.
	w = doJSON(t, r, http.MethodPost, "/api/profile/role", token, gin.H{"role": "restaurant"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 changing role, got %d, body %s", w.Code, w.Body.String())
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r, _ := setupServer(t)

	registerUser(t, r, "R", "r@example.com", models.RoleRestaurant)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "r@example.com", "password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "r@example.com", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected login success, got %d, body %s", w.Code, w.Body.String())
	}
}
