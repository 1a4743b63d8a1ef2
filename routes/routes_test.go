package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/agriconnect/cache"
	"github.com/anjiri1684/agriconnect/handlers"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/notifications"
	"github.com/anjiri1684/agriconnect/reference"
	"github.com/anjiri1684/agriconnect/repository"
	"github.com/anjiri1684/agriconnect/revocation"
	"github.com/anjiri1684/agriconnect/services"
	"github.com/anjiri1684/agriconnect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Monday 3 June 2024, 08:00 UTC.
var testNow = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

type testApp struct {
	app   *fiber.App
	store *repository.MemoryStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewMemoryStore()

	expertCache, err := cache.NewExpertCache(true, 16, logger)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	catalog, err := reference.Load()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	uploads, err := services.NewUploadService("", "agriconnect", nil)
	if err != nil {
		t.Fatalf("uploads: %v", err)
	}
	hub := websocket.NewHub(logger)
	notifier := notifications.Noop{}

	h := handlers.New(handlers.Handler{
		Auth: services.NewAuthService(store.Users(), revocation.NewMemoryDenylist(), logger, services.AuthOptions{
			Secret:   []byte("test-secret"),
			TokenTTL: time.Hour,
		}),
		Experts: services.NewExpertService(store.Experts(), expertCache, notifier, logger),
		Bookings: services.NewBookingService(store.Bookings(), store.Experts(), notifier, hub, logger, services.BookingOptions{
			CancellationWindow: 24 * time.Hour,
			Location:           time.UTC,
			Now:                func() time.Time { return testNow },
		}),
		Reviews: services.NewReviewService(store.Bookings(), store.Reviews(), expertCache, logger),
		Uploads: uploads,
		Catalog: catalog,
		Hub:     hub,
		Logger:  logger,
	})

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(logger)})
	Register(app, h)
	return &testApp{app: app, store: store}
}

func (ta *testApp) do(t *testing.T, method, path string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	} else if len(raw) > 0 {
		out["items"] = json.RawMessage(raw)
	}
	return resp.StatusCode, out
}

func (ta *testApp) signUpAndIn(t *testing.T, email, userType string) string {
	t.Helper()
	status, _ := ta.do(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"full_name": "Amina Bello",
		"email":     email,
		"password":  "secret123",
		"user_type": userType,
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("sign up %s: status %d", email, status)
	}
	return ta.signIn(t, email)
}

func (ta *testApp) signIn(t *testing.T, email string) string {
	t.Helper()
	status, body := ta.do(t, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email":    email,
		"password": "secret123",
	}, "")
	if status != http.StatusOK {
		t.Fatalf("sign in %s: status %d %v", email, status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("sign in %s: no token in %v", email, body)
	}
	return token
}

func TestHealth(t *testing.T) {
	ta := newTestApp(t)
	status, body := ta.do(t, http.MethodGet, "/health", nil, "")
	if status != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response %d %v", status, body)
	}
}

func TestAuthFlow(t *testing.T) {
	ta := newTestApp(t)
	token := ta.signUpAndIn(t, "amina@example.com", "")

	status, body := ta.do(t, http.MethodGet, "/api/v1/auth/me", nil, token)
	if status != http.StatusOK {
		t.Fatalf("me: status %d", status)
	}
	user, _ := body["user"].(map[string]interface{})
	meta, _ := user["user_metadata"].(map[string]interface{})
	if user["email"] != "amina@example.com" || meta["user_type"] != "farmer" {
		t.Fatalf("unexpected me body %v", body)
	}

	if status, _ := ta.do(t, http.MethodPost, "/api/v1/auth/signout", nil, token); status != http.StatusOK {
		t.Fatalf("sign out: status %d", status)
	}
	if status, _ := ta.do(t, http.MethodGet, "/api/v1/auth/me", nil, token); status != http.StatusUnauthorized {
		t.Fatalf("revoked token accepted: status %d", status)
	}
}

func TestSignUpDuplicateAndInvalid(t *testing.T) {
	ta := newTestApp(t)
	ta.signUpAndIn(t, "amina@example.com", "")

	status, body := ta.do(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"full_name": "Amina Bello",
		"email":     "amina@example.com",
		"password":  "secret123",
	}, "")
	if status != http.StatusConflict || body["status"] != "error" {
		t.Fatalf("expected 409, got %d %v", status, body)
	}

	status, _ = ta.do(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"full_name": "X",
		"email":     "not-an-email",
		"password":  "1",
	}, "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}

	status, _ = ta.do(t, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email":    "amina@example.com",
		"password": "wrong-password",
	}, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ta := newTestApp(t)
	for _, path := range []string{"/api/v1/bookings/me", "/api/v1/profile/me", "/api/v1/expert/bookings"} {
		status, body := ta.do(t, http.MethodGet, path, nil, "")
		if status != http.StatusUnauthorized || body["status"] != "error" {
			t.Fatalf("%s: expected 401, got %d %v", path, status, body)
		}
	}
	if status, _ := ta.do(t, http.MethodGet, "/api/v1/bookings/me", nil, "garbage"); status != http.StatusUnauthorized {
		t.Fatalf("malformed token accepted: status %d", status)
	}
}

func TestBookingLifecycle(t *testing.T) {
	ta := newTestApp(t)
	expert := ta.store.PutExpert(models.Expert{
		FullName:       "Dr. Adebayo Ogundimu",
		Email:          "adebayo@example.com",
		Specialization: models.SpecCropManagement,
		HourlyRate:     50,
		Status:         models.ExpertApproved,
	})
	token := ta.signUpAndIn(t, "amina@example.com", "")

	req := map[string]interface{}{
		"expert_id":           expert.ID.String(),
		"booking_date":        "2024-06-04",
		"booking_time":        "10:00",
		"duration_minutes":    90,
		"farmer_phone":        "+2348012345678",
		"consultation_reason": "Yellowing maize leaves",
	}
	status, body := ta.do(t, http.MethodPost, "/api/v1/bookings", req, token)
	if status != http.StatusCreated {
		t.Fatalf("create booking: status %d %v", status, body)
	}
	if body["status"] != "pending" || body["total_price"] != 75.0 || body["farmer_email"] != "amina@example.com" {
		t.Fatalf("unexpected booking %v", body)
	}
	bookingID, _ := body["id"].(string)

	status, body = ta.do(t, http.MethodPost, "/api/v1/bookings", req, token)
	if status != http.StatusConflict {
		t.Fatalf("double booking: expected 409, got %d %v", status, body)
	}

	status, body = ta.do(t, http.MethodGet, "/api/v1/experts/"+expert.ID.String()+"/availability?date=2024-06-04&time=10:00", nil, "")
	if status != http.StatusOK || body["available"] != false {
		t.Fatalf("slot should be taken: %d %v", status, body)
	}

	status, body = ta.do(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/cancel", nil, token)
	if status != http.StatusOK || body["status"] != "cancelled" {
		t.Fatalf("cancel: %d %v", status, body)
	}

	status, body = ta.do(t, http.MethodPost, "/api/v1/bookings", req, token)
	if status != http.StatusCreated {
		t.Fatalf("rebook freed slot: %d %v", status, body)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	ta := newTestApp(t)
	token := ta.signUpAndIn(t, "amina@example.com", "")

	cases := []struct {
		name    string
		req     map[string]interface{}
		message string
	}{
		{
			name: "malformed fields",
			req: map[string]interface{}{
				"expert_id":        "not-a-uuid",
				"booking_date":     "04/06/2024",
				"duration_minutes": 45,
			},
			message: "duration_minutes must be one of [30 60 90 120]",
		},
		{
			name: "duration under its old key",
			req: map[string]interface{}{
				"expert_id":           uuid.NewString(),
				"booking_date":        "2024-06-04",
				"booking_time":        "10:00",
				"duration":            60,
				"consultation_reason": "Yellowing maize leaves",
			},
			message: "duration_minutes is required",
		},
	}
	for _, tc := range cases {
		status, body := ta.do(t, http.MethodPost, "/api/v1/bookings", tc.req, token)
		msg, _ := body["message"].(string)
		if status != http.StatusBadRequest || body["code"] != 400.0 || !strings.Contains(msg, tc.message) {
			t.Fatalf("%s: expected 400 mentioning %q, got %d %v", tc.name, tc.message, status, body)
		}
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	ta := newTestApp(t)
	farmer := ta.signUpAndIn(t, "amina@example.com", "")
	if status, _ := ta.do(t, http.MethodGet, "/api/v1/admin/applications/pending", nil, farmer); status != http.StatusForbidden {
		t.Fatalf("farmer reached admin route: status %d", status)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ta.store.Users().Create(context.Background(), &models.User{
		FullName: "Admin",
		Email:    "admin@example.com",
		Password: string(hash),
		Role:     models.RoleAdmin,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	admin := ta.signIn(t, "admin@example.com")

	expertToken := ta.signUpAndIn(t, "expert@example.com", "expert")
	status, body := ta.do(t, http.MethodPost, "/api/v1/experts/applications", map[string]interface{}{
		"full_name":      "Dr. Adebayo Ogundimu",
		"phone":          "+2348000000000",
		"location":       "Ibadan",
		"specialization": "soil-health",
		"experience":     "10-15",
		"education":      "PhD Soil Science",
		"bio":            "Soil fertility specialist",
		"hourly_rate":    40,
		"availability":   "part-time",
	}, expertToken)
	if status != http.StatusCreated && status != http.StatusOK {
		t.Fatalf("submit application: %d %v", status, body)
	}
	expertID, _ := body["id"].(string)

	status, body = ta.do(t, http.MethodPut, "/api/v1/admin/applications/"+expertID, map[string]string{"status": "approved"}, admin)
	if status != http.StatusOK {
		t.Fatalf("approve: %d %v", status, body)
	}

	status, body = ta.do(t, http.MethodGet, "/api/v1/experts/"+expertID, nil, "")
	if status != http.StatusOK || body["status"] != "approved" {
		t.Fatalf("approved expert not listed: %d %v", status, body)
	}
}

func TestReferenceRoutes(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, http.MethodGet, "/api/v1/reference/soil/Cross%20River", nil, "")
	if status != http.StatusOK || body["region"] != "Cross River" {
		t.Fatalf("soil lookup: %d %v", status, body)
	}

	status, body = ta.do(t, http.MethodGet, "/api/v1/reference/weather/Atlantis", nil, "")
	if status != http.StatusNotFound || body["message"] != "Location not found. Try Lagos, Kano, or Rivers." {
		t.Fatalf("unknown location: %d %v", status, body)
	}

	status, body = ta.do(t, http.MethodGet, "/api/v1/community/groups?category=all", nil, "")
	if status != http.StatusOK || body["groups"] == nil {
		t.Fatalf("community groups: %d %v", status, body)
	}
}

func TestUploadSignatureUnconfigured(t *testing.T) {
	ta := newTestApp(t)
	token := ta.signUpAndIn(t, "amina@example.com", "")
	status, body := ta.do(t, http.MethodGet, "/api/v1/uploads/signature?kind=avatar", nil, token)
	if status < http.StatusInternalServerError || body["status"] != "error" {
		t.Fatalf("expected server error when uploads are not configured, got %d %v", status, body)
	}
}
