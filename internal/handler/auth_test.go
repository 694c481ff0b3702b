package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VishSinh/vsc-be/internal/auth"
	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/enum"
	"github.com/VishSinh/vsc-be/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// --- Mock store ---

type mockAuthStore struct {
	staffByPhone map[string]database.Staff
	staffByID    map[uuid.UUID]database.Staff
}

func newMockAuthStore() *mockAuthStore {
	return &mockAuthStore{
		staffByPhone: make(map[string]database.Staff),
		staffByID:    make(map[uuid.UUID]database.Staff),
	}
}

func (m *mockAuthStore) addStaff(s database.Staff) {
	m.staffByPhone[s.Phone] = s
	m.staffByID[s.ID] = s
}

func (m *mockAuthStore) GetStaffByPhone(_ context.Context, phone string) (database.Staff, error) {
	s, ok := m.staffByPhone[phone]
	if !ok {
		return database.Staff{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *mockAuthStore) GetStaffByID(_ context.Context, id uuid.UUID) (database.Staff, error) {
	s, ok := m.staffByID[id]
	if !ok {
		return database.Staff{}, pgx.ErrNoRows
	}
	return s, nil
}

// --- Helpers ---

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

func makeTestStaff(t *testing.T) database.Staff {
	t.Helper()
	return database.Staff{
		ID:           uuid.New(),
		Name:         "Test Sales",
		Phone:        "9876543210",
		PasswordHash: hashPassword(t, "correct-password"),
		Role:         enum.StaffRoleSales,
		IsActive:     true,
	}
}

func setupAuthRouter(store *mockAuthStore) *chi.Mux {
	h := handler.NewAuthHandler(store, testSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// --- Login tests ---

func TestLogin_Success(t *testing.T) {
	store := newMockAuthStore()
	staff := makeTestStaff(t)
	store.addStaff(staff)

	rr := postJSON(t, setupAuthRouter(store), "/auth/login", map[string]string{
		"phone":    staff.Phone,
		"password": "correct-password",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	access, _ := resp["access_token"].(string)
	claims, err := auth.ValidateToken(testSecret, access)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.StaffID != staff.ID {
		t.Errorf("staff_id: got %v, want %v", claims.StaffID, staff.ID)
	}
	if claims.Role != enum.StaffRoleSales {
		t.Errorf("role: got %v, want %v", claims.Role, enum.StaffRoleSales)
	}

	refresh, _ := resp["refresh_token"].(string)
	if id, err := auth.ValidateRefreshToken(testSecret, refresh); err != nil || id != staff.ID {
		t.Errorf("refresh token: got (%v, %v), want %v", id, err, staff.ID)
	}

	s, ok := resp["staff"].(map[string]interface{})
	if !ok {
		t.Fatal("staff not present in response")
	}
	if s["phone"] != staff.Phone {
		t.Errorf("staff phone: got %v, want %v", s["phone"], staff.Phone)
	}
	if _, leaked := s["password_hash"]; leaked {
		t.Error("password hash must not be returned")
	}
}

func TestLogin_Rejections(t *testing.T) {
	store := newMockAuthStore()
	active := makeTestStaff(t)
	store.addStaff(active)

	inactive := makeTestStaff(t)
	inactive.ID = uuid.New()
	inactive.Phone = "9000000009"
	inactive.IsActive = false
	store.addStaff(inactive)

	router := setupAuthRouter(store)

	tests := []struct {
		name    string
		body    map[string]string
		want    int
		wantErr string
	}{
		{"wrong password", map[string]string{"phone": active.Phone, "password": "nope"}, http.StatusUnauthorized, "invalid credentials"},
		{"unknown phone", map[string]string{"phone": "9111111111", "password": "correct-password"}, http.StatusUnauthorized, "invalid credentials"},
		{"deactivated", map[string]string{"phone": inactive.Phone, "password": "correct-password"}, http.StatusUnauthorized, "account is deactivated"},
		{"missing phone", map[string]string{"password": "x"}, http.StatusBadRequest, "phone is required"},
		{"missing password", map[string]string{"phone": active.Phone}, http.StatusBadRequest, "password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, router, "/auth/login", tt.body)
			if rr.Code != tt.want {
				t.Fatalf("status: got %d, want %d; body: %s", rr.Code, tt.want, rr.Body.String())
			}
			if resp := decodeResponse(t, rr); resp["error"] != tt.wantErr {
				t.Errorf("error: got %v, want %q", resp["error"], tt.wantErr)
			}
		})
	}
}

func TestLogin_InvalidBody(t *testing.T) {
	router := setupAuthRouter(newMockAuthStore())

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Refresh tests ---

func TestRefresh_Success(t *testing.T) {
	store := newMockAuthStore()
	staff := makeTestStaff(t)
	staff.Role = enum.StaffRoleManager
	store.addStaff(staff)

	refresh, err := auth.GenerateRefreshToken(testSecret, staff.ID)
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}

	rr := postJSON(t, setupAuthRouter(store), "/auth/refresh", map[string]string{"refresh_token": refresh})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	claims, err := auth.ValidateToken(testSecret, resp["access_token"].(string))
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.Role != enum.StaffRoleManager {
		t.Errorf("role: got %v, want %v", claims.Role, enum.StaffRoleManager)
	}
}

func TestRefresh_Rejections(t *testing.T) {
	store := newMockAuthStore()
	staff := makeTestStaff(t)
	store.addStaff(staff)

	deactivated := makeTestStaff(t)
	deactivated.ID = uuid.New()
	deactivated.Phone = "9000000010"
	deactivated.IsActive = false
	store.addStaff(deactivated)

	access, _ := auth.GenerateToken(testSecret, staff.ID, staff.Role)
	unknown, _ := auth.GenerateRefreshToken(testSecret, uuid.New())
	otherSecret, _ := auth.GenerateRefreshToken("other-secret", staff.ID)
	inactive, _ := auth.GenerateRefreshToken(testSecret, deactivated.ID)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"access token", access},
		{"wrong secret", otherSecret},
		{"unknown staff", unknown},
		{"deactivated staff", inactive},
	}

	router := setupAuthRouter(store)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, router, "/auth/refresh", map[string]string{"refresh_token": tt.token})
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want %d; body: %s", rr.Code, http.StatusUnauthorized, rr.Body.String())
			}
		})
	}
}
