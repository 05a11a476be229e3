package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/it22188236/Hospital-Management/config"
	"github.com/it22188236/Hospital-Management/internal/delivery/dto"
	"github.com/it22188236/Hospital-Management/internal/usecase"
	"github.com/it22188236/Hospital-Management/pkg/jwt"
	"github.com/it22188236/Hospital-Management/pkg/validator"

	"github.com/google/uuid"
)

type stubAuthUsecase struct {
	user   *dto.UserResponse
	tokens *dto.TokenResponse
	err    error

	loginCalls    int
	registerCalls int
}

func (s *stubAuthUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	s.registerCalls++
	return s.user, s.err
}

func (s *stubAuthUsecase) RegisterAdmin(ctx context.Context, req *dto.RegisterAdminRequest) (*dto.UserResponse, error) {
	s.registerCalls++
	return s.user, s.err
}

func (s *stubAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	s.loginCalls++
	return s.tokens, s.err
}

func (s *stubAuthUsecase) Logout(ctx context.Context, accessTokenID, refreshTokenID string) error {
	return s.err
}

func (s *stubAuthUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return s.tokens, s.err
}

func (s *stubAuthUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	return s.user, s.err
}

func testJWTService() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
}

func postJSON(t *testing.T, handlerFn http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handlerFn(rec, req)
	return rec
}

func validLoginBody() map[string]string {
	return map[string]string{
		"email":           "amara@example.com",
		"password":        "supersecret",
		"confirmPassword": "supersecret",
		"role":            "Patient",
	}
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubAuthUsecase{tokens: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r"}}
		h := NewAuthHandler(stub, validator.NewValidator(), testJWTService())
		rec := postJSON(t, h.Login, "/api/v1/auth/login", validLoginBody())
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
		}
		if stub.loginCalls != 1 {
			t.Fatalf("usecase called %d times", stub.loginCalls)
		}
	})

	t.Run("confirm password mismatch fails validation", func(t *testing.T) {
		stub := &stubAuthUsecase{}
		h := NewAuthHandler(stub, validator.NewValidator(), testJWTService())
		body := validLoginBody()
		body["confirmPassword"] = "different"
		rec := postJSON(t, h.Login, "/api/v1/auth/login", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if stub.loginCalls != 0 {
			t.Fatal("usecase reached despite invalid request")
		}
	})

	t.Run("unknown role fails validation", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthUsecase{}, validator.NewValidator(), testJWTService())
		body := validLoginBody()
		body["role"] = "Nurse"
		rec := postJSON(t, h.Login, "/api/v1/auth/login", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("role mismatch maps to 401", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthUsecase{err: usecase.ErrRoleMismatch}, validator.NewValidator(), testJWTService())
		rec := postJSON(t, h.Login, "/api/v1/auth/login", validLoginBody())
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthUsecase{err: usecase.ErrInvalidCredentials}, validator.NewValidator(), testJWTService())
		rec := postJSON(t, h.Login, "/api/v1/auth/login", validLoginBody())
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestRegisterPatient(t *testing.T) {
	validBody := func() map[string]string {
		return map[string]string{
			"firstName": "Amara",
			"lastName":  "Perera",
			"email":     "amara@example.com",
			"phone":     "0771234567",
			"nic":       "982345671V",
			"dob":       "1998-04-12",
			"gender":    "Female",
			"password":  "supersecret",
		}
	}

	t.Run("success", func(t *testing.T) {
		stub := &stubAuthUsecase{user: &dto.UserResponse{Role: "Patient"}}
		h := NewAuthHandler(stub, validator.NewValidator(), testJWTService())
		rec := postJSON(t, h.RegisterPatient, "/api/v1/auth/register", validBody())
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("short password fails validation", func(t *testing.T) {
		stub := &stubAuthUsecase{}
		h := NewAuthHandler(stub, validator.NewValidator(), testJWTService())
		body := validBody()
		body["password"] = "short"
		rec := postJSON(t, h.RegisterPatient, "/api/v1/auth/register", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if stub.registerCalls != 0 {
			t.Fatal("usecase reached despite invalid request")
		}
	})

	t.Run("duplicate email maps to 409", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthUsecase{err: usecase.ErrEmailAlreadyExists}, validator.NewValidator(), testJWTService())
		rec := postJSON(t, h.RegisterPatient, "/api/v1/auth/register", validBody())
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})
}
