package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"PearlDental/models"

	"github.com/gin-gonic/gin"
)

func TestRequireStaff(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		role        string
		hasIdentity bool
		wantStatus  int
		wantReached bool
	}{
		{name: "client is rejected", role: models.RoleClient, hasIdentity: true, wantStatus: http.StatusForbidden, wantReached: false},
		{name: "missing identity is rejected", role: "", hasIdentity: false, wantStatus: http.StatusForbidden, wantReached: false},
		{name: "dentist passes", role: models.RoleDentist, hasIdentity: true, wantStatus: http.StatusOK, wantReached: true},
		{name: "front desk passes", role: models.RoleFrontDesk, hasIdentity: true, wantStatus: http.StatusOK, wantReached: true},
		{name: "admin passes", role: models.RoleAdmin, hasIdentity: true, wantStatus: http.StatusOK, wantReached: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			router := gin.New()
			router.GET("/billings", RequireStaff(), func(c *gin.Context) {
				reached = true
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/billings", nil)
			if tt.hasIdentity {
				ctx := context.WithValue(req.Context(), userIDKey, "uid-1")
				ctx = context.WithValue(ctx, userRoleKey, tt.role)
				req = req.WithContext(ctx)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if reached != tt.wantReached {
				t.Errorf("handler reached = %v, want %v", reached, tt.wantReached)
			}
			if !tt.wantReached && !strings.Contains(rec.Body.String(), "unauthorized: staff only") {
				t.Errorf("body = %q, want the staff-only message", rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		role       string
		allowed    []string
		wantStatus int
	}{
		{name: "matching role passes", role: models.RoleAdmin, allowed: []string{models.RoleAdmin}, wantStatus: http.StatusOK},
		{name: "one of several passes", role: models.RoleDentist, allowed: []string{models.RoleAdmin, models.RoleDentist}, wantStatus: http.StatusOK},
		{name: "wrong role is forbidden", role: models.RoleFrontDesk, allowed: []string{models.RoleAdmin}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/admin", RequireRole(tt.allowed...), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			ctx := context.WithValue(req.Context(), userIDKey, "uid-1")
			ctx = context.WithValue(ctx, userRoleKey, tt.role)
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
