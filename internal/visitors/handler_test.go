package visitors

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gatehouse-vms/backend/internal/models"
	"github.com/gatehouse-vms/backend/internal/visitorstore/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(now time.Time) (*gin.Engine, *Service) {
	svc, _, _ := newTestService(now)
	h := NewHandler(svc, zap.NewNop())
	r := gin.New()
	r.POST("/visitors", h.Action)
	r.GET("/visitors", h.GetDetails)
	return r, svc
}

func doAction(t *testing.T, r *gin.Engine, code, action string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"AccessCode": code, "action": action})
	req := httptest.NewRequest(http.MethodPost, "/visitors", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	msg, _ := body["message"].(string)
	return msg
}

// TestVisitorLifecycleEndToEnd runs the full create/check-in/check-out flow
// through the HTTP surface.
func TestVisitorLifecycleEndToEnd(t *testing.T) {
	now := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	r, svc := newTestRouter(now)

	rec, err := svc.Create(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	code := rec.AccessCode

	// GetDetails while Pending.
	req := httptest.NewRequest(http.MethodGet, "/visitors?AccessCode="+code, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get-details status = %d, body %s", w.Code, w.Body.String())
	}
	var got models.VisitorRecord
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if got.Status != models.StatusPending || got.AccessCode != code {
		t.Errorf("got Status=%q AccessCode=%q", got.Status, got.AccessCode)
	}

	// Check in.
	w = doAction(t, r, code, "check-in")
	if w.Code != http.StatusOK {
		t.Fatalf("check-in status = %d, body %s", w.Code, w.Body.String())
	}
	if msg := message(t, w); msg != "Visitor checked in" {
		t.Errorf("message = %q", msg)
	}

	// Second check-in rejected.
	w = doAction(t, r, code, "check-in")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("repeat check-in status = %d", w.Code)
	}
	if msg := message(t, w); msg != "Visitor already checked in" {
		t.Errorf("message = %q", msg)
	}

	// Check out.
	w = doAction(t, r, code, "check-out")
	if w.Code != http.StatusOK {
		t.Fatalf("check-out status = %d, body %s", w.Code, w.Body.String())
	}
	if msg := message(t, w); msg != "Visitor checked out" {
		t.Errorf("message = %q", msg)
	}

	// Second check-out rejected.
	w = doAction(t, r, code, "check-out")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("repeat check-out status = %d", w.Code)
	}
	if msg := message(t, w); msg != "Visitor must be checked in before checking out" {
		t.Errorf("message = %q", msg)
	}
}

func TestActionValidation(t *testing.T) {
	r, _ := newTestRouter(time.Now())

	tests := []struct {
		name     string
		code     string
		action   string
		wantCode int
		wantMsg  string
	}{
		{"missing access code", "", "check-in", http.StatusBadRequest, "Missing access code"},
		{"unknown action", "123456", "self-destruct", http.StatusBadRequest, "Invalid or missing action"},
		{"missing action", "123456", "", http.StatusBadRequest, "Invalid or missing action"},
		{"unknown code", "999999", "check-in", http.StatusNotFound, "Visitor not found"},
		{"unknown code get", "999999", "get-details", http.StatusNotFound, "Visitor not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAction(t, r, tt.code, tt.action)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			if msg := message(t, w); msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestGetDetailsMissingQueryParam(t *testing.T) {
	r, _ := newTestRouter(time.Now())
	req := httptest.NewRequest(http.MethodGet, "/visitors", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := message(t, w); msg != "Missing access code" {
		t.Errorf("message = %q", msg)
	}
}

func TestGetDetailsExpiredOverHTTP(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	store := memory.New()
	svc := NewService(store, &spyNotifier{}, zap.NewNop())
	svc.now = func() time.Time { return now }
	h := NewHandler(svc, zap.NewNop())
	r := gin.New()
	r.GET("/visitors", h.GetDetails)

	rec := &models.VisitorRecord{
		PK: models.VisitorPK("777777"), SK: models.VisitorSK,
		AccessCode: "777777", Status: models.StatusPending,
		ExpiresAt: now.Unix() - 1,
	}
	if err := store.Put(context.Background(), rec); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/visitors?AccessCode=777777", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := message(t, w); msg != "Visitor access code has expired" {
		t.Errorf("message = %q", msg)
	}

	// Record is gone; the same lookup is now a 404.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/visitors?AccessCode=777777", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status after cleanup = %d, want 404", w.Code)
	}
}
