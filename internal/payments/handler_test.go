package payments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/rantaucash/rantaucash-api/internal/pkg/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoomID = "3f1c2a9e-8d1b-4c55-9a0e-1d2f3b4c5d6e"

func newTestRouter() http.Handler {
	return newTestRouterWith(newMockRepository())
}

func newTestRouterWith(repo *mockRepository) http.Handler {
	svc := NewService(repo, &mockRooms{ids: map[string]bool{testRoomID: true}}, nil)
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := httputil.WithIdentity(req.Context(), req.Header.Get("X-Test-User"), domain.Role(req.Header.Get("X-Test-Role")))
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/api/payments", func(r chi.Router) {
		h.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(httputil.RequireRole(domain.RoleAdmin))
			h.RegisterAdminRoutes(r)
		})
	})
	return r
}

func serve(t *testing.T, router http.Handler, method, path string, as Viewer, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Test-User", as.UserID)
	req.Header.Set("X-Test-Role", string(as.Role))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestHandler_SubmitAndReview(t *testing.T) {
	router := newTestRouter()

	rec, body := serve(t, router, http.MethodPost, "/api/payments/", occupant, map[string]interface{}{
		"room_id": testRoomID, "amount": 1500000, "period": "2026-03", "method": "transfer",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Payment submitted successfully.", body["message"])
	payment := body["payment"].(map[string]interface{})
	assert.Equal(t, "pending", payment["status"])
	id := payment["id"].(string)

	rec, _ = serve(t, router, http.MethodGet, "/api/payments/"+id, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serve(t, router, http.MethodPut, "/api/payments/"+id+"/status", occupant, map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = serve(t, router, http.MethodPut, "/api/payments/"+id+"/status", admin, map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code)
	payment = body["payment"].(map[string]interface{})
	assert.Equal(t, "paid", payment["status"])
	assert.NotNil(t, payment["paid_at"])

	rec, body = serve(t, router, http.MethodPut, "/api/payments/"+id+"/status", admin, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only pending payments can change status.", body["error"])

	rec, body = serve(t, router, http.MethodGet, "/api/payments/", occupant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["payments"], 1)

	rec, body = serve(t, router, http.MethodGet, "/api/payments/", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["payments"])

	rec, _ = serve(t, router, http.MethodDelete, "/api/payments/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_CreateValidation(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name    string
		payload map[string]interface{}
		status  int
		want    string
	}{
		{
			name:    "bad period",
			payload: map[string]interface{}{"room_id": testRoomID, "amount": 1, "period": "March", "method": "cash"},
			status:  http.StatusBadRequest,
			want:    "validation error",
		},
		{
			name:    "bad method",
			payload: map[string]interface{}{"room_id": testRoomID, "amount": 1, "period": "2026-03", "method": "gold"},
			status:  http.StatusBadRequest,
			want:    "validation error",
		},
		{
			name:    "unknown room",
			payload: map[string]interface{}{"room_id": "0b7a2c4e-1111-4c55-9a0e-1d2f3b4c5d6e", "amount": 1, "period": "2026-03", "method": "cash"},
			status:  http.StatusBadRequest,
			want:    "Room not found.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(t, router, http.MethodPost, "/api/payments/", occupant, tt.payload)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestHandler_NotFound(t *testing.T) {
	router := newTestRouter()

	rec, body := serve(t, router, http.MethodGet, "/api/payments/payment-404", admin, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Payment not found.", body["error"])
}

func TestHandler_CreateByDeletedPayer(t *testing.T) {
	repo := newMockRepository()
	repo.createErr = ErrPayerNotFound
	router := newTestRouterWith(repo)

	rec, body := serve(t, router, http.MethodPost, "/api/payments", Viewer{UserID: "gone", Role: domain.RolePenghuni}, map[string]interface{}{
		"room_id": testRoomID,
		"amount":  1500000,
		"period":  "2026-03",
		"method":  "transfer",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found.", body["error"])
}
