package notifications

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

const (
	occupantID = "7d9f1e2a-0c3b-4a5d-8e6f-1a2b3c4d5e6f"
	adminID    = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, _ := newTestService(t, occupantID, adminID)
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := httputil.WithIdentity(req.Context(), req.Header.Get("X-Test-User"), domain.Role(req.Header.Get("X-Test-Role")))
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/api/notifications", func(r chi.Router) {
		h.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(httputil.RequireRole(domain.RoleAdmin))
			h.RegisterAdminRoutes(r)
		})
	})
	return r
}

func serve(t *testing.T, router http.Handler, method, path, userID string, role domain.Role, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Test-User", userID)
	req.Header.Set("X-Test-Role", string(role))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestHandler_SendReadDelete(t *testing.T) {
	router := newTestRouter(t)

	rec, body := serve(t, router, http.MethodPost, "/api/notifications/", adminID, domain.RoleAdmin, map[string]string{
		"user_id": occupantID, "title": "Water off", "message": "Sunday morning",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Notification sent successfully.", body["message"])
	id := body["notification"].(map[string]interface{})["id"].(string)

	rec, body = serve(t, router, http.MethodGet, "/api/notifications/?unread=true", occupantID, domain.RolePenghuni, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["notifications"], 1)

	rec, _ = serve(t, router, http.MethodPut, "/api/notifications/"+id+"/read", adminID, domain.RoleAdmin, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, "admins cannot touch other users' notifications")

	rec, body = serve(t, router, http.MethodPut, "/api/notifications/"+id+"/read", occupantID, domain.RolePenghuni, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["notification"].(map[string]interface{})["is_read"])

	rec, body = serve(t, router, http.MethodGet, "/api/notifications/?unread=true", occupantID, domain.RolePenghuni, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["notifications"])

	rec, _ = serve(t, router, http.MethodDelete, "/api/notifications/"+id, occupantID, domain.RolePenghuni, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = serve(t, router, http.MethodDelete, "/api/notifications/"+id, occupantID, domain.RolePenghuni, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Notification not found.", body["error"])
}

func TestHandler_SendRequiresAdmin(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := serve(t, router, http.MethodPost, "/api/notifications/", occupantID, domain.RolePenghuni, map[string]string{
		"user_id": adminID, "title": "hi", "message": "hi",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandler_SendValidation(t *testing.T) {
	router := newTestRouter(t)

	rec, body := serve(t, router, http.MethodPost, "/api/notifications/", adminID, domain.RoleAdmin, map[string]string{
		"user_id": "nobody", "title": "hi", "message": "hi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation error", body["error"])

	rec, body = serve(t, router, http.MethodPost, "/api/notifications/", adminID, domain.RoleAdmin, map[string]string{
		"user_id": "11111111-2222-4333-8444-555555555555", "title": "hi", "message": "hi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User not found.", body["error"])
}
