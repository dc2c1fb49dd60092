package rooms

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

func newTestRouter(repo *mockRepository) http.Handler {
	h := NewHandler(NewService(repo))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			role := domain.Role(req.Header.Get("X-Test-Role"))
			next.ServeHTTP(w, req.WithContext(httputil.WithIdentity(req.Context(), "user-1", role)))
		})
	})
	r.Route("/api/rooms", func(r chi.Router) {
		h.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(httputil.RequireRole(domain.RoleAdmin))
			h.RegisterAdminRoutes(r)
		})
	})
	return r
}

func serve(t *testing.T, router http.Handler, method, path string, role domain.Role, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Test-Role", string(role))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestHandler_AdminLifecycle(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec, body := serve(t, router, http.MethodPost, "/api/rooms/", domain.RoleAdmin, map[string]interface{}{
		"number": "A1", "name": "Kamar A1", "price": 1500000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Room created successfully.", body["message"])
	room := body["room"].(map[string]interface{})
	id := room["id"].(string)
	assert.Equal(t, "available", room["status"])

	rec, body = serve(t, router, http.MethodGet, "/api/rooms/"+id, domain.RolePenghuni, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A1", body["room"].(map[string]interface{})["number"])

	rec, body = serve(t, router, http.MethodGet, "/api/rooms/", domain.RolePenghuni, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["rooms"], 1)

	rec, _ = serve(t, router, http.MethodPut, "/api/rooms/"+id, domain.RoleAdmin, map[string]interface{}{
		"number": "A1", "name": "Kamar A1", "price": 1750000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = serve(t, router, http.MethodDelete, "/api/rooms/"+id, domain.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Room deleted successfully.", body["message"])

	rec, body = serve(t, router, http.MethodGet, "/api/rooms/"+id, domain.RolePenghuni, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Room not found.", body["error"])
}

func TestHandler_OccupantCannotWrite(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec, body := serve(t, router, http.MethodPost, "/api/rooms/", domain.RolePenghuni, map[string]interface{}{
		"number": "A1", "name": "Kamar A1", "price": 1500000,
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, httputil.MsgInsufficientAccess, body["error"])
}

func TestHandler_EmptyListIsArray(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec, body := serve(t, router, http.MethodGet, "/api/rooms/?status=available", domain.RolePenghuni, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["rooms"])
}

func TestHandler_Errors(t *testing.T) {
	router := newTestRouter(newMockRepository())

	tests := []struct {
		name    string
		payload map[string]interface{}
		want    string
	}{
		{
			name:    "occupied without occupant",
			payload: map[string]interface{}{"number": "A1", "name": "x", "price": 1, "status": "occupied"},
			want:    "An occupied room requires occupant_id.",
		},
		{
			name:    "zero price",
			payload: map[string]interface{}{"number": "A1", "name": "x", "price": 0},
			want:    "validation error",
		},
		{
			name:    "occupant not a uuid",
			payload: map[string]interface{}{"number": "A1", "name": "x", "price": 1, "status": "occupied", "occupant_id": "bob"},
			want:    "validation error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(t, router, http.MethodPost, "/api/rooms/", domain.RoleAdmin, tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, body["error"])
		})
	}

	rec, body := serve(t, router, http.MethodGet, "/api/rooms/?status=haunted", domain.RolePenghuni, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid room status.", body["error"])
}
