package testutil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roomPath = "/api/rooms/3f1c2a9e-8d1b-4c55-9a0e-1d2f3b4c5d6e"

func jsonHeader() http.Header {
	return http.Header{"Content-Type": []string{"application/json"}}
}

func TestOpenAPIValidator_Check(t *testing.T) {
	v := NewOpenAPIValidator(t)

	room := func(status string) []byte {
		return []byte(`{"room":{"id":"3f1c2a9e-8d1b-4c55-9a0e-1d2f3b4c5d6e","number":"A1","name":"Kamar",` +
			`"description":"","price":1500000,"status":"` + status + `","occupant_id":null,` +
			`"created_at":"2026-03-05T10:00:00Z","updated_at":"2026-03-05T10:00:00Z"}}`)
	}

	tests := []struct {
		name    string
		status  int
		body    []byte
		wantErr bool
	}{
		{"room", http.StatusOK, room("available"), false},
		{"unknown room status", http.StatusOK, room("sold"), true},
		{"error envelope", http.StatusNotFound, []byte(`{"error":"Room not found."}`), false},
		{"error envelope without error", http.StatusNotFound, []byte(`{"message":"Room not found."}`), true},
		{"undocumented status", http.StatusTeapot, []byte(`{"error":"x"}`), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(http.MethodGet, roomPath, tt.status, jsonHeader(), tt.body)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOpenAPIValidator_SkipsPlainRoutes(t *testing.T) {
	v := NewOpenAPIValidator(t)

	err := v.Check(http.MethodGet, "/healthz", http.StatusOK, http.Header{}, []byte("OK"))
	assert.NoError(t, err)
}

func TestOpenAPIValidator_UndocumentedRoute(t *testing.T) {
	v := NewOpenAPIValidator(t)

	err := v.Check(http.MethodGet, "/api/unknown", http.StatusOK, jsonHeader(), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/api/unknown")
}

func TestDescribeBody(t *testing.T) {
	assert.Equal(t, `error="Room not found."`, describeBody([]byte(`{"error":"Room not found."}`)))
	assert.Equal(t,
		`error="validation error" details=[{"field":"Price","message":"gt"}]`,
		describeBody([]byte(`{"error":"validation error","details":[{"field":"Price","message":"gt"}]}`)))
	assert.Equal(t, "body: Something broke!", describeBody([]byte("Something broke!\n")))
}
