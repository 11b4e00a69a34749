package apiErrors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		code           string
		message        string
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "Credencial ausente usa mensagem padrão",
			code:           ErrMissingCredential,
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "API key is required. Pass via X-API-Key header.",
		},
		{
			name:           "Placement inativo",
			code:           ErrPlacementInactive,
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Placement is inactive.",
		},
		{
			name:           "Mensagem personalizada",
			code:           ErrMissingParameter,
			message:        "limit must be numeric",
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "limit must be numeric",
		},
		{
			name:           "Código desconhecido vira 500",
			code:           "something_else",
			message:        "boom",
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteError(rec, tt.code, tt.message, nil)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["error"])
			assert.Equal(t, tt.expectedMsg, body["message"])
			_, hasDetails := body["details"]
			assert.False(t, hasDetails)
		})
	}
}
