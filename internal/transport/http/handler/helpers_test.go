package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"docbase/internal/app"
	"docbase/internal/transport/http/response"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{
			"upstream outage",
			fmt.Errorf("%w: count documents failed", app.ErrUpstream),
			http.StatusServiceUnavailable,
			response.CodeUpstream,
		},
		{"quota exceeded", app.ErrQuotaExceeded, http.StatusForbidden, response.CodeQuotaExceeded},
		{"permission denied", app.ErrPermissionDenied, http.StatusForbidden, response.CodePermissionDenied},
		{
			"invalid input",
			fmt.Errorf("%w: unsupported file type", app.ErrInvalidInput),
			http.StatusBadRequest,
			response.CodeBadRequest,
		},
		{"credential not found", app.ErrCredentialNotFound, http.StatusNotFound, response.CodeNotFound},
		{"document not found", app.ErrDocumentNotFound, http.StatusNotFound, response.CodeNotFound},
		{"unclassified", fmt.Errorf("something broke"), http.StatusInternalServerError, response.CodeInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tt.err, "fallback message")

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body response.APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", body.Code, tt.wantCode)
			}
		})
	}
}
