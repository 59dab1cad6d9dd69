package errorx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"coded", Conflict("transaction already imported"), http.StatusConflict, "transaction already imported"},
		{"wrapped coded", fmt.Errorf("import: %w", BadRequest("invalid hash")), http.StatusBadRequest, "invalid hash"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, InternalErrorMsg},
		{"driver detail", errors.New(`pq: relation "device_registry" does not exist`), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := Handler(context.Background(), tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, &ErrorResp{Error: tt.wantMsg}, body)
		})
	}
}
