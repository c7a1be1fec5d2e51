package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spainrp/awards/internal/envelope"
	"github.com/spainrp/awards/internal/errors"
	"github.com/spainrp/awards/internal/logger"
	"github.com/spainrp/awards/internal/services"
)

func TestToAPIError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{errors.NotFound("missing"), http.StatusNotFound, ErrCodeNotFound},
		{errors.Validation("bad"), http.StatusBadRequest, ErrCodeValidation},
		{errors.InvalidInput("bad"), http.StatusBadRequest, ErrCodeValidation},
		{errors.Conflict("dup"), http.StatusConflict, ErrCodeConflict},
		{errors.Unauthorized("who"), http.StatusUnauthorized, ErrCodeUnauthorized},
		{errors.Forbidden("no"), http.StatusForbidden, ErrCodeForbidden},
		{errors.Unavailable("later"), http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{services.ErrNoPriorVote, http.StatusNotFound, ErrCodeNotFound},
		{fmt.Errorf("%w: boom", services.ErrPersistenceFailure), http.StatusInternalServerError, ErrCodeInternalServer},
		{stderrors.New("plain"), http.StatusInternalServerError, ErrCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := ToAPIError(tt.err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	got := ToAPIError(stderrors.New("password=hunter2"))
	assert.Equal(t, "Internal server error", got.Message)
}

func TestEnvelope_PassesThroughNonJSON(t *testing.T) {
	h := &Handlers{Envelope: envelope.New("k"), Log: logger.Nop()}
	mw := h.envelope(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("PNG"))
	}))

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "PNG", rec.Body.String())
}

func TestEnvelope_KeepsStatus(t *testing.T) {
	sealer := envelope.New("k")
	h := &Handlers{Envelope: sealer, Log: logger.Nop()}
	mw := h.envelope(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusConflict, Conflict("ya votaste"))
	}))

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var env struct{ Payload string }
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var apiErr APIError
	assert.NoError(t, sealer.Open(env.Payload, &apiErr))
	assert.Equal(t, "ya votaste", apiErr.Message)
	assert.Equal(t, ErrCodeConflict, apiErr.Code)
}
