package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrForbidden.WithMessage("Only caregivers can create patient accounts"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Only caregivers can create patient accounts", body["error"])
	assert.Equal(t, CodeForbidden, body["code"])
	_, hasDetail := body["detail"]
	assert.False(t, hasDetail)
}

func TestWriteError_UnknownIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, stderrors.New("db exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeUnexpectedFailure, body["code"])
	assert.NotContains(t, body["error"], "db exploded")
}

func TestCopiesDoNotMutateBase(t *testing.T) {
	_ = ErrInvalidInput.WithMessage("x").WithDetail("y")
	assert.Equal(t, "Invalid input", ErrInvalidInput.Message)
	assert.Empty(t, ErrInvalidInput.Detail)
}
