package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{ValidationError("bad csv"), http.StatusBadRequest},
		{NotFoundError("no run"), http.StatusNotFound},
		{InternalError("boom", nil), http.StatusInternalServerError},
		{ExternalError("chrome", nil), http.StatusBadGateway},
		{&Error{Type: "mystery"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.HTTPStatus(), "type %s", tt.err.Type)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := InternalError("failed to save run", errors.New("disk full"))
	assert.Equal(t, "internal: failed to save run: disk full", err.Error())

	err = ValidationError("missing file")
	assert.Equal(t, "validation: missing file", err.Error())
}

func TestAsStructuredError(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))

	v := ValidationError("bad")
	wrapped := fmt.Errorf("handler: %w", v)
	assert.Same(t, v, AsStructuredError(wrapped))

	plain := errors.New("plain")
	got := AsStructuredError(plain)
	require.NotNil(t, got)
	assert.Equal(t, TypeInternal, got.Type)
	assert.ErrorIs(t, got, plain)
}

func TestWithFieldAndResponse(t *testing.T) {
	err := NotFoundError("run not found").WithField("run_id", "abc")
	resp := err.ToResponse()

	assert.Equal(t, "run not found", resp.Error)
	assert.Equal(t, TypeNotFound, resp.Type)
	assert.Equal(t, "abc", resp.Context["run_id"])
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ValidationErrorf(errors.New("eof"), "Error loading CSV file: %s", "eof"))
	assert.True(t, IsType(err, TypeValidation))
	assert.False(t, IsType(err, TypeInternal))
	assert.False(t, IsType(errors.New("x"), TypeValidation))
}
