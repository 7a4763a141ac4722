package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NotFound("service", nil), http.StatusNotFound},
		{BadRequest("bad input", nil), http.StatusBadRequest},
		{Unauthorized(nil), http.StatusUnauthorized},
		{Conflict("slot taken", nil), http.StatusConflict},
		{Unavailable("upstream down", nil), http.StatusInternalServerError},
		{Unavailable("upstream down", nil).WithStatus(http.StatusBadGateway), http.StatusBadGateway},
		{Internal(nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode())
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Unavailable("unable to book", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unable to book")
}

func TestPredicates(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Conflict("slot taken", nil))
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.True(t, IsNotFound(NotFound("doctor", nil)))
}
