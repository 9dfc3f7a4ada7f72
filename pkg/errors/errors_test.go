package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewInvalidMessage("too short"), http.StatusBadRequest},
		{NewSelfPartnership(), http.StatusBadRequest},
		{NewBadRequest("bad", nil), http.StatusBadRequest},
		{NewDuplicateRequest(), http.StatusConflict},
		{NewConflict(nil), http.StatusConflict},
		{NewNotFound("partnership", nil), http.StatusNotFound},
		{NewAlreadyResolved(), http.StatusUnprocessableEntity},
		{NewNotActive(), http.StatusUnprocessableEntity},
		{NewUnauthorized("not a party"), http.StatusForbidden},
		{NewInfrastructure(errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Label(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestIsCode(t *testing.T) {
	err := NewAlreadyResolved()
	assert.True(t, IsCode(err, ErrAlreadyResolved))
	assert.False(t, IsCode(err, ErrConflict))

	wrapped := fmt.Errorf("responding: %w", err)
	assert.True(t, IsCode(wrapped, ErrAlreadyResolved))

	assert.False(t, IsCode(errors.New("plain"), ErrAlreadyResolved))
	assert.False(t, IsCode(nil, ErrAlreadyResolved))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInfrastructure(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsAppError(t *testing.T) {
	appErr := AsAppError(fmt.Errorf("wrapped: %w", NewNotFound("clinic", nil)))
	assert.Equal(t, ErrNotFound, appErr.Code)

	// Unknown errors default to the infrastructure code.
	appErr = AsAppError(errors.New("plain"))
	assert.Equal(t, ErrInfrastructure, appErr.Code)
}
