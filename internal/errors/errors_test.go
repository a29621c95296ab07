package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeDuplicateUsername, http.StatusConflict},
		{CodeDuplicateEmail, http.StatusConflict},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := Forbidden("you do not own this book")

	assert.True(t, Is(err, ErrForbidden))
	assert.False(t, Is(err, ErrNotFound))

	wrapped := fmt.Errorf("get book: %w", err)
	assert.True(t, Is(wrapped, ErrForbidden))
}

func TestErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Internal("could not save").WithCause(cause)

	assert.Equal(t, "could not save: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestErrorWithDetailsKeepsCode(t *testing.T) {
	details := map[string]string{"title": "title is required"}
	err := ErrInvalidInput.WithDetails(details)

	assert.Equal(t, CodeInvalidInput, err.Code)
	assert.Equal(t, details, err.Details)
	assert.Nil(t, ErrInvalidInput.Details, "sentinel must not be mutated")
}
