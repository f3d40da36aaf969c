package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorMessage(t *testing.T) {
	err := NewAPIError(ErrNotFound, "entry not found", nil)
	assert.Equal(t, "NOT_FOUND: entry not found", err.Error())
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrNotFound:            http.StatusNotFound,
		ErrConflict:            http.StatusConflict,
		ErrLockTimeout:         http.StatusConflict,
		ErrBadRequest:          http.StatusBadRequest,
		ErrInvalidInput:        http.StatusBadRequest,
		ErrInsufficientBalance: http.StatusBadRequest,
		ErrInternalServer:      http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, MapErrorToHTTPStatus(NewAPIError(code, "x", nil)))
	}

	assert.Equal(t, http.StatusInternalServerError, MapErrorToHTTPStatus(errors.New("plain")))
}
