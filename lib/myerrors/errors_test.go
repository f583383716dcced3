package myerrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, GetHttpStatus(NewInvalidInputErrorf("bad %s", "input")))
	assert.Equal(t, http.StatusNotFound, GetHttpStatus(NewNotFoundError(fmt.Errorf("not found"))))
	assert.Equal(t, http.StatusForbidden, GetHttpStatus(NewAuthenticationError(fmt.Errorf("denied"))))
	assert.Equal(t, http.StatusInternalServerError, GetHttpStatus(NewInternalError(fmt.Errorf("boom"))))
	assert.Equal(t, http.StatusServiceUnavailable, GetHttpStatus(NewUnavailableError(fmt.Errorf("down"))))
}

func TestUnknownErrorIsInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHttpStatus(fmt.Errorf("plain error")))
	assert.Equal(t, http.StatusInternalServerError, GetHttpStatus(nil))
}

func TestErrorMessagePreserved(t *testing.T) {
	err := NewInvalidInputError(fmt.Errorf("item X is unavailable"))
	assert.Equal(t, "item X is unavailable", err.Error())
}
