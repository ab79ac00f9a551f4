package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorFormatsCodeAndCause(t *testing.T) {
	err := NewAppError("CONFIG_ERROR", "bad value", ErrInvalidInput)
	assert.Equal(t, "CONFIG_ERROR: bad value: invalid input", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := &AppError{Code: "CONFIG_ERROR", Message: "bad value"}
	assert.Equal(t, "CONFIG_ERROR: bad value", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
