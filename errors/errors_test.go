package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	fserrors "github.com/maurelya/simplefs/errors"
)

func TestCode_ErrorIsMessage(t *testing.T) {
	assert.Equal(t, "no such file", fserrors.NoSuchFile.Error())
}

func TestWithMessage_PreservesCodeIdentity(t *testing.T) {
	wrapped := fserrors.NoSuchFile.WithMessage("/missing.txt")
	assert.True(t, errors.Is(wrapped, fserrors.NoSuchFile))
	assert.False(t, errors.Is(wrapped, fserrors.NoSuchDir))
	assert.Contains(t, wrapped.Error(), "/missing.txt")
}

func TestWrapError_PreservesCodeAndCause(t *testing.T) {
	cause := errors.New("disk read failed")
	wrapped := fserrors.GENERAL.WrapError(cause)

	assert.True(t, errors.Is(wrapped, fserrors.GENERAL))
	assert.True(t, errors.Is(wrapped, cause))
	assert.Contains(t, wrapped.Error(), "disk read failed")
}

func TestWithMessage_Chains(t *testing.T) {
	wrapped := fserrors.CREATE.WithMessage("step one").WithMessage("step two")
	assert.True(t, errors.Is(wrapped, fserrors.CREATE))
	assert.Contains(t, wrapped.Error(), "step one")
	assert.Contains(t, wrapped.Error(), "step two")
}
