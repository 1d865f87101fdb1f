package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorIncludesCause(t *testing.T) {
	err := NewTimeoutError("geocode lookup timed out", context.DeadlineExceeded)

	assert.Equal(t, "TIMEOUT: geocode lookup timed out: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTypeOf_WalksWrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("search: %w", NewExternalError("remote query failed", nil))

	assert.Equal(t, ErrorTypeExternal, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrorTypeExternal))
	assert.False(t, IsType(wrapped, ErrorTypeNotFound))
}

func TestTypeOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, TypeOf(fmt.Errorf("boom")))
	assert.False(t, IsType(nil, ErrorTypeInternal))
}
