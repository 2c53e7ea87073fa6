package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromAPICode(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{CodeTooManyRequests, ErrorTypeRateLimit},
		{CodeFloodControl, ErrorTypeRateLimit},
		{CodeAuthFailed, ErrorTypeAuth},
		{CodeAccessDenied, ErrorTypeAccess},
		{CodeDeleted, ErrorTypeAccess},
		{CodePrivateProfile, ErrorTypeAccess},
		{100, ErrorTypeAPI},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code %d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, FromAPICode(tt.code))
		})
	}
}

func TestClassification(t *testing.T) {
	wrapped := fmt.Errorf("fetch wall: %w", New(ErrorTypeAccess, CodeDeleted, "group deleted"))
	assert.Equal(t, ErrorTypeAccess, TypeOf(wrapped))
	assert.True(t, IsTransient(wrapped))
	assert.False(t, IsConfig(wrapped))

	cfgErr := Config("token is required")
	assert.True(t, IsConfig(cfgErr))
	assert.False(t, IsTransient(cfgErr))

	assert.False(t, IsTransient(New(ErrorTypeAuth, CodeAuthFailed, "invalid token")))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(stderrors.New("plain")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Wrap(ErrorTypeNetwork, cause, "request %s", "wall.get")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "network error: request wall.get: connection reset", err.Error())
}

func TestErrorString(t *testing.T) {
	err := New(ErrorTypeAPI, 100, "one of the parameters specified was missing")
	assert.Equal(t, "api error (code 100): one of the parameters specified was missing", err.Error())
}

func TestIsRetryableStatusCode(t *testing.T) {
	assert.True(t, IsRetryableStatusCode(0))
	assert.True(t, IsRetryableStatusCode(429))
	assert.True(t, IsRetryableStatusCode(502))
	assert.False(t, IsRetryableStatusCode(404))
	assert.False(t, IsRetryableStatusCode(400))
}
