package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithFallbackSuccess(t *testing.T) {
	entry := quietLogger().WithField("signal", "test")

	value, ok := withFallback(entry, 0, func() (int, error) {
		return 42, nil
	})

	assert.True(t, ok)
	assert.Equal(t, 42, value)
}

func TestWithFallbackError(t *testing.T) {
	entry := quietLogger().WithField("signal", "test")

	value, ok := withFallback(entry, "fallback", func() (string, error) {
		return "", errors.New("collaborator down")
	})

	assert.False(t, ok)
	assert.Equal(t, "fallback", value)
}

func TestWithFallbackRecoversPanic(t *testing.T) {
	entry := quietLogger().WithField("signal", "test")

	value, ok := withFallback(entry, 7, func() (int, error) {
		panic("adapter bug")
	})

	assert.False(t, ok)
	assert.Equal(t, 7, value)
}
