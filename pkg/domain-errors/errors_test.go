package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeConflict, "already scanning")
		assert.True(t, HasCode(err, CodeConflict))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("matches wrapped code", func(t *testing.T) {
		inner := New(CodeIllegalTransition, "offboarded is terminal")
		err := Wrap(inner, CodeConflict, "transition rejected")
		assert.True(t, HasCode(err, CodeIllegalTransition))
		assert.True(t, HasCode(err, CodeConflict))
	})

	t.Run("survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("service: %w", New(CodeValidation, "hits unresolved"))
		assert.True(t, Is(err, CodeValidation))
		assert.Equal(t, CodeValidation, CodeOf(err))
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "nothing"))
}

func TestMessageOf(t *testing.T) {
	err := Wrap(errors.New("redis down"), CodeUnavailable, "risk cache unavailable")
	assert.Equal(t, "risk cache unavailable", MessageOf(err))
	assert.Contains(t, err.Error(), "redis down")
}
