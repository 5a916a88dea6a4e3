package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrappedError(t *testing.T) {
	base := NotFound("get item", "item %q not found", "Fix bug")
	wrapped := fmt.Errorf("deleting checklist: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrConflict))
	assert.Equal(t, `item "Fix bug" not found`, Message(wrapped))
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	err := errors.New("disk full")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "internal error", Message(err))
}

func TestWrapPreservesKind(t *testing.T) {
	conflict := Conflict("create agent", "agent with this email already exists")
	assert.Same(t, conflict, Wrap("signup", conflict))

	raw := errors.New("connection reset")
	wrapped := Wrap("list items", raw)
	assert.Equal(t, KindInternal, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, raw)
	assert.Equal(t, "error during list items", Message(wrapped))

	assert.NoError(t, Wrap("noop", nil))
}

func TestErrorString(t *testing.T) {
	err := Validation("update progress", "progress must be between 0 and 100")
	assert.Equal(t, "update progress: progress must be between 0 and 100", err.Error())
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "unauthorized", KindUnauthorized.String())
}
