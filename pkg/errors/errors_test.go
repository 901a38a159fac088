package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesType(t *testing.T) {
	err := NewFeed("page fetch", errors.New("timeout"))

	wrapped := Wrap(err, "cycle aborted")

	assert.True(t, IsFeed(wrapped))
	assert.Contains(t, wrapped.Error(), "cycle aborted")
	assert.Contains(t, wrapped.Error(), "page fetch")
}

func TestWrap_DefaultsToInternal(t *testing.T) {
	wrapped := Wrap(errors.New("boom"), "unexpected")

	assert.True(t, IsInternal(wrapped))
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStore("apply failed", cause)

	assert.ErrorIs(t, err, cause)
}
