// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	seen := make(map[string]Code)
	require.Len(t, Codes(), int(numCodes))
	for _, c := range Codes() {
		msg := ErrorString(c)
		require.NotEmpty(t, msg, c.String())
		if prev, dup := seen[msg]; dup {
			t.Errorf("%v and %v share the message %q", prev, c, msg)
		}
		seen[msg] = c
		assert.NotEqual(t, unknownMessage, msg)
		assert.NotContains(t, c.String(), "Code(")
	}
	assert.Equal(t, unknownMessage, ErrorString(-1))
	assert.Equal(t, unknownMessage, ErrorString(numCodes))
	assert.Equal(t, unknownMessage, ErrorString(1000))
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "NoDisplay", NoDisplay.String())
	assert.Equal(t, "Code(99)", Code(99).String())
	assert.Equal(t, ErrorString(NoCompositor), NoCompositor.Error())
}

func TestError(t *testing.T) {
	cause := errors.New("connection refused")
	err := newError(NoDisplay, "init", cause)

	assert.Equal(t, "uwindow: init: Failed to connect to wayland display: connection refused", err.Error())
	assert.ErrorIs(t, err, NoDisplay)
	assert.ErrorIs(t, err, &Error{Code: NoDisplay})
	assert.NotErrorIs(t, err, NoCompositor)
	assert.ErrorIs(t, err, cause)
	assert.NotEmpty(t, err.Stack())

	bare := newError(InvalidParam, "set title", nil)
	assert.Equal(t, "uwindow: set title: "+ErrorString(InvalidParam), bare.Error())
	assert.Nil(t, bare.Unwrap())
	assert.Nil(t, bare.Stack())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Success, CodeOf(nil))
	assert.Equal(t, FlushFailed, CodeOf(FlushFailed))
	assert.Equal(t, Code(-1), CodeOf(errors.New("other")))

	err := fmt.Errorf("frame: %w", newError(DispatchFailed, "process events", RoundtripFailed))
	assert.Equal(t, DispatchFailed, CodeOf(err))
	assert.Equal(t, unknownMessage, ErrorString(CodeOf(errors.New("other"))))
}
