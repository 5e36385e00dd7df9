// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Code is a uwindow error code. Every fallible operation reports one
// of the codes below, either directly or wrapped in an *Error.
type Code int

const (
	Success Code = iota
	InvalidParam
	InvalidWindowState
	NotInitialised
	AlreadyInitialised
	NoDisplay
	NoRenderingDisplay
	RenderingDisplayInitFailed
	NoRenderingConfig
	NoRegistry
	NoCompositor
	NoWindowManagerBase
	FailedRenderingApiBind
	FailedToMakeContextCurrent
	FailedToSwapBuffers
	RoundtripFailed
	DispatchFailed
	FlushFailed
	FailedToCreateContext
	FailedToCreateSurface
	FailedToCreateRenderingSurface

	numCodes
)

var codeNames = [...]string{
	Success:                        "Success",
	InvalidParam:                   "InvalidParam",
	InvalidWindowState:             "InvalidWindowState",
	NotInitialised:                 "NotInitialised",
	AlreadyInitialised:             "AlreadyInitialised",
	NoDisplay:                      "NoDisplay",
	NoRenderingDisplay:             "NoRenderingDisplay",
	RenderingDisplayInitFailed:     "RenderingDisplayInitFailed",
	NoRenderingConfig:              "NoRenderingConfig",
	NoRegistry:                     "NoRegistry",
	NoCompositor:                   "NoCompositor",
	NoWindowManagerBase:            "NoWindowManagerBase",
	FailedRenderingApiBind:         "FailedRenderingApiBind",
	FailedToMakeContextCurrent:     "FailedToMakeContextCurrent",
	FailedToSwapBuffers:            "FailedToSwapBuffers",
	RoundtripFailed:                "RoundtripFailed",
	DispatchFailed:                 "DispatchFailed",
	FlushFailed:                    "FlushFailed",
	FailedToCreateContext:          "FailedToCreateContext",
	FailedToCreateSurface:          "FailedToCreateSurface",
	FailedToCreateRenderingSurface: "FailedToCreateRenderingSurface",
}

var codeMessages = [...]string{
	Success:                        "The operation completed successfully",
	InvalidParam:                   "An invalid parameter was passed to the function",
	InvalidWindowState:             "The window object is in an invalid state",
	NotInitialised:                 "uwindow has not been initialised, please call Init first",
	AlreadyInitialised:             "uwindow has already been initialised, please make sure Init is not called multiple times",
	NoDisplay:                      "Failed to connect to wayland display",
	NoRenderingDisplay:             "Failed to get EGL display",
	RenderingDisplayInitFailed:     "Failed to initialise EGL display",
	NoRenderingConfig:              "Failed to get a suitable RGB EGL config",
	NoRegistry:                     "Failed to get wayland registry",
	NoCompositor:                   "Failed to get wayland compositor",
	NoWindowManagerBase:            "Failed to get xdg_wm_base from wayland registry",
	FailedRenderingApiBind:         "Failed to bind thread to the OpenGL EGL API",
	FailedToMakeContextCurrent:     "Failed to set the EGL Context as the active one",
	FailedToSwapBuffers:            "Failed to swap EGL buffers",
	RoundtripFailed:                "Failed to wait for the wayland server to process pending requests",
	DispatchFailed:                 "Failed to dispatch events from wayland server event queue",
	FlushFailed:                    "Failed to flush display event queue",
	FailedToCreateContext:          "Failed to create an EGL context",
	FailedToCreateSurface:          "Failed to create the wayland surface objects for the window",
	FailedToCreateRenderingSurface: "Failed to create the EGL window surface",
}

// Codes returns every known code in ascending order.
func Codes() []Code {
	codes := make([]Code, numCodes)
	for i := range codes {
		codes[i] = Code(i)
	}
	return codes
}

const unknownMessage = "An unknown error occurred"

// ErrorString returns the human readable message for code. Codes
// outside the known range map to a generic message.
func ErrorString(code Code) string {
	if code < 0 || code >= numCodes {
		return unknownMessage
	}
	return codeMessages[code]
}

func (c Code) String() string {
	if c < 0 || c >= numCodes {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return codeNames[c]
}

// Error implements the error interface so that codes can be used as
// targets for errors.Is.
func (c Code) Error() string {
	return ErrorString(c)
}

// Error describes a failed operation.
type Error struct {
	Code Code
	// Op is the operation that failed, such as "init" or "create window".
	Op string
	// Err is the collaborator failure behind Code, if any.
	Err error
}

func newError(code Code, op string, cause error) *Error {
	e := &Error{Code: code, Op: op}
	if cause != nil {
		e.Err = goerrors.Wrap(cause, 1)
	}
	return e
}

func (e *Error) Error() string {
	msg := "uwindow: " + e.Op + ": " + ErrorString(e.Code)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is e's code or an *Error with the same code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Code:
		return t == e.Code
	case *Error:
		return t.Code == e.Code
	}
	return false
}

// Stack returns the stack trace recorded where the collaborator
// failure was first observed, or nil.
func (e *Error) Stack() []byte {
	var ge *goerrors.Error
	if errors.As(e.Err, &ge) {
		return ge.Stack()
	}
	return nil
}

// CodeOf extracts the code from err. A nil err is Success; an error
// that carries no code is reported as -1, which ErrorString maps to
// the unknown message.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return -1
}
