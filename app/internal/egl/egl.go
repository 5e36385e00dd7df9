// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux && !android && !nowayland && cgo

// Package egl implements the rendering collaborator with EGL on
// Wayland native windows.
package egl

import (
	"unsafe"

	"github.com/go-errors/errors"

	"github.com/uwindow/uwindow/app/internal/driver"
)

/*
#cgo LDFLAGS: -lEGL -lwayland-egl
#cgo CFLAGS: -DWL_EGL_PLATFORM -DEGL_NO_X11
#cgo freebsd CFLAGS: -I/usr/local/include
#cgo freebsd LDFLAGS: -L/usr/local/lib

#include <wayland-client.h>
#include <wayland-egl.h>
#include <EGL/egl.h>
*/
import "C"

type (
	_EGLint     = C.EGLint
	_EGLDisplay = C.EGLDisplay
	_EGLConfig  = C.EGLConfig
	_EGLContext = C.EGLContext
	_EGLSurface = C.EGLSurface
)

const (
	_EGL_BLUE_SIZE              = 0x3022
	_EGL_CONTEXT_CLIENT_VERSION = 0x3098
	_EGL_GREEN_SIZE             = 0x3023
	_EGL_NONE                   = 0x3038
	_EGL_OPENGL_API             = 0x30a2
	_EGL_OPENGL_BIT             = 0x8
	_EGL_OPENGL_ES2_BIT         = 0x4
	_EGL_OPENGL_ES_API          = 0x30a0
	_EGL_RED_SIZE               = 0x3024
	_EGL_RENDERABLE_TYPE        = 0x3040
	_EGL_SURFACE_TYPE           = 0x3033
	_EGL_WINDOW_BIT             = 0x4
)

var (
	nilEGLDisplay _EGLDisplay
	nilEGLSurface _EGLSurface
	nilEGLContext _EGLContext
	nilEGLConfig  _EGLConfig
)

// Display is an EGL display bound to a Wayland connection.
type Display struct {
	disp        _EGLDisplay
	initialised bool
}

type config struct {
	cfg _EGLConfig
	api driver.API
}

// Open binds EGL to the wl_display at native.
func Open(native unsafe.Pointer) (*Display, error) {
	disp := C.eglGetDisplay(C.EGLNativeDisplayType(native))
	if disp == nilEGLDisplay {
		return nil, errors.Errorf("eglGetDisplay failed: 0x%x", eglGetError())
	}
	return &Display{disp: disp}, nil
}

func (d *Display) Initialize() (int, int, error) {
	var major, minor _EGLint
	if !eglOK(C.eglInitialize(d.disp, &major, &minor)) {
		return 0, 0, errors.Errorf("eglInitialize failed: 0x%x", eglGetError())
	}
	d.initialised = true
	return int(major), int(minor), nil
}

func (d *Display) ChooseConfig(spec driver.ConfigSpec) (driver.Config, error) {
	renderable := _EGLint(_EGL_OPENGL_BIT)
	if spec.API == driver.OpenGLES {
		renderable = _EGL_OPENGL_ES2_BIT
	}
	attribs := []_EGLint{
		_EGL_RENDERABLE_TYPE, renderable,
		_EGL_SURFACE_TYPE, _EGL_WINDOW_BIT,
		_EGL_RED_SIZE, _EGLint(spec.RedBits),
		_EGL_GREEN_SIZE, _EGLint(spec.GreenBits),
		_EGL_BLUE_SIZE, _EGLint(spec.BlueBits),
		_EGL_NONE,
	}
	var (
		cfg _EGLConfig
		n   _EGLint
	)
	if !eglOK(C.eglChooseConfig(d.disp, &attribs[0], &cfg, 1, &n)) {
		return nil, errors.Errorf("eglChooseConfig failed: 0x%x", eglGetError())
	}
	if n == 0 || cfg == nilEGLConfig {
		return nil, errors.New("eglChooseConfig returned 0 configs")
	}
	return config{cfg: cfg, api: spec.API}, nil
}

func (d *Display) BindAPI(api driver.API) error {
	var eglAPI C.EGLenum = _EGL_OPENGL_API
	if api == driver.OpenGLES {
		eglAPI = _EGL_OPENGL_ES_API
	}
	if !eglOK(C.eglBindAPI(eglAPI)) {
		return errors.Errorf("eglBindAPI(%s) failed: 0x%x", api, eglGetError())
	}
	return nil
}

func (d *Display) CreateContext(c driver.Config) (driver.RenderContext, error) {
	cfg := c.(config)
	var attribs []_EGLint
	if cfg.api == driver.OpenGLES {
		attribs = append(attribs, _EGL_CONTEXT_CLIENT_VERSION, 2)
	}
	attribs = append(attribs, _EGL_NONE)
	ctx := C.eglCreateContext(d.disp, cfg.cfg, nilEGLContext, &attribs[0])
	if ctx == nilEGLContext {
		return nil, errors.Errorf("eglCreateContext failed: 0x%x", eglGetError())
	}
	return &Context{disp: d.disp, ctx: ctx}, nil
}

func (d *Display) CreateBuffer(s driver.Surface, width, height int32) (driver.Buffer, error) {
	surf := (*C.struct_wl_surface)(s.Native())
	win := C.wl_egl_window_create(surf, C.int(width), C.int(height))
	if win == nil {
		return nil, errors.New("wl_egl_window_create failed")
	}
	return &Buffer{win: win}, nil
}

func (d *Display) CreateWindowSurface(c driver.Config, b driver.Buffer) (driver.RenderSurface, error) {
	cfg := c.(config)
	win := C.EGLNativeWindowType(b.(*Buffer).win)
	attribs := []_EGLint{_EGL_NONE}
	surf := C.eglCreateWindowSurface(d.disp, cfg.cfg, win, &attribs[0])
	if surf == nilEGLSurface {
		return nil, errors.Errorf("eglCreateWindowSurface failed: 0x%x", eglGetError())
	}
	return &Surface{disp: d.disp, surf: surf}, nil
}

func (d *Display) MakeCurrent(s driver.RenderSurface, c driver.RenderContext) error {
	surf := s.(*Surface).surf
	if !eglOK(C.eglMakeCurrent(d.disp, surf, surf, c.(*Context).ctx)) {
		return errors.Errorf("eglMakeCurrent failed: 0x%x", eglGetError())
	}
	return nil
}

func (d *Display) SwapBuffers(s driver.RenderSurface) error {
	if !eglOK(C.eglSwapBuffers(d.disp, s.(*Surface).surf)) {
		return errors.Errorf("eglSwapBuffers failed: 0x%x", eglGetError())
	}
	return nil
}

// Terminate releases the display. It is safe to call on a display
// whose initialisation failed.
func (d *Display) Terminate() {
	if d.disp == nilEGLDisplay {
		return
	}
	if d.initialised {
		C.eglMakeCurrent(d.disp, nilEGLSurface, nilEGLSurface, nilEGLContext)
	}
	C.eglTerminate(d.disp)
	C.eglReleaseThread()
	d.disp = nilEGLDisplay
	d.initialised = false
}

type Context struct {
	disp _EGLDisplay
	ctx  _EGLContext
}

func (c *Context) Destroy() {
	if c.ctx != nilEGLContext {
		C.eglDestroyContext(c.disp, c.ctx)
		c.ctx = nilEGLContext
	}
}

type Surface struct {
	disp _EGLDisplay
	surf _EGLSurface
}

func (s *Surface) Destroy() {
	if s.surf != nilEGLSurface {
		C.eglDestroySurface(s.disp, s.surf)
		s.surf = nilEGLSurface
	}
}

// Buffer is a wl_egl_window.
type Buffer struct {
	win *C.struct_wl_egl_window
}

func (b *Buffer) Resize(width, height int32) {
	C.wl_egl_window_resize(b.win, C.int(width), C.int(height), 0, 0)
}

func (b *Buffer) Destroy() {
	if b.win != nil {
		C.wl_egl_window_destroy(b.win)
		b.win = nil
	}
}

func eglOK(b C.EGLBoolean) bool {
	return b != 0
}

func eglGetError() _EGLint {
	return C.eglGetError()
}
