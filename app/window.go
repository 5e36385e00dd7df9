// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"github.com/uwindow/uwindow/app/internal/driver"
)

// Window is an on-screen surface with a rendering context. A Window is
// either fully created, with every protocol and rendering object
// allocated, or zero. The zero Window is ready for Create.
type Window struct {
	lib *Library
	gen uint64
	seq uint64

	preferredWidth, preferredHeight int32
	// The negotiated size, written only by the configure handshake.
	currentWidth, currentHeight int32
	resizeNeeded                bool
	state                       configureState

	onResize       func(width, height int32)
	onClose        func()
	closeRequested bool

	surface    driver.Surface
	xdgSurface driver.XdgSurface
	toplevel   driver.Toplevel

	buffer        driver.Buffer
	renderSurface driver.RenderSurface
	context       driver.RenderContext
}

// NewWindow allocates and creates a window. See Window.Create.
func NewWindow(lib *Library, title string, preferredWidth, preferredHeight int32) (*Window, error) {
	w := new(Window)
	if err := w.Create(lib, title, preferredWidth, preferredHeight); err != nil {
		return nil, err
	}
	return w, nil
}

// Create opens the window on lib's display. A zero preferred dimension
// is replaced by the library default. Create returns once the
// compositor has configured the window, so Size reports the size the
// compositor chose.
//
// As a side effect, the new window's context is made current. Programs
// with several windows must call MakeCurrent before drawing into
// another one.
//
// On failure everything allocated is released and w is left zero.
func (w *Window) Create(lib *Library, title string, preferredWidth, preferredHeight int32) error {
	const op = "create window"
	if lib == nil || !lib.initialised {
		return newError(NotInitialised, op, nil)
	}
	if title == "" || preferredWidth < 0 || preferredHeight < 0 {
		return newError(InvalidParam, op, nil)
	}
	if w.surface != nil || w.xdgSurface != nil || w.toplevel != nil ||
		w.buffer != nil || w.renderSurface != nil || w.context != nil {
		return newError(InvalidWindowState, op, nil)
	}
	if preferredWidth == 0 {
		preferredWidth = lib.cnf.DefaultWidth
	}
	if preferredHeight == 0 {
		preferredHeight = lib.cnf.DefaultHeight
	}
	*w = Window{
		lib:             lib,
		gen:             lib.gen,
		preferredWidth:  preferredWidth,
		preferredHeight: preferredHeight,
		currentWidth:    preferredWidth,
		currentHeight:   preferredHeight,
	}
	if err := w.create(op, title); err != nil {
		lib.warn("window creation failed, releasing resources", "title", title, "err", err)
		w.release()
		return err
	}
	lib.debug("window created", "title", title, "width", w.currentWidth, "height", w.currentHeight)
	return nil
}

func (w *Window) create(op, title string) error {
	l := w.lib
	if err := l.display.BindAPI(l.cnf.API); err != nil {
		return newError(FailedRenderingApiBind, op, err)
	}
	ctx, err := l.display.CreateContext(l.config)
	if err != nil {
		return newError(FailedToCreateContext, op, err)
	}
	w.context = ctx

	surf, err := l.compositor.CreateSurface()
	if err != nil {
		return newError(FailedToCreateSurface, op, err)
	}
	w.surface = surf
	xdgSurf, err := l.wmBase.GetXdgSurface(surf)
	if err != nil {
		return newError(FailedToCreateSurface, op, err)
	}
	w.xdgSurface = xdgSurf
	topLvl, err := xdgSurf.GetToplevel()
	if err != nil {
		return newError(FailedToCreateSurface, op, err)
	}
	w.toplevel = topLvl
	l.register(w)
	topLvl.SetTitle(title)
	if l.cnf.AppID != "" {
		topLvl.SetAppID(l.cnf.AppID)
	}

	// The initial commit without a buffer asks the compositor for the
	// first configure.
	surf.Commit()
	if err := l.pumpBlocking(op); err != nil {
		return err
	}

	buf, err := l.display.CreateBuffer(surf, w.currentWidth, w.currentHeight)
	if err != nil {
		return newError(FailedToCreateRenderingSurface, op, err)
	}
	w.buffer = buf
	rs, err := l.display.CreateWindowSurface(l.config, buf)
	if err != nil {
		return newError(FailedToCreateRenderingSurface, op, err)
	}
	w.renderSurface = rs

	// Presenting the first frame maps the window, after which the
	// compositor sends its authoritative configure.
	if err := w.makeCurrent(op); err != nil {
		return err
	}
	if err := w.swapBuffers(op); err != nil {
		return err
	}
	return l.pumpBlocking(op)
}

// Valid reports whether w is fully created.
func (w *Window) Valid() bool {
	return w.surface != nil && w.xdgSurface != nil && w.toplevel != nil &&
		w.buffer != nil && w.renderSurface != nil && w.context != nil
}

func (w *Window) check(op string) error {
	if w.lib == nil || !w.lib.initialised {
		return newError(NotInitialised, op, nil)
	}
	if w.lib.gen != w.gen || !w.Valid() {
		return newError(InvalidWindowState, op, nil)
	}
	return nil
}

// Size returns the current negotiated size.
func (w *Window) Size() (width, height int32) {
	return w.currentWidth, w.currentHeight
}

// PreferredSize returns the size requested at creation, after default
// substitution.
func (w *Window) PreferredSize() (width, height int32) {
	return w.preferredWidth, w.preferredHeight
}

// SetResizeCallback sets the function called with the new size each
// time a resize negotiated with the compositor is applied. The callback
// runs from ProcessEvents or ProcessEventsBlocking.
func (w *Window) SetResizeCallback(cb func(width, height int32)) error {
	const op = "set resize callback"
	if err := w.check(op); err != nil {
		return err
	}
	if cb == nil {
		return newError(InvalidParam, op, nil)
	}
	w.onResize = cb
	return nil
}

// SetCloseCallback sets the function called when the compositor asks
// for the window to be closed. The window stays open; closing it is up
// to the program.
func (w *Window) SetCloseCallback(cb func()) error {
	const op = "set close callback"
	if err := w.check(op); err != nil {
		return err
	}
	if cb == nil {
		return newError(InvalidParam, op, nil)
	}
	w.onClose = cb
	return nil
}

// CloseRequested reports whether the compositor asked for the window to
// be closed.
func (w *Window) CloseRequested() bool {
	return w.closeRequested
}

func (w *Window) requestClose() {
	w.closeRequested = true
	if cb := w.onClose; cb != nil {
		cb()
	}
}

// MakeCurrent binds the window's rendering context to the calling
// thread for subsequent drawing.
func (w *Window) MakeCurrent() error {
	const op = "make current"
	if err := w.check(op); err != nil {
		return err
	}
	return w.makeCurrent(op)
}

func (w *Window) makeCurrent(op string) error {
	if err := w.lib.display.MakeCurrent(w.renderSurface, w.context); err != nil {
		return newError(FailedToMakeContextCurrent, op, err)
	}
	return nil
}

// SwapBuffers presents the back buffer.
func (w *Window) SwapBuffers() error {
	const op = "swap buffers"
	if err := w.check(op); err != nil {
		return err
	}
	return w.swapBuffers(op)
}

func (w *Window) swapBuffers(op string) error {
	if err := w.lib.display.SwapBuffers(w.renderSurface); err != nil {
		return newError(FailedToSwapBuffers, op, err)
	}
	return nil
}

// SetFullscreen asks the compositor to enter or leave fullscreen. The
// resulting size change arrives as a regular resize.
func (w *Window) SetFullscreen(fullscreen bool) error {
	if err := w.check("set fullscreen"); err != nil {
		return err
	}
	if fullscreen {
		w.toplevel.SetFullscreen()
	} else {
		w.toplevel.UnsetFullscreen()
	}
	return nil
}

// SetTitle changes the window title.
func (w *Window) SetTitle(title string) error {
	const op = "set title"
	if err := w.check(op); err != nil {
		return err
	}
	if title == "" {
		return newError(InvalidParam, op, nil)
	}
	w.toplevel.SetTitle(title)
	return nil
}

// Destroy releases every resource held by w and resets it to zero. It
// is safe to call on a zero, partially created or already destroyed
// window, and after the library has been finished.
func (w *Window) Destroy() {
	w.release()
}

func (w *Window) release() {
	l := w.lib
	if l != nil && l.initialised && l.gen == w.gen {
		l.unregister(w)
		// Dependents before the objects they were created from.
		if w.renderSurface != nil {
			w.renderSurface.Destroy()
		}
		if w.buffer != nil {
			w.buffer.Destroy()
		}
		if w.toplevel != nil {
			w.toplevel.Destroy()
		}
		if w.xdgSurface != nil {
			w.xdgSurface.Destroy()
		}
		if w.surface != nil {
			w.surface.Destroy()
		}
		if w.context != nil {
			w.context.Destroy()
		}
		l.debug("window destroyed", "seq", w.seq)
	}
	*w = Window{}
}
