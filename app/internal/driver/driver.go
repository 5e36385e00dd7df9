// SPDX-License-Identifier: Unlicense OR MIT

// Package driver declares the contract between the window core and
// the display protocol and rendering API implementations.
//
// Protocol objects are compared by identity: implementations must use
// comparable (pointer) types so they can key the core's dispatch table.
package driver

import "unsafe"

// Platform creates connections and rendering displays.
type Platform interface {
	// Connect opens a connection to the named display server. An empty
	// name selects the default server. Events received on the
	// connection are delivered to h while the connection is pumped.
	Connect(name string, h Handler) (Conn, error)
	// OpenDisplay binds the rendering API to an open connection.
	OpenDisplay(c Conn) (RenderDisplay, error)
}

// Conn is a connection to a display server.
type Conn interface {
	// Registry returns the global object registry. Globals are
	// announced through Handler.Global as the connection is pumped.
	Registry() (Registry, error)
	// Roundtrip flushes queued requests and blocks until the server
	// has processed them, dispatching the events that arrive meanwhile.
	Roundtrip() error
	// Dispatch blocks until at least one event is available and
	// dispatches it.
	Dispatch() error
	// DispatchPending dispatches already buffered events without
	// reading from the connection.
	DispatchPending() error
	// Flush sends queued requests.
	Flush() error
	Disconnect()
	// Native returns the native display handle for the rendering API.
	Native() unsafe.Pointer
}

type Registry interface {
	BindCompositor(name, version uint32) (Compositor, error)
	BindWmBase(name, version uint32) (WmBase, error)
	Destroy()
}

type Compositor interface {
	CreateSurface() (Surface, error)
	Destroy()
}

// WmBase is the xdg_wm_base global.
type WmBase interface {
	GetXdgSurface(s Surface) (XdgSurface, error)
	Pong(serial uint32)
	Destroy()
}

type Surface interface {
	Commit()
	Destroy()
	Native() unsafe.Pointer
}

// XdgSurface is the xdg_surface role object wrapping a Surface.
type XdgSurface interface {
	GetToplevel() (Toplevel, error)
	AckConfigure(serial uint32)
	Destroy()
}

type Toplevel interface {
	SetTitle(title string)
	SetAppID(id string)
	SetFullscreen()
	UnsetFullscreen()
	Destroy()
}

// Handler receives the events of a connection.
type Handler interface {
	Global(name uint32, iface string, version uint32)
	GlobalRemove(name uint32)
	Ping(wm WmBase, serial uint32)
	ToplevelConfigure(t Toplevel, width, height int32)
	ToplevelClose(t Toplevel)
	SurfaceConfigure(s XdgSurface, serial uint32)
}

// Well-known global interface names.
const (
	CompositorInterface = "wl_compositor"
	WmBaseInterface     = "xdg_wm_base"
)
