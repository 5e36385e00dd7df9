// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux && !android && !nowayland && cgo

// Package wayland implements the display protocol collaborator on top
// of libwayland-client and the xdg-shell extension.
package wayland

import (
	"unsafe"

	"github.com/go-errors/errors"
	syscall "golang.org/x/sys/unix"

	"github.com/uwindow/uwindow/app/internal/driver"
)

/*
#cgo LDFLAGS: -lwayland-client
#cgo freebsd CFLAGS: -I/usr/local/include
#cgo freebsd LDFLAGS: -L/usr/local/lib

#include <stdlib.h>
#include <wayland-client.h>
#include "wayland_xdg_shell.h"
#include "wayland_listeners.h"
*/
import "C"

// Conn is a connection to a Wayland compositor. Only one connection
// may be open at a time.
type Conn struct {
	disp    *C.struct_wl_display
	handler driver.Handler
}

var conn *Conn

// Protocol objects by C pointer, for routing events to their wrappers.
var (
	wmBases     = make(map[*C.struct_xdg_wm_base]*WmBase)
	xdgSurfaces = make(map[*C.struct_xdg_surface]*XdgSurface)
	toplevels   = make(map[*C.struct_xdg_toplevel]*Toplevel)
)

// Connect opens a connection to the named compositor socket, or to
// the default one if name is empty.
func Connect(name string, h driver.Handler) (*Conn, error) {
	if conn != nil {
		return nil, errors.New("wayland: already connected")
	}
	var cname *C.char
	if name != "" {
		cname = C.CString(name)
		defer C.free(unsafe.Pointer(cname))
	}
	disp, err := C.wl_display_connect(cname)
	if disp == nil {
		return nil, errors.Errorf("wayland: wl_display_connect(%q) failed: %v", name, err)
	}
	conn = &Conn{disp: disp, handler: h}
	return conn, nil
}

func (c *Conn) Native() unsafe.Pointer {
	return unsafe.Pointer(c.disp)
}

func (c *Conn) Registry() (driver.Registry, error) {
	reg := C.wl_display_get_registry(c.disp)
	if reg == nil {
		return nil, errors.New("wayland: wl_display_get_registry failed")
	}
	C.uwin_wl_registry_add_listener(reg)
	return &Registry{reg: reg}, nil
}

func (c *Conn) Roundtrip() error {
	if ret, err := C.wl_display_roundtrip(c.disp); ret < 0 {
		return c.failure("wl_display_roundtrip", err)
	}
	return nil
}

func (c *Conn) DispatchPending() error {
	if ret, err := C.wl_display_dispatch_pending(c.disp); ret < 0 {
		return c.failure("wl_display_dispatch_pending", err)
	}
	return nil
}

// Flush sends the queued requests. A full socket buffer is not an
// error; the remaining requests go out with the next flush.
func (c *Conn) Flush() error {
	if err := c.flush(); err != nil && err != syscall.EAGAIN {
		return err
	}
	return nil
}

// flush is Flush reporting a full socket buffer as syscall.EAGAIN.
func (c *Conn) flush() error {
	if ret, err := C.wl_display_flush(c.disp); ret < 0 {
		if err == syscall.EAGAIN {
			return err
		}
		return c.failure("wl_display_flush", err)
	}
	return nil
}

// Dispatch blocks until events arrive on the display socket and
// dispatches them. Already queued events are dispatched without
// blocking.
func (c *Conn) Dispatch() error {
	if C.wl_display_prepare_read(c.disp) != 0 {
		return c.DispatchPending()
	}
	if err := waitReadable(int32(C.wl_display_get_fd(c.disp)), c.flush); err != nil {
		C.wl_display_cancel_read(c.disp)
		return err
	}
	if ret, err := C.wl_display_read_events(c.disp); ret < 0 {
		return c.failure("wl_display_read_events", err)
	}
	return c.DispatchPending()
}

func (c *Conn) failure(call string, err error) error {
	if perr := C.wl_display_get_error(c.disp); perr != 0 {
		return errors.Errorf("wayland: %s failed: %v (display error %d)", call, err, int(perr))
	}
	return errors.Errorf("wayland: %s failed: %v", call, err)
}

// Disconnect closes the connection. Objects created from it must not
// be used afterwards.
func (c *Conn) Disconnect() {
	if c.disp == nil {
		return
	}
	C.wl_display_disconnect(c.disp)
	c.disp = nil
	if conn == c {
		conn = nil
	}
	clear(wmBases)
	clear(xdgSurfaces)
	clear(toplevels)
}

type Registry struct {
	reg *C.struct_wl_registry
}

func (r *Registry) BindCompositor(name, version uint32) (driver.Compositor, error) {
	p := C.wl_registry_bind(r.reg, C.uint32_t(name), &C.wl_compositor_interface, C.uint32_t(version))
	if p == nil {
		return nil, errors.New("wayland: binding wl_compositor failed")
	}
	return &Compositor{c: (*C.struct_wl_compositor)(p)}, nil
}

func (r *Registry) BindWmBase(name, version uint32) (driver.WmBase, error) {
	p := C.wl_registry_bind(r.reg, C.uint32_t(name), &C.xdg_wm_base_interface, C.uint32_t(version))
	if p == nil {
		return nil, errors.New("wayland: binding xdg_wm_base failed")
	}
	wm := &WmBase{wm: (*C.struct_xdg_wm_base)(p)}
	wmBases[wm.wm] = wm
	C.uwin_xdg_wm_base_add_listener(wm.wm)
	return wm, nil
}

func (r *Registry) Destroy() {
	if r.reg != nil {
		C.wl_registry_destroy(r.reg)
		r.reg = nil
	}
}

//export uwin_onRegistryGlobal
func uwin_onRegistryGlobal(data unsafe.Pointer, reg *C.struct_wl_registry, name C.uint32_t, cintf *C.char, version C.uint32_t) {
	if conn == nil {
		return
	}
	conn.handler.Global(uint32(name), C.GoString(cintf), uint32(version))
}

//export uwin_onRegistryGlobalRemove
func uwin_onRegistryGlobalRemove(data unsafe.Pointer, reg *C.struct_wl_registry, name C.uint32_t) {
	if conn == nil {
		return
	}
	conn.handler.GlobalRemove(uint32(name))
}

//export uwin_onXdgWmBasePing
func uwin_onXdgWmBasePing(data unsafe.Pointer, wm *C.struct_xdg_wm_base, serial C.uint32_t) {
	if w, ok := wmBases[wm]; ok && conn != nil {
		conn.handler.Ping(w, uint32(serial))
		return
	}
	// Unknown objects must still answer, or the compositor deems the
	// client unresponsive.
	C.xdg_wm_base_pong(wm, serial)
}

//export uwin_onXdgSurfaceConfigure
func uwin_onXdgSurfaceConfigure(data unsafe.Pointer, wmSurf *C.struct_xdg_surface, serial C.uint32_t) {
	if s, ok := xdgSurfaces[wmSurf]; ok && conn != nil {
		conn.handler.SurfaceConfigure(s, uint32(serial))
	}
}

//export uwin_onToplevelConfigure
func uwin_onToplevelConfigure(data unsafe.Pointer, topLvl *C.struct_xdg_toplevel, width, height C.int32_t, states *C.struct_wl_array) {
	if t, ok := toplevels[topLvl]; ok && conn != nil {
		conn.handler.ToplevelConfigure(t, int32(width), int32(height))
	}
}

//export uwin_onToplevelClose
func uwin_onToplevelClose(data unsafe.Pointer, topLvl *C.struct_xdg_toplevel) {
	if t, ok := toplevels[topLvl]; ok && conn != nil {
		conn.handler.ToplevelClose(t)
	}
}
