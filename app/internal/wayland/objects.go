// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux && !android && !nowayland && cgo

package wayland

import (
	"unsafe"

	"github.com/go-errors/errors"

	"github.com/uwindow/uwindow/app/internal/driver"
)

/*
#include <stdlib.h>
#include <wayland-client.h>
#include "wayland_xdg_shell.h"
#include "wayland_listeners.h"
*/
import "C"

type Compositor struct {
	c *C.struct_wl_compositor
}

func (c *Compositor) CreateSurface() (driver.Surface, error) {
	surf := C.wl_compositor_create_surface(c.c)
	if surf == nil {
		return nil, errors.New("wayland: wl_compositor_create_surface failed")
	}
	return &Surface{surf: surf}, nil
}

func (c *Compositor) Destroy() {
	if c.c != nil {
		C.wl_compositor_destroy(c.c)
		c.c = nil
	}
}

type WmBase struct {
	wm *C.struct_xdg_wm_base
}

func (w *WmBase) GetXdgSurface(s driver.Surface) (driver.XdgSurface, error) {
	surf := s.(*Surface)
	wmSurf := C.xdg_wm_base_get_xdg_surface(w.wm, surf.surf)
	if wmSurf == nil {
		return nil, errors.New("wayland: xdg_wm_base_get_xdg_surface failed")
	}
	x := &XdgSurface{s: wmSurf}
	xdgSurfaces[wmSurf] = x
	C.uwin_xdg_surface_add_listener(wmSurf)
	return x, nil
}

func (w *WmBase) Pong(serial uint32) {
	C.xdg_wm_base_pong(w.wm, C.uint32_t(serial))
}

func (w *WmBase) Destroy() {
	if w.wm != nil {
		delete(wmBases, w.wm)
		C.xdg_wm_base_destroy(w.wm)
		w.wm = nil
	}
}

type Surface struct {
	surf *C.struct_wl_surface
}

func (s *Surface) Commit() {
	C.wl_surface_commit(s.surf)
}

func (s *Surface) Native() unsafe.Pointer {
	return unsafe.Pointer(s.surf)
}

func (s *Surface) Destroy() {
	if s.surf != nil {
		C.wl_surface_destroy(s.surf)
		s.surf = nil
	}
}

type XdgSurface struct {
	s *C.struct_xdg_surface
}

func (x *XdgSurface) GetToplevel() (driver.Toplevel, error) {
	topLvl := C.xdg_surface_get_toplevel(x.s)
	if topLvl == nil {
		return nil, errors.New("wayland: xdg_surface_get_toplevel failed")
	}
	t := &Toplevel{t: topLvl}
	toplevels[topLvl] = t
	C.uwin_xdg_toplevel_add_listener(topLvl)
	return t, nil
}

func (x *XdgSurface) AckConfigure(serial uint32) {
	C.xdg_surface_ack_configure(x.s, C.uint32_t(serial))
}

func (x *XdgSurface) Destroy() {
	if x.s != nil {
		delete(xdgSurfaces, x.s)
		C.xdg_surface_destroy(x.s)
		x.s = nil
	}
}

type Toplevel struct {
	t *C.struct_xdg_toplevel
}

func (t *Toplevel) SetTitle(title string) {
	ctitle := C.CString(title)
	C.xdg_toplevel_set_title(t.t, ctitle)
	C.free(unsafe.Pointer(ctitle))
}

func (t *Toplevel) SetAppID(id string) {
	cid := C.CString(id)
	C.xdg_toplevel_set_app_id(t.t, cid)
	C.free(unsafe.Pointer(cid))
}

func (t *Toplevel) SetFullscreen() {
	C.xdg_toplevel_set_fullscreen(t.t, nil)
}

func (t *Toplevel) UnsetFullscreen() {
	C.xdg_toplevel_unset_fullscreen(t.t)
}

func (t *Toplevel) Destroy() {
	if t.t != nil {
		delete(toplevels, t.t)
		C.xdg_toplevel_destroy(t.t)
		t.t = nil
	}
}
