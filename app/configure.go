// SPDX-License-Identifier: Unlicense OR MIT

package app

import "fmt"

// configureState tracks a window through the xdg configure sequence:
// the toplevel proposes a size, the surface configure commits it.
type configureState uint8

const (
	unconfigured configureState = iota
	sizeProposed
	applied
)

func (s configureState) String() string {
	switch s {
	case unconfigured:
		return "unconfigured"
	case sizeProposed:
		return "size proposed"
	case applied:
		return "applied"
	default:
		return fmt.Sprintf("configureState(%d)", uint8(s))
	}
}

// proposeSize handles xdg_toplevel.configure. A zero dimension leaves
// the choice to the client, which picks its preferred size. Proposals
// equal to the current size are dropped.
func (w *Window) proposeSize(width, height int32) {
	if width <= 0 {
		width = w.preferredWidth
	}
	if height <= 0 {
		height = w.preferredHeight
	}
	if width == w.currentWidth && height == w.currentHeight {
		return
	}
	w.currentWidth, w.currentHeight = width, height
	w.resizeNeeded = true
	w.state = sizeProposed
	w.lib.debug("size proposed", "seq", w.seq, "state", w.state, "width", width, "height", height)
}

// applyConfigure handles xdg_surface.configure, the point where the
// proposals received since the previous one take effect. The configure
// must be acknowledged in every case, or the compositor stops
// configuring the surface.
func (w *Window) applyConfigure(serial uint32) {
	l, xdgSurf := w.lib, w.xdgSurface
	if w.resizeNeeded {
		width, height := w.currentWidth, w.currentHeight
		// The buffer is created after the first configure, at the
		// negotiated size.
		if w.buffer != nil {
			w.buffer.Resize(width, height)
		}
		w.resizeNeeded = false
		if cb := w.onResize; cb != nil {
			cb(width, height)
		}
		l.debug("resize applied", "width", width, "height", height)
	}
	if w.xdgSurface != xdgSurf {
		// Destroyed by the callback.
		return
	}
	xdgSurf.AckConfigure(serial)
	w.state = applied
	l.debug("configure acked", "seq", w.seq, "state", w.state, "serial", serial)
}
