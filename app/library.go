// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"sync"

	goerrors "github.com/go-errors/errors"
	"golang.org/x/exp/slices"

	"github.com/uwindow/uwindow/app/internal/driver"
)

// Library is the connection to the display server and the rendering
// display bound to it. At most one Library may be initialised in a
// process at a time.
//
// A Library and its windows are not safe for concurrent use. Rendering
// contexts are bound to OS threads, so programs should call
// runtime.LockOSThread before Init and make every call from that
// thread.
type Library struct {
	cnf         Config
	initialised bool
	// gen identifies the current initialisation; windows created under
	// an earlier one must not touch the collaborators.
	gen uint64

	conn       driver.Conn
	display    driver.RenderDisplay
	config     driver.Config
	registry   driver.Registry
	compositor driver.Compositor
	wmBase     driver.WmBase
	// Registry names of the bound globals.
	compositorName, wmBaseName uint32
	info                       Info

	// Dispatch table from protocol objects to their windows.
	surfaces  map[driver.XdgSurface]*Window
	toplevels map[driver.Toplevel]*Window
	nextSeq   uint64
}

// Info describes the display an initialised Library is connected to.
type Info struct {
	// RenderMajor and RenderMinor are the version of the rendering
	// display implementation.
	RenderMajor, RenderMinor int
	// Versions advertised by the compositor for the bound globals.
	// The library binds version 1 of both.
	CompositorVersion, WmBaseVersion uint32
}

// handler receives the connection events on behalf of a Library.
type handler struct {
	l *Library
}

var active struct {
	mu  sync.Mutex
	lib *Library
	gen uint64
}

// defaultPlatform is set by the platform specific files.
var defaultPlatform driver.Platform

// New returns an uninitialised library configured by opts.
func New(opts ...Option) *Library {
	return &Library{cnf: newConfig(opts)}
}

// Config returns the configuration of l.
func (l *Library) Config() Config {
	return l.cnf
}

// Initialised reports whether Init has succeeded and Finish has not
// been called since.
func (l *Library) Initialised() bool {
	return l.initialised
}

// Info returns the capabilities discovered by Init.
func (l *Library) Info() Info {
	return l.info
}

// Init connects to the display server, binds the rendering API to the
// connection and discovers the compositor and window manager globals.
//
// If Init fails, everything it acquired is released and it may be
// called again.
func (l *Library) Init() error {
	const op = "init"
	active.mu.Lock()
	defer active.mu.Unlock()
	if l.initialised || active.lib != nil {
		return newError(AlreadyInitialised, op, nil)
	}
	if err := l.connect(op); err != nil {
		l.warn("init failed, releasing resources", "err", err)
		l.teardown()
		return err
	}
	active.gen++
	active.lib = l
	l.gen = active.gen
	l.initialised = true
	l.debug("initialised")
	return nil
}

func (l *Library) connect(op string) error {
	p := l.cnf.platform
	if p == nil {
		return newError(NoDisplay, op, goerrors.New("no display driver for this platform"))
	}
	conn, err := p.Connect(l.cnf.DisplayName, handler{l})
	if err != nil {
		return newError(NoDisplay, op, err)
	}
	l.conn = conn
	l.debug("connected", "display", l.cnf.DisplayName)

	disp, err := p.OpenDisplay(conn)
	if err != nil {
		return newError(NoRenderingDisplay, op, err)
	}
	l.display = disp
	major, minor, err := disp.Initialize()
	if err != nil {
		return newError(RenderingDisplayInitFailed, op, err)
	}
	l.info.RenderMajor, l.info.RenderMinor = major, minor
	l.debug("rendering display initialised", "major", major, "minor", minor)

	cfg, err := disp.ChooseConfig(driver.ConfigSpec{
		RedBits:   l.cnf.RedBits,
		GreenBits: l.cnf.GreenBits,
		BlueBits:  l.cnf.BlueBits,
		API:       l.cnf.API,
	})
	if err != nil {
		return newError(NoRenderingConfig, op, err)
	}
	l.config = cfg

	reg, err := conn.Registry()
	if err != nil {
		return newError(NoRegistry, op, err)
	}
	l.registry = reg
	// The registry announces its globals to handler.Global.
	if err := l.pumpBlocking(op); err != nil {
		return err
	}
	if l.compositor == nil {
		return newError(NoCompositor, op, nil)
	}
	if l.wmBase == nil {
		return newError(NoWindowManagerBase, op, nil)
	}
	return nil
}

// Finish destroys any window still alive, releases the rendering
// display and disconnects. It never fails and is a no-op on an
// uninitialised library. Init may be called again afterwards.
func (l *Library) Finish() {
	active.mu.Lock()
	defer active.mu.Unlock()
	l.teardown()
}

func (l *Library) teardown() {
	if n := len(l.surfaces); n > 0 {
		l.debug("destroying leftover windows", "count", n)
		wins := make([]*Window, 0, n)
		for _, w := range l.surfaces {
			wins = append(wins, w)
		}
		// Newest first, mirroring creation order.
		slices.SortFunc(wins, func(a, b *Window) int {
			switch {
			case a.seq > b.seq:
				return -1
			case a.seq < b.seq:
				return 1
			}
			return 0
		})
		for _, w := range wins {
			w.release()
		}
	}
	if l.wmBase != nil {
		l.wmBase.Destroy()
	}
	if l.compositor != nil {
		l.compositor.Destroy()
	}
	if l.registry != nil {
		l.registry.Destroy()
	}
	if l.display != nil {
		l.display.Terminate()
	}
	if l.conn != nil {
		l.conn.Disconnect()
		l.debug("disconnected")
	}
	if active.lib == l {
		active.lib = nil
	}
	*l = Library{cnf: l.cnf}
}

func (l *Library) register(w *Window) {
	if l.surfaces == nil {
		l.surfaces = make(map[driver.XdgSurface]*Window)
		l.toplevels = make(map[driver.Toplevel]*Window)
	}
	l.nextSeq++
	w.seq = l.nextSeq
	l.surfaces[w.xdgSurface] = w
	if w.toplevel != nil {
		l.toplevels[w.toplevel] = w
	}
}

func (l *Library) unregister(w *Window) {
	for s, w2 := range l.surfaces {
		if w2 == w {
			delete(l.surfaces, s)
		}
	}
	for t, w2 := range l.toplevels {
		if w2 == w {
			delete(l.toplevels, t)
		}
	}
}

func (h handler) Global(name uint32, iface string, version uint32) {
	l := h.l
	switch iface {
	case driver.CompositorInterface:
		if l.compositor != nil {
			return
		}
		c, err := l.registry.BindCompositor(name, 1)
		if err != nil {
			l.warn("binding global failed", "interface", iface, "err", err)
			return
		}
		l.compositor, l.compositorName = c, name
		l.info.CompositorVersion = version
	case driver.WmBaseInterface:
		if l.wmBase != nil {
			return
		}
		wm, err := l.registry.BindWmBase(name, 1)
		if err != nil {
			l.warn("binding global failed", "interface", iface, "err", err)
			return
		}
		l.wmBase, l.wmBaseName = wm, name
		l.info.WmBaseVersion = version
	default:
		return
	}
	l.debug("bound global", "interface", iface, "name", name, "version", version)
}

func (h handler) GlobalRemove(name uint32) {
	l := h.l
	switch {
	case l.compositor != nil && name == l.compositorName:
		l.warn("compositor global removed", "name", name)
	case l.wmBase != nil && name == l.wmBaseName:
		l.warn("xdg_wm_base global removed", "name", name)
	}
}

func (h handler) Ping(wm driver.WmBase, serial uint32) {
	wm.Pong(serial)
}

func (h handler) ToplevelConfigure(t driver.Toplevel, width, height int32) {
	if w, ok := h.l.toplevels[t]; ok {
		w.proposeSize(width, height)
	}
}

func (h handler) ToplevelClose(t driver.Toplevel) {
	if w, ok := h.l.toplevels[t]; ok {
		w.requestClose()
	}
}

func (h handler) SurfaceConfigure(s driver.XdgSurface, serial uint32) {
	if w, ok := h.l.surfaces[s]; ok {
		w.applyConfigure(serial)
	}
}
