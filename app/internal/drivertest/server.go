// SPDX-License-Identifier: Unlicense OR MIT

// Package drivertest implements an in-memory compositor and rendering
// display for testing the window core without a display server.
package drivertest

import (
	"fmt"
	"unsafe"

	"github.com/go-errors/errors"
	"golang.org/x/exp/slices"

	"github.com/uwindow/uwindow/app/internal/driver"
)

// Op names a collaborator call that can be made to fail.
type Op string

const (
	Connect             Op = "connect"
	OpenDisplay         Op = "open display"
	Initialize          Op = "initialize"
	ChooseConfig        Op = "choose config"
	GetRegistry         Op = "get registry"
	BindCompositor      Op = "bind compositor"
	BindWmBase          Op = "bind wm base"
	Roundtrip           Op = "roundtrip"
	Dispatch            Op = "dispatch"
	DispatchPending     Op = "dispatch pending"
	Flush               Op = "flush"
	BindAPI             Op = "bind api"
	CreateContext       Op = "create context"
	CreateSurface       Op = "create surface"
	GetXdgSurface       Op = "get xdg surface"
	GetToplevel         Op = "get toplevel"
	CreateBuffer        Op = "create buffer"
	CreateWindowSurface Op = "create window surface"
	MakeCurrent         Op = "make current"
	SwapBuffers         Op = "swap buffers"
)

// Server is a scripted compositor. The zero value is not usable; use
// NewServer.
type Server struct {
	// Advertised globals. Both are true after NewServer.
	AdvertiseCompositor, AdvertiseWmBase bool
	// MapWidth and MapHeight are proposed in the configure sent when a
	// window presents its first frame. Zero leaves the size to the
	// client.
	MapWidth, MapHeight int32
	// FullscreenWidth and FullscreenHeight are proposed on fullscreen.
	FullscreenWidth, FullscreenHeight int32
	// MaxColorBits is the deepest color channel the display offers.
	MaxColorBits int

	fail    map[Op]int
	objects []object
	handler driver.Handler
	conn    *Conn
	queue   []func()
	serial  uint32

	// Log records protocol requests and object destruction in order.
	Log []string
	// Acked holds every acknowledged configure serial.
	Acked []uint32
	// Pongs holds every ping serial answered.
	Pongs []uint32
	// Errors holds protocol violations committed by the client.
	Errors []string

	Connected bool
	// Current is the context made current last, with its surface.
	Current        *Context
	CurrentSurface *RenderSurface
	API            driver.API
	Terminated     bool
}

func NewServer() *Server {
	return &Server{
		AdvertiseCompositor: true,
		AdvertiseWmBase:     true,
		FullscreenWidth:     1920,
		FullscreenHeight:    1080,
		MaxColorBits:        8,
		fail:                make(map[Op]int),
	}
}

// Fail makes the next call of op fail.
func (s *Server) Fail(op Op) {
	s.FailAfter(op, 0)
}

// FailAfter makes the call of op after n successful ones fail.
func (s *Server) FailAfter(op Op, n int) {
	s.fail[op] = n + 1
}

func (s *Server) check(op Op) error {
	n, ok := s.fail[op]
	if !ok {
		return nil
	}
	n--
	if n > 0 {
		s.fail[op] = n
		return nil
	}
	delete(s.fail, op)
	return errors.Errorf("drivertest: %s failed", op)
}

func (s *Server) logf(format string, args ...any) {
	s.Log = append(s.Log, fmt.Sprintf(format, args...))
}

// Logged reports whether entry was logged.
func (s *Server) Logged(entry string) bool {
	return slices.Contains(s.Log, entry)
}

// LogIndex returns the position of entry in the log, or -1.
func (s *Server) LogIndex(entry string) int {
	return slices.Index(s.Log, entry)
}

// object is a per-window resource.
type object interface {
	String() string
	destroyed() bool
}

func (s *Server) track(o object) {
	s.objects = append(s.objects, o)
}

// Live returns the per-window objects created and not yet destroyed.
func (s *Server) Live() []string {
	var live []string
	for _, o := range s.objects {
		if !o.destroyed() {
			live = append(live, o.String())
		}
	}
	return live
}

// Pending returns the number of undelivered events.
func (s *Server) Pending() int {
	return len(s.queue)
}

func (s *Server) post(ev func()) {
	s.queue = append(s.queue, ev)
}

// deliver dispatches queued events, including the ones queued while
// dispatching.
func (s *Server) deliver() {
	for len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]
		ev()
	}
}

// Configure queues a toplevel configure proposing (width, height)
// followed by the surface configure that commits it.
func (s *Server) Configure(t *Toplevel, width, height int32) {
	s.serial++
	serial := s.serial
	t.xdg.pending = append(t.xdg.pending, serial)
	s.post(func() {
		if !t.Destroyed {
			s.handler.ToplevelConfigure(t, width, height)
		}
	})
	s.post(func() {
		if !t.xdg.Destroyed {
			s.handler.SurfaceConfigure(t.xdg, serial)
		}
	})
}

// ProposeSize queues a toplevel configure without the surface
// configure that commits it.
func (s *Server) ProposeSize(t *Toplevel, width, height int32) {
	s.post(func() {
		if !t.Destroyed {
			s.handler.ToplevelConfigure(t, width, height)
		}
	})
}

// CommitConfigure queues a bare surface configure.
func (s *Server) CommitConfigure(x *XdgSurface) uint32 {
	s.serial++
	serial := s.serial
	x.pending = append(x.pending, serial)
	s.post(func() {
		if !x.Destroyed {
			s.handler.SurfaceConfigure(x, serial)
		}
	})
	return serial
}

// Close queues a close request for t.
func (s *Server) Close(t *Toplevel) {
	s.post(func() {
		if !t.Destroyed {
			s.handler.ToplevelClose(t)
		}
	})
}

// Ping queues a ping on the bound wm base.
func (s *Server) Ping(wm *WmBase) uint32 {
	s.serial++
	serial := s.serial
	s.post(func() {
		if !wm.Destroyed {
			s.handler.Ping(wm, serial)
		}
	})
	return serial
}

// RemoveGlobal queues the removal of a registry global.
func (s *Server) RemoveGlobal(name uint32) {
	s.post(func() {
		s.handler.GlobalRemove(name)
	})
}

// Platform returns a driver.Platform connecting to s.
func (s *Server) Platform() driver.Platform {
	return platform{s}
}

type platform struct {
	s *Server
}

func (p platform) Connect(name string, h driver.Handler) (driver.Conn, error) {
	s := p.s
	if err := s.check(Connect); err != nil {
		return nil, err
	}
	s.handler = h
	s.conn = &Conn{s: s, Name: name}
	s.Connected = true
	s.Terminated = false
	s.logf("connect %q", name)
	return s.conn, nil
}

func (p platform) OpenDisplay(c driver.Conn) (driver.RenderDisplay, error) {
	s := p.s
	if err := s.check(OpenDisplay); err != nil {
		return nil, err
	}
	if c.(*Conn).s != s {
		return nil, errors.New("drivertest: foreign connection")
	}
	return &Display{s: s}, nil
}

// Conn is the fake connection.
type Conn struct {
	s    *Server
	Name string
}

const (
	compositorName uint32 = iota + 1
	wmBaseName
	shmName
)

func (c *Conn) Registry() (driver.Registry, error) {
	s := c.s
	if err := s.check(GetRegistry); err != nil {
		return nil, err
	}
	r := &Registry{s: s}
	if s.AdvertiseCompositor {
		s.post(func() { s.handler.Global(compositorName, driver.CompositorInterface, 4) })
	}
	s.post(func() { s.handler.Global(shmName, "wl_shm", 1) })
	if s.AdvertiseWmBase {
		s.post(func() { s.handler.Global(wmBaseName, driver.WmBaseInterface, 3) })
	}
	return r, nil
}

func (c *Conn) Roundtrip() error {
	if err := c.s.check(Roundtrip); err != nil {
		return err
	}
	c.s.deliver()
	return nil
}

// Dispatch delivers the queued events. Where a real connection would
// block on an empty queue, Dispatch returns.
func (c *Conn) Dispatch() error {
	if err := c.s.check(Dispatch); err != nil {
		return err
	}
	c.s.deliver()
	return nil
}

func (c *Conn) DispatchPending() error {
	if err := c.s.check(DispatchPending); err != nil {
		return err
	}
	c.s.deliver()
	return nil
}

func (c *Conn) Flush() error {
	return c.s.check(Flush)
}

func (c *Conn) Disconnect() {
	c.s.Connected = false
	c.s.queue = nil
	c.s.logf("disconnect")
}

func (c *Conn) Native() unsafe.Pointer {
	return unsafe.Pointer(c)
}

type Registry struct {
	s         *Server
	Destroyed bool
}

func (r *Registry) BindCompositor(name, version uint32) (driver.Compositor, error) {
	if err := r.s.check(BindCompositor); err != nil {
		return nil, err
	}
	if name != compositorName {
		r.s.Errors = append(r.s.Errors, fmt.Sprintf("bind compositor to global %d", name))
	}
	return &Compositor{s: r.s, Version: version}, nil
}

func (r *Registry) BindWmBase(name, version uint32) (driver.WmBase, error) {
	if err := r.s.check(BindWmBase); err != nil {
		return nil, err
	}
	if name != wmBaseName {
		r.s.Errors = append(r.s.Errors, fmt.Sprintf("bind xdg_wm_base to global %d", name))
	}
	return &WmBase{s: r.s, Version: version}, nil
}

func (r *Registry) Destroy() {
	r.Destroyed = true
	r.s.logf("destroy registry")
}
