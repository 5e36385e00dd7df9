// SPDX-License-Identifier: Unlicense OR MIT

package drivertest

import (
	"fmt"
	"unsafe"

	"github.com/go-errors/errors"
	"golang.org/x/exp/slices"

	"github.com/uwindow/uwindow/app/internal/driver"
)

type Compositor struct {
	s         *Server
	Version   uint32
	Destroyed bool
	surfaces  int
}

func (c *Compositor) CreateSurface() (driver.Surface, error) {
	if err := c.s.check(CreateSurface); err != nil {
		return nil, err
	}
	c.surfaces++
	surf := &Surface{s: c.s, ID: c.surfaces}
	c.s.track(surf)
	return surf, nil
}

func (c *Compositor) Destroy() {
	c.Destroyed = true
	c.s.logf("destroy compositor")
}

type WmBase struct {
	s         *Server
	Version   uint32
	Destroyed bool
}

func (wm *WmBase) GetXdgSurface(surf driver.Surface) (driver.XdgSurface, error) {
	if err := wm.s.check(GetXdgSurface); err != nil {
		return nil, err
	}
	x := &XdgSurface{s: wm.s, Surface: surf.(*Surface)}
	wm.s.track(x)
	return x, nil
}

func (wm *WmBase) Pong(serial uint32) {
	wm.s.Pongs = append(wm.s.Pongs, serial)
}

func (wm *WmBase) Destroy() {
	wm.Destroyed = true
	wm.s.logf("destroy wm base")
}

type Surface struct {
	s         *Server
	ID        int
	Commits   int
	Mapped    bool
	Destroyed bool
	toplevel  *Toplevel
}

func (surf *Surface) Commit() {
	surf.Commits++
	surf.s.logf("commit surface %d", surf.ID)
	// The first commit of a toplevel requests the initial configure.
	if t := surf.toplevel; t != nil && !t.configured {
		t.configured = true
		surf.s.Configure(t, 0, 0)
	}
}

func (surf *Surface) Destroy() {
	surf.Destroyed = true
	surf.s.logf("destroy surface %d", surf.ID)
}

func (surf *Surface) Native() unsafe.Pointer {
	return unsafe.Pointer(surf)
}

type XdgSurface struct {
	s         *Server
	Surface   *Surface
	Destroyed bool
	pending   []uint32
}

func (x *XdgSurface) GetToplevel() (driver.Toplevel, error) {
	if err := x.s.check(GetToplevel); err != nil {
		return nil, err
	}
	t := &Toplevel{s: x.s, xdg: x}
	x.Surface.toplevel = t
	x.s.track(t)
	return t, nil
}

func (x *XdgSurface) AckConfigure(serial uint32) {
	s := x.s
	s.Acked = append(s.Acked, serial)
	i := slices.Index(x.pending, serial)
	if i == -1 {
		s.Errors = append(s.Errors, fmt.Sprintf("ack of unknown serial %d", serial))
		return
	}
	// Acking a serial implicitly acks the earlier ones.
	x.pending = x.pending[i+1:]
}

// Unacked returns the configure serials not yet acknowledged.
func (x *XdgSurface) Unacked() []uint32 {
	return x.pending
}

func (x *XdgSurface) Destroy() {
	x.Destroyed = true
	x.s.logf("destroy xdg surface %d", x.Surface.ID)
}

type Toplevel struct {
	s          *Server
	xdg        *XdgSurface
	Title      string
	AppID      string
	Fullscreen bool
	Destroyed  bool
	configured bool
}

// XdgSurface returns the xdg surface t was created from.
func (t *Toplevel) XdgSurface() *XdgSurface {
	return t.xdg
}

func (t *Toplevel) SetTitle(title string) {
	t.Title = title
}

func (t *Toplevel) SetAppID(id string) {
	t.AppID = id
}

func (t *Toplevel) SetFullscreen() {
	t.Fullscreen = true
	t.s.Configure(t, t.s.FullscreenWidth, t.s.FullscreenHeight)
}

func (t *Toplevel) UnsetFullscreen() {
	t.Fullscreen = false
	t.s.Configure(t, 0, 0)
}

func (t *Toplevel) Destroy() {
	t.Destroyed = true
	t.s.logf("destroy toplevel %d", t.xdg.Surface.ID)
}

// Display is the fake rendering display.
type Display struct {
	s        *Server
	contexts int
}

type config struct {
	bits int
	api  driver.API
}

func (d *Display) Initialize() (int, int, error) {
	if err := d.s.check(Initialize); err != nil {
		return 0, 0, err
	}
	return 1, 5, nil
}

func (d *Display) ChooseConfig(spec driver.ConfigSpec) (driver.Config, error) {
	if err := d.s.check(ChooseConfig); err != nil {
		return nil, err
	}
	bits := max(spec.RedBits, spec.GreenBits, spec.BlueBits)
	if bits > d.s.MaxColorBits {
		return nil, errors.Errorf("drivertest: no config with %d bits per channel", bits)
	}
	return config{bits: bits, api: spec.API}, nil
}

func (d *Display) BindAPI(api driver.API) error {
	if err := d.s.check(BindAPI); err != nil {
		return err
	}
	d.s.API = api
	return nil
}

func (d *Display) CreateContext(cfg driver.Config) (driver.RenderContext, error) {
	if err := d.s.check(CreateContext); err != nil {
		return nil, err
	}
	if _, ok := cfg.(config); !ok {
		return nil, errors.New("drivertest: invalid config")
	}
	d.contexts++
	c := &Context{s: d.s, ID: d.contexts}
	d.s.track(c)
	return c, nil
}

func (d *Display) CreateBuffer(surf driver.Surface, width, height int32) (driver.Buffer, error) {
	if err := d.s.check(CreateBuffer); err != nil {
		return nil, err
	}
	ws := surf.(*Surface)
	if ws.Destroyed {
		return nil, errors.New("drivertest: buffer for destroyed surface")
	}
	b := &Buffer{s: d.s, Surface: ws, Width: width, Height: height}
	d.s.track(b)
	return b, nil
}

func (d *Display) CreateWindowSurface(cfg driver.Config, b driver.Buffer) (driver.RenderSurface, error) {
	if err := d.s.check(CreateWindowSurface); err != nil {
		return nil, err
	}
	r := &RenderSurface{s: d.s, Buffer: b.(*Buffer)}
	d.s.track(r)
	return r, nil
}

func (d *Display) MakeCurrent(rs driver.RenderSurface, c driver.RenderContext) error {
	if err := d.s.check(MakeCurrent); err != nil {
		return err
	}
	d.s.CurrentSurface = rs.(*RenderSurface)
	d.s.Current = c.(*Context)
	return nil
}

// SwapBuffers attaches a frame. The first frame maps the surface, and
// the compositor answers with a configure.
func (d *Display) SwapBuffers(rs driver.RenderSurface) error {
	if err := d.s.check(SwapBuffers); err != nil {
		return err
	}
	r := rs.(*RenderSurface)
	r.Swaps++
	surf := r.Buffer.Surface
	surf.Commit()
	if !surf.Mapped {
		surf.Mapped = true
		if t := surf.toplevel; t != nil {
			d.s.Configure(t, d.s.MapWidth, d.s.MapHeight)
		}
	}
	return nil
}

func (d *Display) Terminate() {
	d.s.Terminated = true
	d.s.logf("terminate display")
}

type Context struct {
	s         *Server
	ID        int
	Destroyed bool
}

func (c *Context) Destroy() {
	c.Destroyed = true
	if c.s.Current == c {
		c.s.Current = nil
	}
	c.s.logf("destroy context %d", c.ID)
}

type Buffer struct {
	s             *Server
	Surface       *Surface
	Width, Height int32
	Resizes       int
	Destroyed     bool
}

func (b *Buffer) Resize(width, height int32) {
	b.Width, b.Height = width, height
	b.Resizes++
	b.s.logf("resize buffer %d %dx%d", b.Surface.ID, width, height)
}

func (b *Buffer) Destroy() {
	b.Destroyed = true
	b.s.logf("destroy buffer %d", b.Surface.ID)
}

type RenderSurface struct {
	s         *Server
	Buffer    *Buffer
	Swaps     int
	Destroyed bool
}

func (r *RenderSurface) Destroy() {
	r.Destroyed = true
	if r.s.CurrentSurface == r {
		r.s.CurrentSurface = nil
	}
	r.s.logf("destroy render surface %d", r.Buffer.Surface.ID)
}

func (surf *Surface) String() string     { return fmt.Sprintf("surface %d", surf.ID) }
func (surf *Surface) destroyed() bool    { return surf.Destroyed }
func (x *XdgSurface) String() string     { return fmt.Sprintf("xdg surface %d", x.Surface.ID) }
func (x *XdgSurface) destroyed() bool    { return x.Destroyed }
func (t *Toplevel) String() string       { return fmt.Sprintf("toplevel %d", t.xdg.Surface.ID) }
func (t *Toplevel) destroyed() bool      { return t.Destroyed }
func (c *Context) String() string        { return fmt.Sprintf("context %d", c.ID) }
func (c *Context) destroyed() bool       { return c.Destroyed }
func (b *Buffer) String() string         { return fmt.Sprintf("buffer %d", b.Surface.ID) }
func (b *Buffer) destroyed() bool        { return b.Destroyed }
func (r *RenderSurface) String() string  { return fmt.Sprintf("render surface %d", r.Buffer.Surface.ID) }
func (r *RenderSurface) destroyed() bool { return r.Destroyed }
