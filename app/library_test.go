// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwindow/uwindow/app/internal/drivertest"
)

func newTestLibrary(t *testing.T, opts ...Option) (*Library, *drivertest.Server) {
	t.Helper()
	srv := drivertest.NewServer()
	l := New(append([]Option{withPlatform(srv.Platform())}, opts...)...)
	t.Cleanup(l.Finish)
	return l, srv
}

func initTestLibrary(t *testing.T, opts ...Option) (*Library, *drivertest.Server) {
	t.Helper()
	l, srv := newTestLibrary(t, opts...)
	require.NoError(t, l.Init())
	return l, srv
}

func TestInit(t *testing.T) {
	l, srv := initTestLibrary(t, DisplayName("wayland-1"))

	assert.True(t, l.Initialised())
	assert.True(t, srv.Connected)
	assert.Equal(t, "wayland-1", l.conn.(*drivertest.Conn).Name)
	require.NotNil(t, l.compositor)
	require.NotNil(t, l.wmBase)
	assert.Equal(t, uint32(1), l.compositor.(*drivertest.Compositor).Version)
	assert.Equal(t, uint32(1), l.wmBase.(*drivertest.WmBase).Version)
	assert.Empty(t, srv.Errors)
	assert.Equal(t, Info{RenderMajor: 1, RenderMinor: 5, CompositorVersion: 4, WmBaseVersion: 3}, l.Info())

	l.Finish()
	assert.Zero(t, l.Info())
}

func TestInitTwice(t *testing.T) {
	l, _ := initTestLibrary(t)
	conn, gen := l.conn, l.gen

	err := l.Init()
	assert.ErrorIs(t, err, AlreadyInitialised)
	assert.True(t, l.Initialised())
	assert.Same(t, conn.(*drivertest.Conn), l.conn.(*drivertest.Conn))
	assert.Equal(t, gen, l.gen)
}

func TestInitSingleLibraryPerProcess(t *testing.T) {
	first, _ := initTestLibrary(t)
	second, _ := newTestLibrary(t)

	assert.ErrorIs(t, second.Init(), AlreadyInitialised)
	assert.False(t, second.Initialised())

	gen := first.gen
	first.Finish()
	require.NoError(t, second.Init())
	assert.Greater(t, second.gen, gen)
}

func TestInitFailure(t *testing.T) {
	tests := []struct {
		op   drivertest.Op
		code Code
	}{
		{drivertest.Connect, NoDisplay},
		{drivertest.OpenDisplay, NoRenderingDisplay},
		{drivertest.Initialize, RenderingDisplayInitFailed},
		{drivertest.ChooseConfig, NoRenderingConfig},
		{drivertest.GetRegistry, NoRegistry},
		{drivertest.Dispatch, DispatchFailed},
		{drivertest.Roundtrip, RoundtripFailed},
		{drivertest.BindCompositor, NoCompositor},
		{drivertest.BindWmBase, NoWindowManagerBase},
	}
	for _, test := range tests {
		t.Run(string(test.op), func(t *testing.T) {
			l, srv := newTestLibrary(t)
			srv.Fail(test.op)

			err := l.Init()
			require.Error(t, err)
			assert.Equal(t, test.code, CodeOf(err))
			assert.False(t, l.Initialised())
			assert.Nil(t, l.conn)
			assert.Nil(t, l.compositor)
			assert.Nil(t, l.wmBase)
			assert.False(t, srv.Connected)

			// A failed Init leaves nothing behind and can be retried.
			require.NoError(t, l.Init())
			assert.True(t, l.Initialised())
		})
	}
}

func TestInitMissingGlobals(t *testing.T) {
	l, srv := newTestLibrary(t)
	srv.AdvertiseCompositor = false
	assert.ErrorIs(t, l.Init(), NoCompositor)

	srv.AdvertiseCompositor = true
	srv.AdvertiseWmBase = false
	assert.ErrorIs(t, l.Init(), NoWindowManagerBase)
	assert.True(t, srv.Logged("destroy compositor"))
	assert.True(t, srv.Terminated)

	srv.AdvertiseWmBase = true
	assert.NoError(t, l.Init())
}

func TestInitWithoutDisplayServer(t *testing.T) {
	l := New(withPlatform(nil))
	t.Cleanup(l.Finish)

	err := l.Init()
	assert.ErrorIs(t, err, NoDisplay)
	assert.False(t, l.Initialised())
	assert.ErrorIs(t, l.Init(), NoDisplay)
}

func TestInitColorBits(t *testing.T) {
	l, _ := newTestLibrary(t, ColorBits(10, 10, 10))
	assert.ErrorIs(t, l.Init(), NoRenderingConfig)

	cnf := New(ColorBits(4, 4, 4)).Config()
	assert.Equal(t, 8, cnf.RedBits)
	assert.Equal(t, 8, cnf.GreenBits)
	assert.Equal(t, 8, cnf.BlueBits)
}

func TestFinish(t *testing.T) {
	l, srv := initTestLibrary(t)
	l.Finish()

	assert.False(t, l.Initialised())
	assert.False(t, srv.Connected)
	assert.True(t, srv.Terminated)
	order := []string{"destroy wm base", "destroy compositor", "destroy registry", "terminate display", "disconnect"}
	for i := 1; i < len(order); i++ {
		assert.Less(t, srv.LogIndex(order[i-1]), srv.LogIndex(order[i]), order[i])
	}

	// Finish is idempotent and Init works again afterwards.
	l.Finish()
	New().Finish()
	require.NoError(t, l.Init())
}

func TestFinishDestroysWindows(t *testing.T) {
	l, srv := initTestLibrary(t)
	w1, err := NewWindow(l, "one", 0, 0)
	require.NoError(t, err)
	w2, err := NewWindow(l, "two", 0, 0)
	require.NoError(t, err)

	l.Finish()
	assert.Empty(t, srv.Live())
	assert.Zero(t, *w1)
	assert.Zero(t, *w2)
	assert.Less(t, srv.LogIndex("destroy context 2"), srv.LogIndex("destroy render surface 1"))
	assert.Less(t, srv.LogIndex("destroy context 1"), srv.LogIndex("destroy wm base"))

	// Destroying after Finish must not touch the released objects.
	n := len(srv.Log)
	w1.Destroy()
	assert.Len(t, srv.Log, n)
}

func TestProcessEventsNotInitialised(t *testing.T) {
	l, _ := newTestLibrary(t)
	assert.ErrorIs(t, l.ProcessEvents(), NotInitialised)
	assert.ErrorIs(t, l.ProcessEventsBlocking(), NotInitialised)
}

func TestProcessEventsIdle(t *testing.T) {
	l, srv := initTestLibrary(t)
	require.Zero(t, srv.Pending())
	assert.NoError(t, l.ProcessEvents())
	assert.NoError(t, l.ProcessEventsBlocking())
}

func TestProcessEventsFailure(t *testing.T) {
	tests := []struct {
		name     string
		op       drivertest.Op
		blocking bool
		code     Code
	}{
		{"roundtrip", drivertest.Roundtrip, false, RoundtripFailed},
		{"dispatch", drivertest.DispatchPending, false, DispatchFailed},
		{"flush", drivertest.Flush, false, FlushFailed},
		{"blocking dispatch", drivertest.Dispatch, true, DispatchFailed},
		{"blocking roundtrip", drivertest.Roundtrip, true, RoundtripFailed},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, srv := initTestLibrary(t)
			srv.Fail(test.op)
			var err error
			if test.blocking {
				err = l.ProcessEventsBlocking()
			} else {
				err = l.ProcessEvents()
			}
			assert.Equal(t, test.code, CodeOf(err))
			// Pump failures do not tear anything down.
			assert.True(t, l.Initialised())
		})
	}
}

func TestPing(t *testing.T) {
	l, srv := initTestLibrary(t)
	serial := srv.Ping(l.wmBase.(*drivertest.WmBase))

	require.NoError(t, l.ProcessEvents())
	assert.Equal(t, []uint32{serial}, srv.Pongs)
}

func TestGlobalRemove(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l, srv := initTestLibrary(t, Logger(logger))
	assert.Contains(t, buf.String(), "bound global")

	srv.RemoveGlobal(l.compositorName)
	require.NoError(t, l.ProcessEvents())
	assert.Contains(t, buf.String(), "compositor global removed")
	// The bound object stays usable until Finish.
	assert.NotNil(t, l.compositor)
}

func TestInitFailureLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	l, srv := newTestLibrary(t, Logger(logger))
	srv.Fail(drivertest.GetRegistry)

	err := l.Init()
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "init", e.Op)
	assert.Contains(t, buf.String(), "init failed")
}
