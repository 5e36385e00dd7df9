// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwindow/uwindow/app/internal/drivertest"
)

func newTestWindow(t *testing.T, l *Library) *Window {
	t.Helper()
	w, err := NewWindow(l, "Test", 0, 0)
	require.NoError(t, err)
	t.Cleanup(w.Destroy)
	return w
}

func toplevelOf(w *Window) *drivertest.Toplevel {
	return w.toplevel.(*drivertest.Toplevel)
}

func bufferOf(w *Window) *drivertest.Buffer {
	return w.buffer.(*drivertest.Buffer)
}

func TestCreateDefaultSize(t *testing.T) {
	l, srv := initTestLibrary(t)
	w := newTestWindow(t, l)

	assert.True(t, w.Valid())
	width, height := w.Size()
	assert.Equal(t, int32(800), width)
	assert.Equal(t, int32(600), height)
	width, height = w.PreferredSize()
	assert.Equal(t, int32(800), width)
	assert.Equal(t, int32(600), height)
	assert.False(t, w.resizeNeeded)
	assert.Equal(t, applied, w.state)

	// The initial configure and the one answering the first frame.
	assert.Equal(t, []uint32{1, 2}, srv.Acked)
	assert.Empty(t, toplevelOf(w).XdgSurface().Unacked())
	assert.Empty(t, srv.Errors)

	b := bufferOf(w)
	assert.Equal(t, int32(800), b.Width)
	assert.Equal(t, int32(600), b.Height)
	assert.Zero(t, b.Resizes)
	assert.Equal(t, "Test", toplevelOf(w).Title)
	assert.Same(t, w.context.(*drivertest.Context), srv.Current)
	assert.Equal(t, OpenGL, srv.API)
}

func TestCreateOptions(t *testing.T) {
	l, srv := initTestLibrary(t, DefaultSize(640, 0), AppID("org.uwindow.test"), API(OpenGLES))
	w := newTestWindow(t, l)

	width, height := w.Size()
	assert.Equal(t, int32(640), width)
	assert.Equal(t, int32(600), height)
	assert.Equal(t, "org.uwindow.test", toplevelOf(w).AppID)
	assert.Equal(t, OpenGLES, srv.API)

	w2, err := NewWindow(l, "Explicit", 320, 200)
	require.NoError(t, err)
	t.Cleanup(w2.Destroy)
	width, height = w2.Size()
	assert.Equal(t, int32(320), width)
	assert.Equal(t, int32(200), height)
}

func TestCreateCompositorChoosesSize(t *testing.T) {
	l, srv := initTestLibrary(t)
	srv.MapWidth, srv.MapHeight = 1024, 768
	w := newTestWindow(t, l)

	width, height := w.Size()
	assert.Equal(t, int32(1024), width)
	assert.Equal(t, int32(768), height)
	width, height = w.PreferredSize()
	assert.Equal(t, int32(800), width)
	assert.Equal(t, int32(600), height)
	b := bufferOf(w)
	assert.Equal(t, 1, b.Resizes)
	assert.Equal(t, int32(1024), b.Width)
	assert.Equal(t, int32(768), b.Height)
}

func TestCreateInvalid(t *testing.T) {
	var w Window
	assert.ErrorIs(t, w.Create(nil, "Test", 0, 0), NotInitialised)

	l, _ := newTestLibrary(t)
	assert.ErrorIs(t, w.Create(l, "Test", 0, 0), NotInitialised)

	require.NoError(t, l.Init())
	assert.ErrorIs(t, w.Create(l, "", 0, 0), InvalidParam)
	assert.ErrorIs(t, w.Create(l, "Test", -1, 0), InvalidParam)
	assert.ErrorIs(t, w.Create(l, "Test", 0, -1), InvalidParam)
	assert.Zero(t, w)
}

func TestCreateOverLiveWindow(t *testing.T) {
	l, srv := initTestLibrary(t)
	w := newTestWindow(t, l)
	live := srv.Live()

	assert.ErrorIs(t, w.Create(l, "Again", 0, 0), InvalidWindowState)
	assert.True(t, w.Valid())
	assert.Equal(t, live, srv.Live())
}

func TestCreateFailure(t *testing.T) {
	tests := []struct {
		name  string
		op    drivertest.Op
		after int
		code  Code
	}{
		{"bind api", drivertest.BindAPI, 0, FailedRenderingApiBind},
		{"context", drivertest.CreateContext, 0, FailedToCreateContext},
		{"surface", drivertest.CreateSurface, 0, FailedToCreateSurface},
		{"xdg surface", drivertest.GetXdgSurface, 0, FailedToCreateSurface},
		{"toplevel", drivertest.GetToplevel, 0, FailedToCreateSurface},
		{"initial dispatch", drivertest.Dispatch, 0, DispatchFailed},
		{"initial roundtrip", drivertest.Roundtrip, 0, RoundtripFailed},
		{"buffer", drivertest.CreateBuffer, 0, FailedToCreateRenderingSurface},
		{"window surface", drivertest.CreateWindowSurface, 0, FailedToCreateRenderingSurface},
		{"make current", drivertest.MakeCurrent, 0, FailedToMakeContextCurrent},
		{"first frame", drivertest.SwapBuffers, 0, FailedToSwapBuffers},
		{"map dispatch", drivertest.Dispatch, 1, DispatchFailed},
		{"map roundtrip", drivertest.Roundtrip, 1, RoundtripFailed},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, srv := initTestLibrary(t)
			srv.FailAfter(test.op, test.after)

			var w Window
			err := w.Create(l, "Test", 0, 0)
			require.Error(t, err)
			assert.Equal(t, test.code, CodeOf(err))
			assert.Zero(t, w)
			assert.False(t, w.Valid())
			assert.Empty(t, srv.Live())
			assert.Empty(t, l.surfaces)
			assert.Empty(t, l.toplevels)

			// The library is unaffected.
			require.NoError(t, w.Create(l, "Test", 0, 0))
			assert.True(t, w.Valid())
			w.Destroy()
		})
	}
}

func TestDestroy(t *testing.T) {
	l, srv := initTestLibrary(t)
	w := newTestWindow(t, l)

	w.Destroy()
	assert.Zero(t, *w)
	assert.Empty(t, srv.Live())
	assert.Empty(t, l.surfaces)
	assert.Empty(t, l.toplevels)
	assert.Nil(t, srv.Current)
	want := []string{
		"destroy render surface 1",
		"destroy buffer 1",
		"destroy toplevel 1",
		"destroy xdg surface 1",
		"destroy surface 1",
		"destroy context 1",
	}
	require.GreaterOrEqual(t, len(srv.Log), len(want))
	assert.Equal(t, want, srv.Log[len(srv.Log)-len(want):])

	n := len(srv.Log)
	w.Destroy()
	var zero Window
	zero.Destroy()
	assert.Len(t, srv.Log, n)

	// A destroyed window can be created again.
	require.NoError(t, w.Create(l, "Again", 0, 0))
	assert.True(t, w.Valid())
}

func TestZeroWindow(t *testing.T) {
	var w Window
	assert.ErrorIs(t, w.MakeCurrent(), NotInitialised)
	assert.ErrorIs(t, w.SwapBuffers(), NotInitialised)
	assert.ErrorIs(t, w.SetResizeCallback(func(int32, int32) {}), NotInitialised)
	assert.ErrorIs(t, w.SetCloseCallback(func() {}), NotInitialised)
	assert.ErrorIs(t, w.SetFullscreen(true), NotInitialised)
	assert.ErrorIs(t, w.SetTitle("Test"), NotInitialised)
	assert.Zero(t, w)
}

func TestWindowAfterFinish(t *testing.T) {
	l, srv := initTestLibrary(t)
	w := newTestWindow(t, l)
	l.Finish()

	n := len(srv.Log)
	assert.ErrorIs(t, w.MakeCurrent(), NotInitialised)
	assert.ErrorIs(t, w.SwapBuffers(), NotInitialised)
	assert.ErrorIs(t, w.SetFullscreen(true), NotInitialised)
	w.Destroy()
	assert.Len(t, srv.Log, n)
}

func TestSetCallbacksInvalid(t *testing.T) {
	l, _ := initTestLibrary(t)
	w := newTestWindow(t, l)

	assert.ErrorIs(t, w.SetResizeCallback(nil), InvalidParam)
	assert.ErrorIs(t, w.SetCloseCallback(nil), InvalidParam)
	assert.ErrorIs(t, w.SetTitle(""), InvalidParam)
}

func TestMakeCurrentAndSwap(t *testing.T) {
	l, srv := initTestLibrary(t)
	w1 := newTestWindow(t, l)
	w2 := newTestWindow(t, l)

	// Creating w2 left its context current.
	assert.Same(t, w2.context.(*drivertest.Context), srv.Current)
	require.NoError(t, w1.MakeCurrent())
	assert.Same(t, w1.context.(*drivertest.Context), srv.Current)
	assert.Same(t, w1.renderSurface.(*drivertest.RenderSurface), srv.CurrentSurface)

	rs := w1.renderSurface.(*drivertest.RenderSurface)
	swaps := rs.Swaps
	require.NoError(t, w1.SwapBuffers())
	assert.Equal(t, swaps+1, rs.Swaps)

	srv.Fail(drivertest.MakeCurrent)
	assert.ErrorIs(t, w1.MakeCurrent(), FailedToMakeContextCurrent)
	srv.Fail(drivertest.SwapBuffers)
	assert.ErrorIs(t, w1.SwapBuffers(), FailedToSwapBuffers)
	assert.True(t, w1.Valid())
}

func TestSetFullscreen(t *testing.T) {
	l, srv := initTestLibrary(t)
	w := newTestWindow(t, l)
	var sizes [][2]int32
	require.NoError(t, w.SetResizeCallback(func(width, height int32) {
		sizes = append(sizes, [2]int32{width, height})
	}))

	require.NoError(t, w.SetFullscreen(true))
	require.NoError(t, l.ProcessEvents())
	assert.True(t, toplevelOf(w).Fullscreen)
	require.NoError(t, w.SetFullscreen(false))
	require.NoError(t, l.ProcessEvents())
	assert.False(t, toplevelOf(w).Fullscreen)

	assert.Equal(t, [][2]int32{{1920, 1080}, {800, 600}}, sizes)
	width, height := bufferOf(w).Width, bufferOf(w).Height
	assert.Equal(t, int32(800), width)
	assert.Equal(t, int32(600), height)
	assert.Empty(t, toplevelOf(w).XdgSurface().Unacked())
	assert.Empty(t, srv.Errors)
}

func TestSetTitle(t *testing.T) {
	l, _ := initTestLibrary(t)
	w := newTestWindow(t, l)

	require.NoError(t, w.SetTitle("Renamed"))
	assert.Equal(t, "Renamed", toplevelOf(w).Title)
}

func TestCloseRequest(t *testing.T) {
	l, srv := initTestLibrary(t)
	w := newTestWindow(t, l)
	closed := 0
	require.NoError(t, w.SetCloseCallback(func() { closed++ }))
	assert.False(t, w.CloseRequested())

	srv.Close(toplevelOf(w))
	require.NoError(t, l.ProcessEvents())
	assert.Equal(t, 1, closed)
	assert.True(t, w.CloseRequested())
	// Closing is left to the program.
	assert.True(t, w.Valid())
}

func TestCloseRequestDestroy(t *testing.T) {
	l, srv := initTestLibrary(t)
	w := newTestWindow(t, l)
	require.NoError(t, w.SetCloseCallback(w.Destroy))

	srv.Close(toplevelOf(w))
	require.NoError(t, l.ProcessEvents())
	assert.False(t, w.Valid())
	assert.Empty(t, srv.Live())
}

func TestEventsRoutedByWindow(t *testing.T) {
	l, srv := initTestLibrary(t)
	w1 := newTestWindow(t, l)
	w2 := newTestWindow(t, l)
	var got1, got2 [][2]int32
	require.NoError(t, w1.SetResizeCallback(func(width, height int32) {
		got1 = append(got1, [2]int32{width, height})
	}))
	require.NoError(t, w2.SetResizeCallback(func(width, height int32) {
		got2 = append(got2, [2]int32{width, height})
	}))

	srv.Configure(toplevelOf(w2), 300, 200)
	require.NoError(t, l.ProcessEvents())
	assert.Empty(t, got1)
	assert.Equal(t, [][2]int32{{300, 200}}, got2)

	w2.Destroy()
	srv.Configure(toplevelOf(w1), 400, 300)
	require.NoError(t, l.ProcessEvents())
	assert.Equal(t, [][2]int32{{400, 300}}, got1)
	assert.Len(t, got2, 1)
	assert.Empty(t, srv.Errors)
}
