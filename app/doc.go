// SPDX-License-Identifier: Unlicense OR MIT

/*
Package app creates OpenGL drawable windows on a Wayland compositor.

A program initialises a Library, creates windows on it and then
processes events in its frame loop:

	runtime.LockOSThread()
	lib := app.New()
	if err := lib.Init(); err != nil {
		log.Fatal(err)
	}
	defer lib.Finish()
	w, err := app.NewWindow(lib, "Hello", 0, 0)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Destroy()
	w.SetResizeCallback(func(width, height int32) {
		// Update the viewport.
	})
	for {
		if err := lib.ProcessEvents(); err != nil {
			log.Fatal(err)
		}
		// Draw with OpenGL.
		w.SwapBuffers()
	}

# Sizes

The compositor decides the size of a window. Every proposal it makes
is applied only when the compositor commits it, and proposals that do
not change the size are dropped, so the resize callback runs once per
actual size change. Size reports the latest size the compositor
proposed, which runs ahead of the last callback until the compositor
commits it.

# Errors

Operations return an *Error carrying one of the Code values. Codes are
comparable with errors.Is:

	if errors.Is(err, app.NoDisplay) {
		// No compositor is running.
	}

ErrorString returns the message for a code.

# Threads

Libraries and windows are single threaded. EGL binds contexts to OS
threads, so the calling goroutine must be locked to its thread for as
long as it uses the library.
*/
package app
