// SPDX-License-Identifier: Unlicense OR MIT

package driver

// API is a client rendering API.
type API uint8

const (
	OpenGL API = iota
	OpenGLES
)

func (a API) String() string {
	switch a {
	case OpenGL:
		return "OpenGL"
	case OpenGLES:
		return "OpenGL ES"
	default:
		return "unknown"
	}
}

// ConfigSpec is the minimum pixel format accepted by ChooseConfig.
type ConfigSpec struct {
	RedBits, GreenBits, BlueBits int
	API                          API
}

// Config is an opaque pixel format descriptor.
type Config interface{}

// RenderDisplay is the rendering API bound to a display connection.
type RenderDisplay interface {
	Initialize() (major, minor int, err error)
	// ChooseConfig returns the first config matching spec. It is an
	// error for no config to match.
	ChooseConfig(spec ConfigSpec) (Config, error)
	// BindAPI selects the client API for the calling thread.
	BindAPI(api API) error
	CreateContext(cfg Config) (RenderContext, error)
	// CreateBuffer creates the native window backing s.
	CreateBuffer(s Surface, width, height int32) (Buffer, error)
	CreateWindowSurface(cfg Config, b Buffer) (RenderSurface, error)
	MakeCurrent(s RenderSurface, c RenderContext) error
	SwapBuffers(s RenderSurface) error
	Terminate()
}

type RenderContext interface {
	Destroy()
}

type RenderSurface interface {
	Destroy()
}

// Buffer is the resizable native window behind a RenderSurface.
type Buffer interface {
	Resize(width, height int32)
	Destroy()
}
