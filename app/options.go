// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"log/slog"

	"github.com/uwindow/uwindow/app/internal/driver"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
	defaultBits   = 8
)

// RenderingAPI selects the client API bound for window contexts.
type RenderingAPI = driver.API

const (
	OpenGL   = driver.OpenGL
	OpenGLES = driver.OpenGLES
)

// Config holds the library configuration assembled from Options.
type Config struct {
	// DisplayName is the display server socket. Empty selects the
	// server libwayland would pick by default.
	DisplayName string
	// DefaultWidth and DefaultHeight replace a zero preferred
	// dimension passed to Window.Create.
	DefaultWidth, DefaultHeight int32
	API                         RenderingAPI
	// RedBits, GreenBits and BlueBits are the minimum color depth of
	// the rendering config.
	RedBits, GreenBits, BlueBits int
	// AppID is set on every toplevel when not empty.
	AppID  string
	Logger *slog.Logger

	platform driver.Platform
}

// Option configures a Library.
type Option func(cnf *Config)

// DisplayName selects the display server to connect to.
func DisplayName(name string) Option {
	return func(cnf *Config) {
		cnf.DisplayName = name
	}
}

// DefaultSize sets the window size used when a preferred dimension is
// zero. Non-positive values keep the built-in 800x600.
func DefaultSize(w, h int32) Option {
	return func(cnf *Config) {
		if w > 0 {
			cnf.DefaultWidth = w
		}
		if h > 0 {
			cnf.DefaultHeight = h
		}
	}
}

// API selects the rendering API. The default is OpenGL.
func API(api RenderingAPI) Option {
	return func(cnf *Config) {
		cnf.API = api
	}
}

// ColorBits raises the minimum bits per color channel. Values below 8
// are ignored.
func ColorBits(r, g, b int) Option {
	return func(cnf *Config) {
		cnf.RedBits = max(r, defaultBits)
		cnf.GreenBits = max(g, defaultBits)
		cnf.BlueBits = max(b, defaultBits)
	}
}

// AppID sets the application id reported for every window.
func AppID(id string) Option {
	return func(cnf *Config) {
		cnf.AppID = id
	}
}

// Logger sets the logger for library diagnostics. A nil logger
// disables logging, which is the default.
func Logger(l *slog.Logger) Option {
	return func(cnf *Config) {
		cnf.Logger = l
	}
}

func withPlatform(p driver.Platform) Option {
	return func(cnf *Config) {
		cnf.platform = p
	}
}

func newConfig(opts []Option) Config {
	cnf := Config{
		DefaultWidth:  defaultWidth,
		DefaultHeight: defaultHeight,
		API:           OpenGL,
		RedBits:       defaultBits,
		GreenBits:     defaultBits,
		BlueBits:      defaultBits,
		platform:      defaultPlatform,
	}
	for _, o := range opts {
		o(&cnf)
	}
	return cnf
}
