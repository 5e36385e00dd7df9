// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux && !android && !nowayland && cgo

package app

import (
	"github.com/uwindow/uwindow/app/internal/driver"
	"github.com/uwindow/uwindow/app/internal/egl"
	"github.com/uwindow/uwindow/app/internal/wayland"
)

type waylandPlatform struct{}

func init() {
	defaultPlatform = waylandPlatform{}
}

func (waylandPlatform) Connect(name string, h driver.Handler) (driver.Conn, error) {
	c, err := wayland.Connect(name, h)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (waylandPlatform) OpenDisplay(c driver.Conn) (driver.RenderDisplay, error) {
	d, err := egl.Open(c.Native())
	if err != nil {
		return nil, err
	}
	return d, nil
}
