// SPDX-License-Identifier: Unlicense OR MIT

// Command uwinprobe checks that a Wayland compositor and EGL are usable
// by opening the display and, optionally, a window.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/uwindow/uwindow/app"
)

var rootCmd = &cobra.Command{
	Use:          filepath.Base(os.Args[0]),
	Short:        "uwinprobe checks Wayland and EGL window support",
	Long:         "uwinprobe checks Wayland and EGL window support",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

var (
	debugFlag   bool
	verboseFlag bool
	displayFlag string
	gles        bool
)

func init() {
	// EGL contexts are bound to the thread that made them current.
	runtime.LockOSThread()

	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, `debug`, `d`, false, `print stack traces of errors`)
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, `verbose`, `v`, false, `log library diagnostics to stderr`)
	rootCmd.PersistentFlags().StringVar(&displayFlag, `display`, ``, `wayland display to connect to (default $WAYLAND_DISPLAY)`)
	rootCmd.PersistentFlags().BoolVar(&gles, `gles`, false, `bind OpenGL ES instead of desktop OpenGL`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func options() []app.Option {
	opts := []app.Option{app.DisplayName(displayFlag)}
	if gles {
		opts = append(opts, app.API(app.OpenGLES))
	}
	if verboseFlag {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true})
		opts = append(opts, app.Logger(slog.New(h)))
	}
	return opts
}

// run calls fn with an initialised library and exits with the code of
// the error it returns.
func run(fn func(l *app.Library) error) {
	l := app.New(options()...)
	err := l.Init()
	if err == nil {
		err = fn(l)
		l.Finish()
	}
	if err == nil {
		os.Exit(0)
	}
	fmt.Fprintln(os.Stderr, err.Error())
	var e *app.Error
	if debugFlag && errors.As(err, &e) {
		if st := e.Stack(); st != nil {
			fmt.Fprintln(os.Stderr, "\n"+string(st))
		}
	}
	code := int(app.CodeOf(err))
	if code <= 0 {
		code = 1
	}
	os.Exit(code)
}
