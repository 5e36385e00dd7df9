// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uwindow/uwindow/app"
)

var (
	windowTitle      string
	windowWidth      int32
	windowHeight     int32
	windowFrames     int
	windowBlocking   bool
	windowFullscreen bool
)

func init() {
	windowCmd.Flags().StringVarP(&windowTitle, `title`, `t`, `uwinprobe`, `window title`)
	windowCmd.Flags().Int32VarP(&windowWidth, `width`, `W`, 0, `preferred width, 0 for the default`)
	windowCmd.Flags().Int32VarP(&windowHeight, `height`, `H`, 0, `preferred height, 0 for the default`)
	windowCmd.Flags().IntVarP(&windowFrames, `frames`, `n`, 120, `frames to present, 0 to run until the window is closed`)
	windowCmd.Flags().BoolVarP(&windowBlocking, `blocking`, `b`, false, `wait for events between frames`)
	windowCmd.Flags().BoolVarP(&windowFullscreen, `fullscreen`, `f`, false, `ask for fullscreen after mapping`)
	rootCmd.AddCommand(windowCmd)
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: `open a window and present frames`,
	Long:  `open a window, present frames and report every resize negotiated with the compositor`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(l *app.Library) error {
			out := cmd.OutOrStdout()
			w, err := app.NewWindow(l, windowTitle, windowWidth, windowHeight)
			if err != nil {
				return err
			}
			defer w.Destroy()
			width, height := w.Size()
			fmt.Fprintf(out, "created %dx%d\n", width, height)

			if err := w.SetResizeCallback(func(width, height int32) {
				fmt.Fprintf(out, "resized %dx%d\n", width, height)
			}); err != nil {
				return err
			}
			if err := w.SetCloseCallback(func() {
				fmt.Fprintln(out, "close requested")
			}); err != nil {
				return err
			}
			if windowFullscreen {
				if err := w.SetFullscreen(true); err != nil {
					return err
				}
			}
			return present(l, w)
		})
	},
}

func present(l *app.Library, w *app.Window) error {
	for frame := 0; windowFrames == 0 || frame < windowFrames; frame++ {
		var err error
		if windowBlocking {
			err = l.ProcessEventsBlocking()
		} else {
			err = l.ProcessEvents()
		}
		if err != nil {
			return err
		}
		if w.CloseRequested() {
			return nil
		}
		if err := w.SwapBuffers(); err != nil {
			return err
		}
	}
	return nil
}
