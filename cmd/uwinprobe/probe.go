// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uwindow/uwindow/app"
)

func init() {
	rootCmd.AddCommand(probeCmd)
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: `connect to the display and report what it offers`,
	Long:  `connect to the display, bind the rendering API and report the versions found`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(l *app.Library) error {
			info := l.Info()
			cnf := l.Config()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "rendering display: %d.%d\n", info.RenderMajor, info.RenderMinor)
			fmt.Fprintf(w, "rendering api:     %s\n", cnf.API)
			fmt.Fprintf(w, "color bits:        %d/%d/%d\n", cnf.RedBits, cnf.GreenBits, cnf.BlueBits)
			fmt.Fprintf(w, "wl_compositor:     v%d\n", info.CompositorVersion)
			fmt.Fprintf(w, "xdg_wm_base:       v%d\n", info.WmBaseVersion)
			return nil
		})
	},
}
