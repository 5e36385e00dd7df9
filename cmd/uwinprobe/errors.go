// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/uwindow/uwindow/app"
)

func init() {
	rootCmd.AddCommand(errorsCmd)
}

var errorsCmd = &cobra.Command{
	Use:   "errors [code]",
	Short: `print the error codes and their messages`,
	Long:  `print the error codes and their messages, or the message of a single code. uwinprobe exits with these codes.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Errorf("invalid code %q", args[0])
			}
			printCode(out, app.Code(n))
			return nil
		}
		for _, c := range app.Codes() {
			printCode(out, c)
		}
		return nil
	},
}

func printCode(w io.Writer, c app.Code) {
	fmt.Fprintf(w, "%3d  %-32s %s\n", int(c), c, app.ErrorString(c))
}
