package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewUI picks the renderer for cmd. Terminals get the TUI, which shows live
// run progress; redirected output gets SimpleUI tables.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if !useTTY {
		return NewSimpleUI(cmd)
	}

	return NewTUI(cmd.OutOrStdout())
}

// IsTTY reports whether w is a character device. Pipes, regular files and
// in-memory writers are not.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	info, err := file.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
