//go:build windows
// +build windows

package colors

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// EnableColor asks the Windows console whether virtual terminal processing is available on stdout and enables
// coloring only if it is.
func EnableColor() {
	var mode uint32
	handle := windows.Handle(os.Stdout.Fd())
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		enabled = false
		return
	}
	enabled = mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0
}

// Colorize returns s wrapped in ANSI code c, or s as-is when the console does not support ANSI codes.
func Colorize(s any, c Color) string {
	if !enabled {
		return fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
