//go:build !windows
// +build !windows

package colors

import "fmt"

// EnableColor turns ANSI coloring on. Non-windows terminals are assumed to support escape codes.
func EnableColor() {
	enabled = true
}

// Colorize returns s wrapped in ANSI code c, or s as-is when coloring is disabled.
func Colorize(s any, c Color) string {
	if !enabled {
		return fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
