package colors

// enabled reports whether Colorize should emit ANSI escape codes. It is set by EnableColor and cleared by
// DisableColor.
var enabled bool

// init turns coloring on for the current console, if the console supports it.
func init() {
	EnableColor()
}

// DisableColor turns off ANSI coloring for every ColorFunc until EnableColor is called again.
func DisableColor() {
	enabled = false
}

// Enabled returns a boolean indicating whether ColorFuncs currently emit ANSI escape codes.
func Enabled() bool {
	return enabled
}
