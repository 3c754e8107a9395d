package colors

import "fmt"

// ColorFunc is an alias type for a coloring function that accepts anything and returns a colorized string
type ColorFunc = func(s any) string

// Reset is a no-op ColorFunc. Passing it to a Logger method resets the color context for the remaining arguments.
func Reset(s any) string {
	return fmt.Sprintf("%v", s)
}

// Red is a ColorFunc that returns a red-colorized string of the provided input
func Red(s any) string {
	return Colorize(s, RED)
}

// RedBold is a ColorFunc that returns a red-bold-colorized string of the provided input
func RedBold(s any) string {
	return Colorize(Colorize(s, RED), BOLD)
}

// Green is a ColorFunc that returns a green-colorized string of the provided input
func Green(s any) string {
	return Colorize(s, GREEN)
}

// GreenBold is a ColorFunc that returns a green-bold-colorized string of the provided input
func GreenBold(s any) string {
	return Colorize(Colorize(s, GREEN), BOLD)
}

// YellowBold is a ColorFunc that returns a yellow-bold-colorized string of the provided input
func YellowBold(s any) string {
	return Colorize(Colorize(s, YELLOW), BOLD)
}

// BlueBold is a ColorFunc that returns a blue-bold-colorized string of the provided input
func BlueBold(s any) string {
	return Colorize(Colorize(s, BLUE), BOLD)
}

// Cyan is a ColorFunc that returns a cyan-colorized string of the provided input
func Cyan(s any) string {
	return Colorize(s, CYAN)
}

// CyanBold is a ColorFunc that returns a cyan-bold-colorized string of the provided input
func CyanBold(s any) string {
	return Colorize(Colorize(s, CYAN), BOLD)
}

// Bold is a ColorFunc that returns a bolded string of the provided input
func Bold(s any) string {
	return Colorize(s, BOLD)
}

// DarkGray is a ColorFunc that returns a dark-gray-colorized string of the provided input
func DarkGray(s any) string {
	return Colorize(s, DARK_GRAY)
}
