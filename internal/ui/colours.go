package ui

import "fmt"

const (
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m"
)

var MethodColors = map[string]string{
	"GET":    Green,
	"POST":   Blue,
	"PUT":    Cyan,
	"DELETE": Yellow,
	"PATCH":  Magenta,
}

// Method pads an HTTP method and wraps it in its display colour.
func Method(method string) string {
	padded := fmt.Sprintf(" %-7s", method)
	if color, ok := MethodColors[method]; ok {
		return color + padded + ResetColor
	}
	return Gray + padded + ResetColor
}

// Status colours an HTTP status code: green for 2xx, yellow for 4xx, red otherwise.
func Status(code int) string {
	switch {
	case code >= 200 && code < 300:
		return Green + fmt.Sprint(code) + ResetColor
	case code >= 400 && code < 500:
		return Yellow + fmt.Sprint(code) + ResetColor
	default:
		return Red + fmt.Sprint(code) + ResetColor
	}
}
