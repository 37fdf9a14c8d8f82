package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	symCheck = "✔"
	symCross = "✖"
)

// SetColorMode applies "always", "never" or "auto". Auto leaves fatih/color's
// terminal detection in charge.
func SetColorMode(mode string) {
	switch strings.ToLower(mode) {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
}

// C paints s with c. A nil color leaves s untouched.
func C(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// OK prints a success line.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, C(Current().Success, symCheck+" "+msg))
}

// Fail prints an error line.
func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, C(Current().Error, symCross+" "+msg))
}

// Warn prints a warning line.
func Warn(w io.Writer, msg string) {
	fmt.Fprintln(w, C(Current().Pending, "! "+msg))
}
