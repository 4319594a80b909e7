package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the immense banner to w. Callers pass stderr so the
// banner never mixes with OBJ output on stdout.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _", "#34d399"},
		{" (_)_ __  _ __  ___ _ _  ___ ___", "#2dd4bf"},
		{" | | '  \\| '  \\/ -_) ' \\(_-</ -_)", "#22d3ee"},
		{" |_|_|_|_|_|_|_\\___|_||_/__/\\___|", "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String(" v"+version).Faint())
	fmt.Fprintln(w)
}
