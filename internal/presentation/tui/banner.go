package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the qtext banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"        _            _   ", "#818cf8"},
		{"   __ _| |_ _____  _| |_ ", "#a78bfa"},
		{"  / _` | __/ _ \\ \\/ / __|", "#c084fc"},
		{" | (_| | ||  __/>  <| |_ ", "#e879f9"},
		{"  \\__, |\\__\\___/_/\\_\\\\__|", "#f472b6"},
		{"     |_|                 ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  toolbar engine v"+v).Faint())
	}
	fmt.Fprintln(w)
}
