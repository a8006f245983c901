package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the stepwise banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"      _                        _          ", "#60a5fa"},
		{"  ___| |_ ___ _ ____      _(_)___  ___ ", "#3b82f6"},
		{" / __| __/ _ \\ '_ \\ \\ /\\ / / / __|/ _ \\", "#6366f1"},
		{" \\__ \\ ||  __/ |_) \\ V  V /| \\__ \\  __/", "#8b5cf6"},
		{" |___/\\__\\___| .__/ \\_/\\_/ |_|___/\\___|", "#a855f7"},
		{"             |_|                         ", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
