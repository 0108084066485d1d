package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// StdoutIsTerminal reports whether stdout is attached to a terminal.
// Piped output skips markdown styling so it stays machine-readable.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewRenderer returns a function that renders markdown for the terminal.
// When stdout is not a terminal the text passes through unchanged.
func NewRenderer() func(string) (string, error) {
	if !StdoutIsTerminal() {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PrintBanner outputs the canopy ASCII banner.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String("   ___ __ _ _ __   ___  _ __  _   _ ").Foreground(p.Color("#34d399"))
	s2 := termenv.String("  / __/ _` | '_ \\ / _ \\| '_ \\| | | |").Foreground(p.Color("#2dd4bf"))
	s3 := termenv.String(" | (_| (_| | | | | (_) | |_) | |_| |").Foreground(p.Color("#22d3ee"))
	s4 := termenv.String("  \\___\\__,_|_| |_|\\___/| .__/ \\__, |").Foreground(p.Color("#38bdf8"))
	s5 := termenv.String("                       |_|    |___/ ").Foreground(p.Color("#60a5fa"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
