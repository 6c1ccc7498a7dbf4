package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how results reach the user.
type OutputMode int

const (
	// OutputModePlain writes unstyled tables.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes a static, styled listing.
	OutputModeStyled
	// OutputModeInteractive runs the full-screen viewer.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	case OutputModePlain:
		return "plain"
	default:
		return "unknown"
	}
}

// Environment probes used by DetectOutputMode.
type Environment struct {
	IsTerminal func(fd int) bool
	Getenv     func(string) string
	StdinFd    int
	StdoutFd   int
}

// SystemEnvironment probes the real process environment.
func SystemEnvironment() Environment {
	return Environment{
		IsTerminal: term.IsTerminal,
		Getenv:     os.Getenv,
		StdinFd:    int(os.Stdin.Fd()),
		StdoutFd:   int(os.Stdout.Fd()),
	}
}

// DetectOutputMode picks the output mode for the current process.
func DetectOutputMode(plain, noColor, forceTTY bool) OutputMode {
	return DetectOutputModeWith(SystemEnvironment(), plain, noColor, forceTTY)
}

// DetectOutputModeWith picks the output mode from explicit probes.
// plain and noColor force plain output; forceTTY skips the terminal checks.
// A terminal on stdout without one on stdin gets styled static output.
func DetectOutputModeWith(env Environment, plain, noColor, forceTTY bool) OutputMode {
	if plain || noColor {
		return OutputModePlain
	}
	if env.Getenv != nil {
		if env.Getenv("NO_COLOR") != "" || env.Getenv("TERM") == "dumb" {
			return OutputModePlain
		}
	}
	if forceTTY {
		return OutputModeInteractive
	}
	if env.IsTerminal == nil || !env.IsTerminal(env.StdoutFd) {
		return OutputModePlain
	}
	if !env.IsTerminal(env.StdinFd) {
		return OutputModeStyled
	}
	return OutputModeInteractive
}
