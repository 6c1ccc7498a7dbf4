package tui

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter colors detail panel source with chroma.
// A nil or disabled Highlighter returns its input unchanged.
type Highlighter struct {
	enabled bool
	style   *chroma.Style
	format  chroma.Formatter
}

// NewHighlighter returns a Highlighter for the named chroma style.
func NewHighlighter(enabled bool, theme string) *Highlighter {
	s := styles.Get(theme)
	if s == nil {
		s = styles.Fallback
	}
	f := formatters.Get("terminal256")
	if f == nil {
		f = formatters.Fallback
	}
	return &Highlighter{enabled: enabled, style: s, format: f}
}

// Highlight colors source using the lexer registered for language.
func (h *Highlighter) Highlight(language, source string) string {
	if h == nil || !h.enabled || source == "" {
		return source
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		return source
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err = h.format.Format(&buf, h.style, it); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
