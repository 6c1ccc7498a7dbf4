// Package export writes trajectories as a standalone HTML page.
//
// Each trajectory becomes a markdown section in which agent messages and tool
// results appear in log order. Every tool result is a raw HTML box holding a
// header, a toggle checkbox, a loading placeholder and the collapsible details.
// The markdown is converted with goldmark and wrapped in a page whose script
// shows the placeholder when the checkbox is ticked and swaps in the details
// after details.RevealDelay. Without scripting the details open at once.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/rshade/trajview/internal/details"
	"github.com/rshade/trajview/internal/trajectory"
)

// ErrNoPages is returned when there is nothing to export.
var ErrNoPages = errors.New("no trajectories to export")

// DefaultTitle is the page title when none is given.
const DefaultTitle = "Trajectories"

// minFence is the shortest code fence used around arguments and output.
const minFence = 3

// boxClass returns the container class for a result category.
func boxClass(c trajectory.Category) string {
	switch c {
	case trajectory.CategoryNormal:
		return "result-box"
	case trajectory.CategoryOverlong:
		return "overlong-box"
	case trajectory.CategoryError, trajectory.CategoryNameNotFound:
		return "error-box"
	default:
		return "error-box"
	}
}

func icon(c trajectory.Category) string {
	switch c {
	case trajectory.CategoryError:
		return "❌"
	case trajectory.CategoryOverlong:
		return "⚠️"
	case trajectory.CategoryNameNotFound:
		return "❓"
	case trajectory.CategoryNormal:
		return "🛠"
	default:
		return "🛠"
	}
}

// fence returns a backtick fence longer than any backtick run in body.
func fence(body string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(longest+1, minFence))
}

func writeCode(sb *strings.Builder, lang, info, body string) {
	f := fence(body)
	fmt.Fprintf(sb, "%s%s %s\n%s\n%s\n\n", f, lang, info, strings.TrimRight(body, "\n"), f)
}

// writeMessage renders one agent message box. The text stays markdown but
// cannot open raw HTML.
func writeMessage(sb *strings.Builder, m trajectory.AgentMessage) {
	sb.WriteString("<div class=\"thinking-box\">\n\n")
	fmt.Fprintf(sb, "🧐 <code>Agent</code><sup>%d</sup>\n\n", m.Turn)
	fmt.Fprintf(sb, "%s\n\n", html.EscapeString(strings.TrimSpace(m.Text)))
	sb.WriteString("</div>\n\n")
}

// writeResult renders one tool result box.
func writeResult(sb *strings.Builder, r trajectory.ToolResult) {
	id := html.EscapeString(r.ID)

	fmt.Fprintf(sb, "<div class=\"%s\" id=\"%s\">\n", boxClass(r.Category), id)
	sb.WriteString("<div class=\"tool-header\">\n")
	fmt.Fprintf(sb, "  <div class=\"tool-name\">%s <code>%s</code><sup>%d</sup></div>\n",
		icon(r.Category), html.EscapeString(r.Title()), r.Turn)
	fmt.Fprintf(sb, "  <label for=\"%s-checkbox\" class=\"tool-details-toggle\"></label>\n", id)
	sb.WriteString("</div>\n")
	fmt.Fprintf(sb, "<input type=\"checkbox\" id=\"%s-checkbox\" class=\"tool-details-checkbox\" />\n", id)
	sb.WriteString("<div class=\"tool-details-placeholder\">Loading details…</div>\n")
	sb.WriteString("<div class=\"tool-details\">\n\n")

	if r.Server == "python-execute" {
		writeCode(sb, "python", "code", r.Arguments)
	} else {
		writeCode(sb, "json", "arguments", r.Arguments)
	}
	if r.Category == trajectory.CategoryNormal {
		writeCode(sb, "json", "output_result", r.Output)
	} else {
		writeCode(sb, "json", "error_message", r.Output)
	}

	sb.WriteString("</div>\n</div>\n\n")
}

// Markdown renders pages as markdown with raw HTML result boxes.
func Markdown(pages ...*trajectory.Page) []byte {
	var sb strings.Builder
	for _, page := range pages {
		if page == nil {
			continue
		}
		s := page.Summary
		name := s.Name
		if name == "" {
			name = "trajectory"
		}
		status := "Failed"
		if s.Pass {
			status = "Completed"
		}

		fmt.Fprintf(&sb, "## %s\n\n", html.EscapeString(name))
		fmt.Fprintf(&sb, "- **Status:** %s\n- **Tool calls:** %d\n- **Turns:** %d\n\n", status, s.ToolCalls, s.Turns)

		next := 0
		for i, r := range page.Results {
			for next < len(page.Messages) && page.Messages[next].Position <= i {
				writeMessage(&sb, page.Messages[next])
				next++
			}
			writeResult(&sb, r)
		}
		for ; next < len(page.Messages); next++ {
			writeMessage(&sb, page.Messages[next])
		}
	}
	return []byte(sb.String())
}

// newMarkdown returns a converter that keeps the raw HTML boxes.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
}

//nolint:gochecknoglobals // Parsed once; templates are safe for concurrent use.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script>
(function () {
  var delay = {{.RevealDelay}};
  document.documentElement.classList.add("js");
  document.addEventListener("change", function (ev) {
    var cb = ev.target;
    if (!cb.classList || !cb.classList.contains("tool-details-checkbox")) { return; }
    var box = cb.parentElement;
    var gen = (Number(box.dataset.generation) || 0) + 1;
    box.dataset.generation = gen;
    box.classList.remove("expanded");
    if (!cb.checked) { box.classList.remove("loading"); return; }
    box.classList.add("loading");
    setTimeout(function () {
      if (!cb.checked || Number(box.dataset.generation) !== gen) { return; }
      box.classList.remove("loading");
      box.classList.add("expanded");
    }, delay);
  });
})();
</script>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
.result-box, .error-box, .overlong-box { border-left: 4px solid; border-radius: 4px; margin: 0.75rem 0; padding: 0.5rem 0.75rem; }
.result-box { border-color: #2da44e; background: #f0fff4; }
.error-box { border-color: #cf222e; background: #fff5f5; }
.overlong-box { border-color: #d4a72c; background: #fffbeb; }
.tool-header { display: flex; justify-content: space-between; align-items: center; }
.tool-details-toggle { cursor: pointer; }
.tool-details-toggle::after { content: "▸ details"; color: #57606a; }
.tool-details-checkbox { display: none; }
.thinking-box { border-left: 4px solid #8250df; border-radius: 4px; margin: 0.75rem 0; padding: 0 0.75rem; background: #fbf8ff; }
.tool-details-placeholder, .tool-details { display: none; }
.tool-details-placeholder { color: #57606a; font-style: italic; }
html:not(.js) .tool-details-checkbox:checked ~ .tool-details { display: block; }
.loading > .tool-details-placeholder, .expanded > .tool-details { display: block; }
pre { overflow-x: auto; background: #f6f8fa; padding: 0.5rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>
`))

// HTML converts pages to a complete HTML document.
func HTML(title string, pages ...*trajectory.Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, title, pages...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write converts pages to a complete HTML document and writes it to w.
func Write(w io.Writer, title string, pages ...*trajectory.Page) error {
	if len(pages) == 0 {
		return ErrNoPages
	}
	if title == "" {
		title = DefaultTitle
	}

	var body bytes.Buffer
	if err := newMarkdown().Convert(Markdown(pages...), &body); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	data := struct {
		Title       string
		RevealDelay int64
		Body        template.HTML
	}{
		Title:       title,
		RevealDelay: details.RevealDelay.Milliseconds(),
		//nolint:gosec // Body is goldmark output; tool text inside it was escaped when the boxes were built.
		Body:        template.HTML(body.String()),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}
