package trajectory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Output markers used by the agent runtime.
const (
	errorPrefix    = "Error running tool"
	overlongSuffix = "Please check this file carefully, as it may be very long!)"
	notFoundMarker = "not found in agent"
)

// Special tool names.
const (
	pythonExecuteTool = "local-python-execute"
	pythonServer      = "python-execute"
	writeFileTool     = "filesystem-write_file"
	localPrefix       = "local"
	overlongMarker    = "overlong"
	functionCallType  = "function"
)

// multiWordServers are server names that themselves contain a dash.
//
//nolint:gochecknoglobals // Read-only lookup table.
var multiWordServers = []string{"google-cloud", "yahoo-finance", "pdf-tools"}

// Categorize classifies a tool output. When several markers match, a missing tool
// wins over an overlong output, which wins over a tool error.
func Categorize(output string) Category {
	trimmed := strings.TrimSpace(output)
	switch {
	case strings.Contains(trimmed, notFoundMarker):
		return CategoryNameNotFound
	case strings.HasSuffix(trimmed, overlongSuffix):
		return CategoryOverlong
	case strings.HasPrefix(trimmed, errorPrefix):
		return CategoryError
	default:
		return CategoryNormal
	}
}

// SplitToolName splits a qualified tool name into server and function.
func SplitToolName(name string) (string, string) {
	if strings.HasPrefix(name, localPrefix) {
		parts := strings.Split(name, "-")
		return strings.Join(parts[1:], ""), ""
	}
	for _, server := range multiWordServers {
		if strings.HasPrefix(name, server) {
			parts := strings.Split(name, "-")
			if len(parts) <= 2 {
				return server, ""
			}
			return server, strings.Join(parts[2:], "")
		}
	}
	server, function, _ := strings.Cut(name, "-")
	return server, function
}

// pendingCall is a tool call waiting for its result.
type pendingCall struct {
	turn      int
	server    string
	function  string
	arguments string
}

// Extract pairs tool calls with their results, in result order.
// An empty taskID is replaced with a fresh ULID so result ids stay unique.
func Extract(log *Log, taskID string) ([]ToolResult, error) {
	results, _, err := extract(log, taskID)
	return results, err
}

// extract walks the log once, collecting tool results and the agent messages
// interleaved with them.
func extract(log *Log, taskID string) ([]ToolResult, []AgentMessage, error) {
	if log == nil || len(log.Messages) == 0 {
		return nil, nil, ErrNoMessages
	}
	if taskID == "" {
		taskID = ulid.Make().String()
	}

	pending := make(map[string]pendingCall)
	var results []ToolResult
	var messages []AgentMessage
	turn := 0

	for i, msg := range log.Messages {
		switch msg.Role {
		case RoleUser:
			continue
		case RoleAssistant:
			turn++
			if text := strings.TrimSpace(msg.Text()); text != "" {
				messages = append(messages, AgentMessage{Turn: turn, Text: text, Position: len(results)})
			}
			for _, call := range msg.ToolCalls {
				pc, err := describeCall(call)
				if err != nil {
					return nil, nil, fmt.Errorf("message %d: %w", i, err)
				}
				pc.turn = turn
				pending[call.ID] = pc
			}
		case RoleTool:
			pc, ok := pending[msg.ToolCallID]
			if !ok {
				return nil, nil, fmt.Errorf("message %d: %w: %q", i, ErrUnknownToolCall, msg.ToolCallID)
			}
			delete(pending, msg.ToolCallID)

			content := msg.Text()
			category := Categorize(content)
			results = append(results, ToolResult{
				ID:        fmt.Sprintf("tool-result-%s-%d", taskID, len(results)+1),
				Turn:      pc.turn,
				Server:    pc.server,
				Function:  pc.function,
				Arguments: pc.arguments,
				Output:    formatOutput(content, category),
				Category:  category,
			})
		default:
			return nil, nil, fmt.Errorf("message %d: %w: %q", i, ErrUnknownRole, msg.Role)
		}
	}

	return results, messages, nil
}

// Summarize counts tool calls and assistant turns.
func Summarize(log *Log) Summary {
	if log == nil {
		return Summary{}
	}
	s := Summary{Name: log.Name, Pass: log.Pass}
	for _, msg := range log.Messages {
		switch msg.Role {
		case RoleAssistant:
			s.Turns++
			s.ToolCalls += len(msg.ToolCalls)
		case RoleTool:
			s.Results++
		}
	}
	return s
}

func describeCall(call ToolCall) (pendingCall, error) {
	if call.Type != functionCallType {
		return pendingCall{}, fmt.Errorf("%w: %q", ErrUnsupportedCall, call.Type)
	}

	name := call.Function.Name
	switch {
	case name == pythonExecuteTool:
		return pendingCall{server: pythonServer, arguments: pythonCode(call.Function.Arguments)}, nil
	case strings.Contains(name, overlongMarker):
		server := strings.ReplaceAll(strings.TrimPrefix(name, "local-"), "tooloutput", "tool_output")
		return pendingCall{server: server, arguments: formatArguments(call.Function.Arguments)}, nil
	case name == writeFileTool:
		return pendingCall{
			server:    "filesystem",
			function:  "write_file",
			arguments: writeFileArguments(call.Function.Arguments),
		}, nil
	default:
		server, function := SplitToolName(name)
		return pendingCall{server: server, function: function, arguments: formatArguments(call.Function.Arguments)}, nil
	}
}

// pythonCode extracts the code field from python-execute arguments.
func pythonCode(raw string) string {
	var args struct {
		Code *string `json:"code"`
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args.Code == nil {
		return raw
	}
	return *args.Code
}

// writeFileArguments renders a file write as the target name followed by the content.
func writeFileArguments(raw string) string {
	var args struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args.Path == "" {
		return formatArguments(raw)
	}
	base := args.Path[strings.LastIndex(args.Path, "/")+1:]
	return "workspace/" + base + "\n" + strings.ReplaceAll(args.Content, "```", "`*3") + "\n"
}

// formatArguments pretty-prints JSON arguments with tab indentation.
func formatArguments(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "", "\t"); err != nil {
		return trimmed
	}
	return buf.String()
}

// formatOutput prepares a tool output for the details panel.
func formatOutput(content string, category Category) string {
	switch category {
	case CategoryError:
		head, _, _ := strings.Cut(content, ":")
		return head
	case CategoryOverlong, CategoryNameNotFound:
		return content
	case CategoryNormal:
		// Handled below.
	}

	var wrapped struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil && wrapped.Text != nil {
		return strings.ReplaceAll(*wrapped.Text, "```", "")
	}
	if strings.HasPrefix(content, "[") && strings.HasSuffix(content, "]") {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(content), "", "  "); err == nil {
			return buf.String()
		}
	}
	return content
}

// Page is one trajectory prepared for display.
type Page struct {
	Summary  Summary        `json:"summary"`
	Results  []ToolResult   `json:"results"`
	Messages []AgentMessage `json:"messages,omitempty"`
}

// NewPage extracts the tool results, agent messages and summary of log.
func NewPage(log *Log, taskID string) (*Page, error) {
	results, messages, err := extract(log, taskID)
	if err != nil {
		return nil, err
	}
	return &Page{Summary: Summarize(log), Results: results, Messages: messages}, nil
}

// MessagesAt returns the agent messages shown just before Results[i].
func (p *Page) MessagesAt(i int) []AgentMessage {
	if p == nil {
		return nil
	}
	var out []AgentMessage
	for _, m := range p.Messages {
		if m.Position == i {
			out = append(out, m)
		}
	}
	return out
}

// TrailingMessages returns the agent messages that follow every result, such
// as a final answer.
func (p *Page) TrailingMessages() []AgentMessage {
	if p == nil {
		return nil
	}
	var out []AgentMessage
	for _, m := range p.Messages {
		if m.Position >= len(p.Results) {
			out = append(out, m)
		}
	}
	return out
}

// CountByCategory tallies results per category.
func (p *Page) CountByCategory() map[Category]int {
	counts := make(map[Category]int)
	if p == nil {
		return counts
	}
	for _, r := range p.Results {
		counts[r.Category]++
	}
	return counts
}

// Filter returns a copy of p keeping only results in the given categories.
// No categories keeps everything.
func (p *Page) Filter(categories ...Category) *Page {
	if p == nil {
		return nil
	}
	out := &Page{Summary: p.Summary}
	if len(categories) == 0 {
		out.Results = append(out.Results, p.Results...)
		out.Messages = append(out.Messages, p.Messages...)
		return out
	}

	// kept[i] is the number of kept results among the first i.
	kept := make([]int, len(p.Results)+1)
	for i, r := range p.Results {
		kept[i+1] = kept[i]
		if slices.Contains(categories, r.Category) {
			out.Results = append(out.Results, r)
			kept[i+1]++
		}
	}
	for _, m := range p.Messages {
		m.Position = kept[min(max(m.Position, 0), len(p.Results))]
		out.Messages = append(out.Messages, m)
	}
	return out
}

// ParseCategory accepts a full category name or a short alias
// (normal, error, overlong, not_found).
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", string(CategoryNormal):
		return CategoryNormal, nil
	case "error", string(CategoryError):
		return CategoryError, nil
	case "overlong", string(CategoryOverlong):
		return CategoryOverlong, nil
	case "not_found", "notfound", string(CategoryNameNotFound):
		return CategoryNameNotFound, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}
