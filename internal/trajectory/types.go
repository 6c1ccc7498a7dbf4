// Package trajectory reads agent trajectory logs and extracts their tool results.
//
// A log is a JSON document with a pass flag and an ordered list of chat messages.
// Assistant messages may carry tool calls; each tool call is answered by a later
// message with role "tool" that references the call id. Extract pairs them into
// ToolResult records that the viewer and exporters consume.
package trajectory

import "errors"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Sentinel errors.
var (
	ErrNoMessages      = errors.New("trajectory has no messages")
	ErrUnknownRole     = errors.New("unsupported message role")
	ErrUnknownToolCall = errors.New("tool message references unknown call")
	ErrUnsupportedCall = errors.New("unsupported tool call type")
	ErrEmptyPath       = errors.New("trajectory path is empty")
	ErrUnknownCategory = errors.New("unknown tool output category")
)

// Log is one trajectory file.
type Log struct {
	Pass     bool      `json:"pass"`
	Messages []Message `json:"messages"`

	// Name is derived from the file name and is not part of the JSON document.
	Name string `json:"-"`
}

// Message is a single chat message.
type Message struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// Text returns the message content, treating null and the literal "null" as empty.
func (m Message) Text() string {
	if m.Content == nil || *m.Content == "null" {
		return ""
	}
	return *m.Content
}

// ToolCall is a function call requested by the assistant.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the tool name and its raw JSON arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Category classifies a tool output.
type Category string

// Tool output categories.
const (
	CategoryNormal       Category = "normal_tool_output"
	CategoryError        Category = "error_in_tool_call"
	CategoryOverlong     Category = "overlong_tool_output"
	CategoryNameNotFound Category = "tool_name_not_found"
)

// ToolResult is a tool call paired with its output.
type ToolResult struct {
	// ID is stable within a page: tool-result-{task}-{n}, n starting at 1.
	ID string `json:"id"`

	// Turn is the 1-based assistant turn that issued the call.
	Turn int `json:"turn"`

	// Server is the tool provider name, e.g. "filesystem".
	Server string `json:"server"`

	// Function is the function within Server; empty for single-function servers.
	Function string `json:"function,omitempty"`

	// Arguments is the formatted call arguments (or code for python-execute).
	Arguments string `json:"arguments"`

	// Output is the tool response shown in the details panel.
	Output string `json:"output"`

	// Category classifies Output.
	Category Category `json:"category"`
}

// Title returns "server function", or just the server when there is no function.
func (r ToolResult) Title() string {
	if r.Function == "" {
		return r.Server
	}
	return r.Server + " " + r.Function
}

// AgentMessage is non-empty assistant text: reasoning before tool calls, or a
// final answer.
type AgentMessage struct {
	// Turn is the 1-based assistant turn that produced the text.
	Turn int `json:"turn"`

	// Text is the trimmed message content.
	Text string `json:"text"`

	// Position is the number of tool results that precede the message, so it is
	// shown just before Results[Position], or after the last result when
	// Position == len(Results).
	Position int `json:"position"`
}

// Summary mirrors the page header cards: completion, tool call count and turns.
type Summary struct {
	Name      string `json:"name"`
	Pass      bool   `json:"pass"`
	ToolCalls int    `json:"tool_calls"`
	Turns     int    `json:"turns"`
	Results   int    `json:"results"`
}
