package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/trajview/internal/trajectory"
)

func TestRenderStyled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderStyled(&buf, testPage(3), 80))

	out := buf.String()
	assert.Contains(t, out, "task-7: Completed, 3 tool calls, 1 turns")
	assert.Contains(t, out, "op000")
	assert.Contains(t, out, "op002")
	assert.Contains(t, out, "line one of 001")
}

func TestRenderStyled_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderStyled(&buf, testPage(0), 0))
	assert.Contains(t, buf.String(), "No tool results")
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(testPage(2), 60)
	assert.Contains(t, out, "task-7")
	assert.Contains(t, out, "Normal")
}

func TestRenderStyled_AgentMessages(t *testing.T) {
	page := testPage(2)
	page.Messages = []trajectory.AgentMessage{
		{Turn: 1, Text: "Reading both files", Position: 0},
		{Turn: 2, Text: "All done", Position: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderStyled(&buf, page, 80))

	out := buf.String()
	reasoning := strings.Index(out, "Reading both files")
	require.GreaterOrEqual(t, reasoning, 0)
	assert.Less(t, reasoning, strings.Index(out, "op000"))
	assert.Greater(t, strings.Index(out, "All done"), strings.Index(out, "op001"))
}
