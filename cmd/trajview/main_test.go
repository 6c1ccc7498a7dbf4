package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/trajview/internal/cli"
	"github.com/rshade/trajview/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		assert.NotNil(t, root)
		assert.NotEmpty(t, root.Use)
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error returns 0", err: nil, want: 0},
		{name: "generic error", err: errors.New("boom"), want: 1},
		{name: "interrupted", err: context.Canceled, want: exitInterrupted},
		{name: "wrapped interrupt", err: fmt.Errorf("running viewer: %w", context.Canceled), want: exitInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestRun(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"--version"}, &stderr))

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"no-such-command"}, &stderr))
	assert.Contains(t, stderr.String(), "Error:")
}
