package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/trajview/internal/logging"
	"github.com/rshade/trajview/internal/tui"
)

// logDirMode is the permission for a newly created log directory.
const logDirMode = 0o750

// isInteractive reports whether cmd will take over the terminal.
func isInteractive(cmd *cobra.Command, opts *rootOptions) bool {
	return hasAnnotation(cmd, annotationInteractive) && opts.outputMode() == tui.OutputModeInteractive
}

// setupLogging configures logging based on config file, environment, and CLI flags.
// An interactive view owns the terminal, so its logs go to the configured file
// or nowhere.
func setupLogging(cmd *cobra.Command, opts *rootOptions) logging.LogPathResult {
	loggingCfg := opts.cfg.Logging.ToLoggingConfig()
	loggingCfg.Output = cmd.ErrOrStderr()
	interactive := isInteractive(cmd, opts)

	if opts.debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		if !interactive {
			loggingCfg.File = ""
		}
	}

	var result logging.LogPathResult
	if interactive && loggingCfg.File == "" {
		result = logging.LogPathResult{Logger: logging.Discard()}
	} else {
		if loggingCfg.File != "" {
			if err := os.MkdirAll(filepath.Dir(loggingCfg.File), logDirMode); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
			}
		}
		result = logging.NewLoggerWithPath(loggingCfg)
	}
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && !interactive {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	cmd.SetContext(logger.WithContext(cmd.Context()))

	logger.Debug().
		Str("command", cmd.Name()).
		Str("config", opts.cfgPath).
		Bool("interactive", interactive).
		Msg("command started")

	return result
}

// cleanupLogging closes the log file handle.
func cleanupLogging(logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
