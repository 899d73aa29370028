package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/tfresolve/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("tfresolve", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
tfresolve - Static resolution of configuration references across a workspace.

Usage:
  tfresolve [options] REFERENCE

Arguments:
  REFERENCE
    The reference to resolve, e.g. var.region, local.name_prefix,
    module.network.vpc_id or data.aws_ami.app.id.

Options:
`)
		flagSet.PrintDefaults()
	}

	workspaceFlag := flagSet.String("workspace", ".", "Workspace root directory; resolution never escapes it.")
	dirFlag := flagSet.String("dir", "", "Directory to interpret the reference from. Defaults to the workspace root.")
	enhancedFlag := flagSet.Bool("enhanced", false, "Also search the parent's module calls for values threaded in as inputs.")
	allContextsFlag := flagSet.Bool("all-contexts", false, "Resolve across the conventional environment directories and list every hit.")
	propertyFlag := flagSet.String("property", "", "Project a single property out of the resolved structured value.")
	prettyFlag := flagSet.Bool("pretty", false, "Render structured values as compact JSON.")
	watchFlag := flagSet.Bool("watch", false, "Keep running and invalidate cached values when files change.")
	maxDepthFlag := flagSet.Int("max-depth", 0, "Recursion depth bound. 0 uses the built-in default.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	reference := ""
	if flagSet.NArg() > 0 {
		reference = flagSet.Arg(0)
	}
	if reference == "" {
		slog.Debug("No reference provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *maxDepthFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid max-depth: must be zero or positive"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Workspace:   *workspaceFlag,
		Dir:         *dirFlag,
		Reference:   reference,
		Enhanced:    *enhancedFlag,
		AllContexts: *allContextsFlag,
		Property:    *propertyFlag,
		Pretty:      *prettyFlag,
		Watch:       *watchFlag,
		MaxDepth:    *maxDepthFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
