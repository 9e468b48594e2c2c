package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/modelgraph/internal/app"
	"github.com/vk/modelgraph/internal/config"
	"github.com/vk/modelgraph/internal/hcl_adapter"
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

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// options are the flag values shared by every command.
type options struct {
	configFile string
	cfg        app.Config
}

// NewRootCommand builds the command tree. Reports go to outW, logs to logW.
// loader is used to read models; nil means the HCL loader.
func NewRootCommand(outW, logW io.Writer, loader config.Loader) *cobra.Command {
	if loader == nil {
		loader = hcl_adapter.NewLoader()
	}
	opts := &options{}

	root := &cobra.Command{
		Use:   "modelgraph",
		Short: "Discover a declarative build model and print it as a property graph",
		Long: `modelgraph loads a model description, discovers the elements its types
declare, realizes the ones that are needed and prints the resulting graph of
elements and ownership relationships.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Path to a YAML config file. Flags override its values.")
	pf.StringVarP(&opts.cfg.Type, "type", "t", "", "Only consider candidates of this type and its subtypes. Defaults to 'Object'.")
	pf.StringVarP(&opts.cfg.Output, "output", "o", "", "Output format. Options: 'text', 'json' or 'yaml'.")
	pf.IntVar(&opts.cfg.MaxDepth, "max-depth", 0, "Maximum nesting depth of a single expansion.")
	pf.StringVar(&opts.cfg.LogFormat, "log-format", "", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&opts.cfg.LogLevel, "log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	discoverCmd := &cobra.Command{
		Use:   "discover [MODEL_PATH]",
		Short: "Realize what the model needs and print the projected graph",
		Args:  modelPathArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, args, opts, outW, logW, loader)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	discoverCmd.Flags().StringVarP(&opts.cfg.Element, "element", "e", "", "Resolve only this element instead of every candidate.")
	discoverCmd.Flags().BoolVar(&opts.cfg.Finalize, "finalize", false, "Finalize every realized element once discovery is done.")

	candidatesCmd := &cobra.Command{
		Use:   "candidates [MODEL_PATH]",
		Short: "List discovery candidates and what they wait on, without realizing anything",
		Args:  modelPathArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, args, opts, outW, logW, loader)
			if err != nil {
				return err
			}
			return a.ListCandidates(cmd.Context())
		},
	}

	root.AddCommand(discoverCmd, candidatesCmd)
	return root
}

func modelPathArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return usageError("expected at most one MODEL_PATH, got %d arguments", len(args))
	}
	return nil
}

// resolveConfig merges the config file, when given, with the flags that were
// set explicitly, and validates the result.
func resolveConfig(cmd *cobra.Command, args []string, opts *options) (*app.Config, error) {
	cfg := app.Config{}
	if opts.configFile != "" {
		fileCfg, err := app.LoadConfigFile(opts.configFile)
		if err != nil {
			return nil, usageError("%v", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	override := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	override("type", func() { cfg.Type = opts.cfg.Type })
	override("output", func() { cfg.Output = opts.cfg.Output })
	override("max-depth", func() { cfg.MaxDepth = opts.cfg.MaxDepth })
	override("log-format", func() { cfg.LogFormat = opts.cfg.LogFormat })
	override("log-level", func() { cfg.LogLevel = opts.cfg.LogLevel })
	override("element", func() { cfg.Element = opts.cfg.Element })
	override("finalize", func() { cfg.Finalize = opts.cfg.Finalize })
	if len(args) == 1 {
		cfg.ModelPath = args[0]
	}

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError("invalid configuration: %v", err)
	}
	return validated, nil
}

func newApp(cmd *cobra.Command, args []string, opts *options, outW, logW io.Writer, loader config.Loader) (*app.App, error) {
	cfg, err := resolveConfig(cmd, args, opts)
	if err != nil {
		return nil, err
	}
	return app.NewApp(outW, logW, cfg, loader)
}

// Execute runs the command line args against a fresh command tree.
func Execute(ctx context.Context, args []string, outW, logW io.Writer) error {
	root := NewRootCommand(outW, logW, nil)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)

	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) && isUsageError(err) {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return err
}

// isUsageError recognizes the command resolution errors cobra reports
// without a typed error.
func isUsageError(err error) bool {
	return strings.HasPrefix(err.Error(), "unknown command") || strings.HasPrefix(err.Error(), "unknown flag")
}
