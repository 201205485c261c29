package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/longread/internal/config"
	"github.com/idilsaglam/longread/internal/log"
	"github.com/idilsaglam/longread/internal/ui"
)

// RootOptions holds global flags for all commands, and the configuration
// resolved from them before any command runs.
type RootOptions struct {
	File    string
	Theme   string
	Config  string
	Verbose bool

	cfg config.Config
}

// NewRootCommand creates the root command of the longread CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "longread",
		Short:         "Author longreads from the terminal",
		Long:          "Create, edit, preview and publish longread documents stored as local JSON files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	cmd.PersistentFlags().StringVarP(&opts.File, "file", "f", "", "longread file (default longread.json)")
	cmd.PersistentFlags().StringVar(&opts.Theme, "theme", "", "output theme ("+strings.Join(ui.ThemeNames(), "|")+")")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default ~/.longread/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging and HTTP dumps on stderr")

	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewPreviewCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewMetaCommand(opts))
	cmd.AddCommand(NewBlockCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewPushCommand(opts))
	cmd.AddCommand(NewPullCommand(opts))
	cmd.AddCommand(NewAuthCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewRevertCommand(opts))

	return cmd
}

// resolve layers flags over the loaded configuration.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	log.Set(o.Verbose)

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir, o.Config)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("file") {
		cfg.File = o.File
	}
	if cmd.Flags().Changed("theme") {
		cfg.Theme = o.Theme
	}
	o.cfg = cfg
	ui.SetTheme(cfg.Theme)

	log.Get().Debug("config resolved",
		zap.String("file", cfg.File),
		zap.String("api", cfg.APIURL),
		zap.String("history", cfg.HistoryPath),
	)
	return nil
}

// Execute runs the command tree on args and returns the process exit code:
// 0 on success, 2 on usage errors, 1 otherwise.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	log.Flush()
	if err == nil {
		return 0
	}
	ui.Fail(stderr, err.Error())
	return ExitCode(err)
}

// UsageError marks a mistake in how a command was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}

// usageArgs wraps a cobra argument validator so its failures count as
// usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(fn(cmd, args))
	}
}

func ExitCode(err error) int {
	var ue *UsageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue), strings.HasPrefix(err.Error(), "unknown command"):
		return 2
	}
	return 1
}
