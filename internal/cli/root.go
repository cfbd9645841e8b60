package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/shared/config"
	"idea-analyzer/internal/submission"
)

// options are the persistent flags shared by every command.
type options struct {
	envFile string
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

func (o *options) config() config.Config {
	if o.envFile != "" {
		return config.LoadFrom(o.envFile)
	}
	return config.Load()
}

func (o *options) logf(format string, args ...any) {
	if o.verbose {
		fmt.Fprintf(o.errOut, format+"\n", args...)
	}
}

// NewRootCmd builds the ideactl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "ideactl",
		Short: "ideactl - analyze business ideas and render reports from the command line",
		Long: `ideactl talks to the analysis service directly, without the API server.

It can analyze a text description or a PDF business plan, render the
PDF report for a result, mint development JWTs and print the effective
configuration.

Configuration is read from the environment and an optional .env file.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.out = cmd.OutOrStdout()
			opts.errOut = cmd.ErrOrStderr()
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file to load (default: .env)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newReportCmd(opts),
		newTokenCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// ErrorMessage renders err for the terminal. Rejected input and failed
// analyses read the same way they do for API callers.
func ErrorMessage(err error) string {
	var verr *submission.ValidationError
	var serr *ideas.SubmitError
	if errors.As(err, &verr) || errors.As(err, &serr) {
		return ideas.FailureMessage(err)
	}
	return err.Error()
}
