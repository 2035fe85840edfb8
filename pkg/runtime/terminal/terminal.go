package terminal

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smustafa75/aws-calc/pkg/runtime/terminal/commands"
	"github.com/smustafa75/aws-calc/pkg/runtime/terminal/export"
	"github.com/smustafa75/aws-calc/pkg/services/config"
)

// CLI represents the command-line interface
type CLI struct {
	logger  zerolog.Logger
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	// Output receives reports. Logs go to ErrOutput so reports stay clean.
	Output    io.Writer
	ErrOutput io.Writer
	Profiles  config.Registry
	Connect   commands.Connector
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Connect == nil {
		opts.Connect = commands.AWSConnector
	}

	cli := &CLI{
		logger: zerolog.New(zerolog.ConsoleWriter{Out: opts.ErrOutput, NoColor: true}).
			With().Timestamp().Logger(),
	}
	cli.rootCmd = cli.newRootCmd(opts)
	return cli
}

// Execute runs the command line in args, excluding the program name.
// Failures come back as *ExitError.
func (cli *CLI) Execute(ctx context.Context, args []string) error {
	cli.rootCmd.SetArgs(NormalizeArgs(args))
	if err := cli.rootCmd.ExecuteContext(cli.logger.WithContext(ctx)); err != nil {
		return Classify(err)
	}
	return nil
}

func (cli *CLI) newRootCmd(opts Options) *cobra.Command {
	cmd := commands.NewEstimateCmd(commands.Dependencies{
		Profiles: opts.Profiles,
		Connect:  opts.Connect,
		Reporter: NewReporter(opts.Output),
		Summary:  export.NewReporter(opts.Output),
	})
	cmd.SetOut(opts.Output)
	cmd.SetErr(opts.ErrOutput)

	cmd.AddCommand(commands.NewRegionsCmd())

	return cmd
}
