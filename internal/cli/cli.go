package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

// exitCode ends the process with a non-error status.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "wca-notifier",
		Short: "Notify subscribers about newly announced WCA competitions",
		Long: `Scrapes the World Cube Association competition listings, matches new
competitions against each subscriber's filter and emails a digest of the ones
they have not seen yet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file (default ./config.yaml if present)")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newRunCmd(a),
		newDiscoverCmd(a),
		newSubscribeCmd(a),
		newUnsubscribeCmd(a),
		newListCmd(a),
		newServeCmd(a),
	)
	return cmd
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:]))
}

func run(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var code exitCode
	if errors.As(err, &code) {
		return int(code)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return ExitError
}
