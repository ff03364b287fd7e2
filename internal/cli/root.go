package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corpix/bootstrap/internal/branding"
	"github.com/corpix/bootstrap/internal/config"
	"github.com/corpix/bootstrap/internal/output"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates a new Go project from a template tree: it copies the
template, rewrites module paths and names in its files, patches the project
config, renames the entry point and detaches the copy from the template's git remote.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		output.SetupLoggingTo(cmd.ErrOrStderr(), verbose)
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// hintError carries user guidance alongside a command failure.
type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() }
func (e *hintError) Unwrap() error { return e.err }

// Execute runs the root command with build info injected via ldflags.
// Errors are printed to stderr before being returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		var he *hintError
		hint := ""
		if errors.As(err, &he) {
			hint = he.hint
		}
		fmt.Fprint(os.Stderr, output.FormatError(err, hint))
	}
	return err
}
