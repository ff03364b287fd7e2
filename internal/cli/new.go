package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corpix/bootstrap/internal/branding"
	"github.com/corpix/bootstrap/internal/config"
	"github.com/corpix/bootstrap/internal/manifest"
	"github.com/corpix/bootstrap/internal/output"
	"github.com/corpix/bootstrap/internal/scaffold"
)

var (
	namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	userPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	hostPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*(:[0-9]+)?$`)
)

var (
	newName        string
	newUser        string
	newHost        string
	newDescription string
	newHooks       string
	newRefresh     bool
	templateRef    string
)

func init() {
	newCmd.Flags().StringVarP(&newName, "name", "n", "", "Project name (required)")
	newCmd.Flags().StringVarP(&newUser, "user", "u", "", "Owning user or organization (default: config \"user\")")
	newCmd.Flags().StringVar(&newHost, "host", "", "Hosting domain (default: config \"host\")")
	newCmd.Flags().StringVarP(&newDescription, "description", "d", "", "One-line project description")
	newCmd.Flags().StringVar(&newHooks, "hooks", "", "What a failing hook does: warn, fail or skip (default: config \"hooks\")")
	newCmd.Flags().BoolVar(&newRefresh, "refresh", false, "Re-clone a cached remote template")
	newCmd.Flags().StringVarP(&templateRef, "template", "t", "", "Template directory or git URL (default: config \"template\")")
	_ = newCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <target>",
	Short: "Create a new project from a template",
	Long: `Create a new project at <target> from a template tree.

The target directory must not exist. The template is copied, its module path
and names are rewritten for the new project, the project config is patched
and the finalization hooks (git remote detach, build) are run.

Examples:
  ` + branding.CLIName() + ` new ./widget --name widget
  ` + branding.CLIName() + ` new ~/src/widget --name widget --user acme --host git.example.com
  ` + branding.CLIName() + ` new ./widget --name widget --template ../my-template --hooks skip`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	target := args[0]

	vars := scaffold.Vars{
		Name:        newName,
		User:        firstNonEmpty(newUser, config.Get(config.KeyUser)),
		Host:        firstNonEmpty(newHost, config.Get(config.KeyHost)),
		Description: newDescription,
	}
	if err := validateName(vars.Name); err != nil {
		return err
	}
	if err := validateUser(vars.User); err != nil {
		return err
	}
	if err := validateHost(vars.Host); err != nil {
		return err
	}

	policy, err := scaffold.ParseHookPolicy(firstNonEmpty(newHooks, config.Get(config.KeyHooks)))
	if err != nil {
		return err
	}

	// Fail on an occupied target before the template is fetched or read.
	if err := scaffold.CheckDestination(target); err != nil {
		err = &scaffold.StateError{State: scaffold.StateCheckDestination, Err: err}
		return &hintError{
			err:  fmt.Errorf("creating %s: %w", target, err),
			hint: scaffold.Hint(err, target),
		}
	}

	tmpl, m, manifestPath, err := loadTemplate(cmd, newRefresh)
	if err != nil {
		return err
	}
	if err := manifest.CheckCompatible(m, buildVersion); err != nil {
		return err
	}

	output.Debug("bootstrapping", "template", tmpl.Dir, "manifest", m.Name, "target", target)
	res, err := scaffold.Bootstrap(cmd.Context(), scaffold.Options{
		Source:     tmpl.Dir,
		Target:     target,
		Vars:       vars,
		Plan:       scaffold.NewPlan(m, manifestPath),
		HookPolicy: policy,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return &hintError{
			err:  fmt.Errorf("creating %s: %w", target, err),
			hint: scaffold.Hint(err, target),
		}
	}

	printResult(cmd.OutOrStdout(), vars.Name, res)
	return nil
}

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: must match pattern [a-z0-9][a-z0-9-]*", name)
	}
	return nil
}

func validateUser(user string) error {
	if !userPattern.MatchString(user) {
		return fmt.Errorf("invalid user %q: must match pattern [A-Za-z0-9][A-Za-z0-9._-]*", user)
	}
	return nil
}

func validateHost(host string) error {
	if !hostPattern.MatchString(host) {
		return fmt.Errorf("invalid host %q: expected a domain such as github.com", host)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printResult(w io.Writer, name string, res *scaffold.Result) {
	fmt.Fprintln(w, output.FormatCheckmark(fmt.Sprintf("Created %s at %s/",
		output.StyleNoun.Render(name), strings.TrimSuffix(res.Target, "/"))))

	seen := make(map[string]bool, len(res.Templates))
	rewritten := 0
	for _, f := range res.Templates {
		if seen[f] {
			continue
		}
		seen[f] = true
		rewritten++
		fmt.Fprintln(w, output.FormatFileLine(f, output.StatusRewritten))
	}
	for _, f := range res.Renamed {
		fmt.Fprintln(w, output.FormatFileLine(f, output.StatusRenamed))
	}
	for _, f := range res.Discarded {
		fmt.Fprintln(w, output.FormatFileLine(f, output.StatusDiscarded))
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warning := range res.Warnings {
			fmt.Fprintln(w, output.FormatWarning(warning))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, output.StyleSummary.Render(fmt.Sprintf("%d rewritten, %d renamed, %d discarded",
		rewritten, len(res.Renamed), len(res.Discarded))))
}
