package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/corpix/bootstrap/internal/branding"
	"github.com/corpix/bootstrap/internal/config"
	"github.com/corpix/bootstrap/internal/manifest"
	"github.com/corpix/bootstrap/internal/scaffold"
	"github.com/corpix/bootstrap/internal/source"
)

var checkManifest string

func init() {
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a template manifest file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment " + branding.CLIName() + " runs in",
	Long: `Run diagnostic checks: tools used by the finalization hooks, the user config
file and the configured template. With --check-manifest only the given manifest
file is validated.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if checkManifest != "" {
			return runManifestCheck(w, checkManifest)
		}

		runRuntimeCheck(w)
		runConfigCheck(w)
		runTemplateCheck(cmd, w)
		return nil
	},
}

func runRuntimeCheck(w io.Writer) {
	fmt.Fprintln(w, "Runtime check:")
	checkBinary(w, "git")
	checkBinary(w, "make")
	checkBinary(w, "go")
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
}

func runConfigCheck(w io.Writer) {
	fmt.Fprintln(w, "Config check:")
	path := config.FilePath()
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  [INFO] %s not found, using defaults\n", path)
	} else {
		fmt.Fprintf(w, "  [ OK ] %s\n", path)
	}
	if _, err := scaffold.ParseHookPolicy(config.Get(config.KeyHooks)); err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", config.KeyHooks, err)
	}
}

func runTemplateCheck(cmd *cobra.Command, w io.Writer) {
	fmt.Fprintln(w, "Template check:")
	tmpl, m, path, err := loadTemplate(cmd, false)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}

	fmt.Fprintf(w, "  [ OK ] %s\n", tmpl.Dir)
	if path == "" {
		fmt.Fprintf(w, "  [INFO] no %s, using the built-in %s layout\n", manifest.FileName, m.Name)
	} else {
		fmt.Fprintf(w, "  [ OK ] %s: %s\n", manifest.FileName, m.Name)
	}
	if err := manifest.CheckCompatible(m, buildVersion); err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
	}
	if tmpl.Remote && time.Since(tmpl.Updated) > source.DefaultMaxAge {
		fmt.Fprintf(w, "  [WARN] cached clone is older than 7 days (run `%s template update`)\n", branding.CLIName())
	}
}

func runManifestCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("reading manifest: %w", err)
	}

	result, err := manifest.Validate(data)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		m, err := manifest.Parse(data)
		if err != nil {
			fmt.Fprintf(w, "  [ OK ] Valid manifest\n")
			return nil
		}
		fmt.Fprintf(w, "  [ OK ] Valid manifest: %s (%d substitutions, %d renames)\n",
			m.Name, len(m.Substitutions), len(m.Renames))
		return nil
	}

	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(w, "    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
