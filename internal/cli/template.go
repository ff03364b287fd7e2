package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/corpix/bootstrap/internal/config"
	"github.com/corpix/bootstrap/internal/manifest"
	"github.com/corpix/bootstrap/internal/output"
	"github.com/corpix/bootstrap/internal/source"
)

func init() {
	templateCmd.PersistentFlags().StringVarP(&templateRef, "template", "t", "", "Template directory or git URL (default: config \"template\")")
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateUpdateCmd)
	rootCmd.AddCommand(templateCmd)
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect and refresh project templates",
}

var templateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective template manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, m, manifestPath, err := loadTemplate(cmd, false)
		if err != nil {
			return err
		}

		origin := manifestPath
		if origin == "" {
			origin = "built-in default"
		}
		data, err := yaml.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshaling manifest: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, output.StyleDim.Render("# template: "+tmpl.Dir))
		fmt.Fprintln(w, output.StyleDim.Render("# manifest: "+origin))
		fmt.Fprint(w, string(data))
		return nil
	},
}

var templateUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Re-clone a remote template into the cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := resolveTemplate(cmd, true)
		if err != nil {
			return err
		}
		if !tmpl.Remote {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is a local template, nothing to update\n", output.StyleNoun.Render(tmpl.Dir))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("Updated "+output.StyleNoun.Render(tmpl.Ref)))
		return nil
	},
}

func resolveTemplate(cmd *cobra.Command, refresh bool) (*source.Template, error) {
	ref := firstNonEmpty(templateRef, config.Get(config.KeyTemplate))
	tmpl, err := source.Resolve(cmd.Context(), ref, source.Options{
		CacheDir: config.Get(config.KeyCacheDir),
		Refresh:  refresh,
	})
	if err != nil {
		return nil, fmt.Errorf("resolving template: %w", err)
	}
	return tmpl, nil
}

// loadTemplate resolves the template and reads its manifest.
func loadTemplate(cmd *cobra.Command, refresh bool) (*source.Template, *manifest.Manifest, string, error) {
	tmpl, err := resolveTemplate(cmd, refresh)
	if err != nil {
		return nil, nil, "", err
	}
	m, path, err := manifest.Load(tmpl.Dir)
	if err != nil {
		return nil, nil, "", err
	}
	return tmpl, m, path, nil
}
