package scaffold

import (
	"errors"

	"github.com/corpix/bootstrap/internal/manifest"
)

// Vars are the named runtime parameters of a bootstrap run.
type Vars struct {
	Name        string
	Host        string
	User        string
	Description string
}

// Map returns vars keyed by placeholder name.
func (v Vars) Map() map[string]string {
	return map[string]string{
		manifest.VarName:        v.Name,
		manifest.VarHost:        v.Host,
		manifest.VarUser:        v.User,
		manifest.VarDescription: v.Description,
	}
}

// ConfigValues returns the keys written into the structured config.
func (v Vars) ConfigValues() map[string]string {
	return map[string]string{
		manifest.VarHost: v.Host,
		manifest.VarUser: v.User,
		manifest.VarName: v.Name,
	}
}

// Plan is the explicit per-template configuration handed to Bootstrap.
type Plan struct {
	Files        []string     // explicit template files
	Glob         string       // dynamic template search
	Exclude      string       // subtree skipped by Glob
	Rules        Table        // replacements may hold {placeholders}
	Config       string       // JSON document to patch, empty to skip
	Discard      []string     // scaffold-only paths removed after patching
	Renames      []RenameSpec // applied after all substitution
	DetachRemote string       // git remote removed by the finalization hook
	Build        []string     // build command run in the new project
}

// NewPlan converts a template manifest into a Plan. manifestPath is where
// the manifest was read from inside the template tree; when non-empty the
// manifest file itself is discarded from the new project.
func NewPlan(m *manifest.Manifest, manifestPath string) Plan {
	p := Plan{
		Files:        append([]string(nil), m.Templates.Files...),
		Glob:         m.Templates.Glob,
		Exclude:      m.Templates.Exclude,
		Config:       m.Config,
		Discard:      append([]string(nil), m.Discard...),
		DetachRemote: m.Hooks.DetachRemote,
		Build:        append([]string(nil), m.Hooks.Build...),
	}
	for _, s := range m.Substitutions {
		p.Rules = append(p.Rules, Rule{Pattern: s.Pattern, Replacement: s.Replacement})
	}
	for _, r := range m.Renames {
		p.Renames = append(p.Renames, RenameSpec{From: r.From, To: r.To})
	}
	if manifestPath != "" {
		p.Discard = append(p.Discard, manifest.FileName)
	}
	return p
}

// Table expands the rule replacements against vars. Patterns stay literal.
func (p Plan) Table(vars Vars) Table {
	values := vars.Map()
	table := make(Table, 0, len(p.Rules))
	for _, rule := range p.Rules {
		table = append(table, Rule{
			Pattern:     rule.Pattern,
			Replacement: Expand(rule.Replacement, values),
		})
	}
	return table
}

var errNoName = errors.New("project name is required")
