package manifest

// FileName is the manifest file looked up at the root of a template tree.
const FileName = ".bootstrap.yaml"

// Placeholder names available in replacements and rename targets.
const (
	VarName        = "name"
	VarUser        = "user"
	VarHost        = "host"
	VarDescription = "description"
)

// KnownVars lists every placeholder a manifest may reference.
var KnownVars = []string{VarName, VarUser, VarHost, VarDescription}

// Manifest describes how a template tree is turned into a new project.
type Manifest struct {
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description,omitempty"`
	Requires      string         `yaml:"requires,omitempty"` // semver constraint on the tool version
	Templates     Templates      `yaml:"templates"`
	Substitutions []Substitution `yaml:"substitutions"`
	Config        string         `yaml:"config,omitempty"` // JSON document patched with host/user/name
	Discard       []string       `yaml:"discard,omitempty"`
	Renames       []Rename       `yaml:"renames,omitempty"`
	Hooks         Hooks          `yaml:"hooks,omitempty"`
}

// Templates selects the files whose content is rewritten.
type Templates struct {
	Files   []string `yaml:"files,omitempty"`   // always templates, relative to the root
	Glob    string   `yaml:"glob,omitempty"`    // doublestar pattern, e.g. "**/*.go"
	Exclude string   `yaml:"exclude,omitempty"` // subtree skipped by Glob, e.g. "vendor"
}

// Substitution is one ordered literal find/replace rule. Replacement may
// contain {placeholders}; Pattern is always literal.
type Substitution struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Rename moves From to To after substitution. To may contain {placeholders}.
type Rename struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Hooks are the external finalization steps.
type Hooks struct {
	DetachRemote string   `yaml:"detach_remote,omitempty"` // git remote to delete, e.g. "origin"
	Build        []string `yaml:"build,omitempty"`         // argv run in the new project
}
