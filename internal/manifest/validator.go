package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/manifest.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ValidationResult contains the outcome of a manifest validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single validation problem.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/renames/0/to")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed, or "placeholder"/"path"/"requires"
}

// Messages renders every issue as "path: message".
func (r *ValidationResult) Messages() []string {
	msgs := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		msg := issue.Message
		if issue.Path != "" {
			msg = issue.Path + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("manifest.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks raw manifest YAML against the JSON schema and then runs
// the semantic checks the schema cannot express: placeholders must be
// known, paths must stay inside the tree and "requires" must parse as a
// semver constraint. The error return is for parse or schema compilation
// failures; problems with the manifest itself are reported as issues.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	jsonData, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		return &ValidationResult{Issues: extractIssues(validationErr)}, nil
	}

	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	issues := semanticIssues(m)
	return &ValidationResult{Valid: len(issues) == 0, Issues: issues}, nil
}

// Placeholders returns the placeholder names referenced by s, in order.
func Placeholders(s string) []string {
	var names []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		names = append(names, match[1])
	}
	return names
}

func semanticIssues(m *Manifest) []ValidationIssue {
	var issues []ValidationIssue

	checkVars := func(path, value string) {
		for _, name := range Placeholders(value) {
			if !slices.Contains(KnownVars, name) {
				issues = append(issues, ValidationIssue{
					Path:    path,
					Message: printer.Sprintf("unknown placeholder {%s}; known: %s", name, strings.Join(KnownVars, ", ")),
					Keyword: "placeholder",
				})
			}
		}
	}
	checkLocal := func(path, value string) {
		if !filepath.IsLocal(filepath.FromSlash(value)) {
			issues = append(issues, ValidationIssue{
				Path:    path,
				Message: printer.Sprintf("path %q must stay inside the project", value),
				Keyword: "path",
			})
		}
	}

	for i, s := range m.Substitutions {
		checkVars(fmt.Sprintf("/substitutions/%d/replacement", i), s.Replacement)
	}
	for i, f := range m.Templates.Files {
		checkLocal(fmt.Sprintf("/templates/files/%d", i), f)
	}
	if m.Templates.Exclude != "" {
		checkLocal("/templates/exclude", m.Templates.Exclude)
	}
	if m.Config != "" {
		checkLocal("/config", m.Config)
	}
	for i, d := range m.Discard {
		checkLocal(fmt.Sprintf("/discard/%d", i), d)
	}
	for i, r := range m.Renames {
		checkLocal(fmt.Sprintf("/renames/%d/from", i), r.From)
		checkLocal(fmt.Sprintf("/renames/%d/to", i), r.To)
		checkVars(fmt.Sprintf("/renames/%d/to", i), r.To)
	}
	if m.Requires != "" {
		if _, err := semver.NewConstraint(m.Requires); err != nil {
			issues = append(issues, ValidationIssue{
				Path:    "/requires",
				Message: printer.Sprintf("invalid version constraint %q: %v", m.Requires, err),
				Keyword: "requires",
			})
		}
	}
	return issues
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

// collectValidationIssues recursively walks the error tree to find leaf errors
// with specific property information.
func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		msg := ""
		if ve.ErrorKind != nil {
			if kwPath := ve.ErrorKind.KeywordPath(); len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Container keywords carry no information of their own.
		if keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}

// normalizeYAML converts YAML-decoded values to JSON-compatible types.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	default:
		return val
	}
}
