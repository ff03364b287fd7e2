package scaffold

import (
	"sort"
	"strings"
)

// Rule is one literal find/replace pair.
type Rule struct {
	Pattern     string
	Replacement string
}

// Table is an ordered list of rules. Order matters: each rule sees the
// output of the rules before it, so a later pattern can match text an
// earlier replacement introduced, and an earlier rule can consume text a
// later pattern would have matched.
type Table []Rule

// Apply runs every rule over line; see ApplyAll.
func (t Table) Apply(line string) string {
	return ApplyAll(line, t)
}

// ApplyAll replaces every non-overlapping occurrence of each rule's pattern,
// rule by rule in table order. Rules with an empty pattern are skipped:
// strings.ReplaceAll would otherwise insert the replacement between every
// rune of the line.
func ApplyAll(line string, table Table) string {
	for _, rule := range table {
		if rule.Pattern == "" {
			continue
		}
		line = strings.ReplaceAll(line, rule.Pattern, rule.Replacement)
	}
	return line
}

// Expand resolves {key} placeholders in tmpl against vars in a single pass,
// so values that themselves contain braces are not expanded again. Unknown
// placeholders are left as they are.
func Expand(tmpl string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	oldnew := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		oldnew = append(oldnew, "{"+k+"}", vars[k])
	}
	return strings.NewReplacer(oldnew...).Replace(tmpl)
}
