// Package pattern expands textual call templates that reference an asset by name.
//
// A template is literal source text with a single {name} placeholder, for
// example `[UIImage imageNamed:@"{name}"]`. Replacing an old name with a new
// one rewrites every literal occurrence of the expanded template and leaves
// all surrounding text untouched.
package pattern

import (
	"fmt"
	"strings"
)

// Placeholder marks where the asset name goes in a template.
const Placeholder = "{name}"

// DefaultTemplates are the Objective-C call shapes rewritten by default.
// The bare quoted literal is last and covers the narrower shapes as well.
var DefaultTemplates = []string{
	`ImageNamed(@"{name}")`,
	`[UIImage imageNamed:@"{name}"]`,
	`setImage:[UIImage imageNamed:@"{name}"]`,
	`setBackgroundImage:[UIImage imageNamed:@"{name}"]`,
	`@"{name}"`,
}

// Template is a parsed call template.
type Template struct {
	raw    string
	prefix string
	suffix string
}

// Parse splits raw around its placeholder.
func Parse(raw string) (Template, error) {
	if n := strings.Count(raw, Placeholder); n != 1 {
		return Template{}, fmt.Errorf("pattern: template %q must contain %s exactly once, found %d", raw, Placeholder, n)
	}
	i := strings.Index(raw, Placeholder)
	return Template{
		raw:    raw,
		prefix: raw[:i],
		suffix: raw[i+len(Placeholder):],
	}, nil
}

// String returns the template source.
func (t Template) String() string {
	return t.raw
}

// Expand returns the template text for name.
func (t Template) Expand(name string) string {
	return t.prefix + name + t.suffix
}

// Replace rewrites every occurrence of the template expanded with oldName
// and reports how many were replaced.
func (t Template) Replace(content, oldName, newName string) (string, int) {
	needle := t.Expand(oldName)
	n := strings.Count(content, needle)
	if n == 0 {
		return content, 0
	}
	return strings.ReplaceAll(content, needle, t.Expand(newName)), n
}

// Set is an ordered list of templates applied one after another.
type Set []Template

// Compile parses every raw template.
func Compile(raws []string) (Set, error) {
	out := make(Set, 0, len(raws))
	for _, raw := range raws {
		t, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(raws []string) Set {
	s, err := Compile(raws)
	if err != nil {
		panic(err)
	}
	return s
}

// Replace applies each template in order and returns the total number of
// replacements made.
func (s Set) Replace(content, oldName, newName string) (string, int) {
	total := 0
	for _, t := range s {
		var n int
		content, n = t.Replace(content, oldName, newName)
		total += n
	}
	return content, total
}
