// Package fixer rewrites image references inside a character configuration file.
package fixer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/buger/jsonparser"

	"github.com/starford/assetkit/internal/apperr"
	"github.com/starford/assetkit/internal/storage"
)

const (
	indent      = "    "
	unnamedName = "<unnamed>"
)

var defaultImageMapping = map[string]string{
	"home_photo1":  "patalar_home_photo1",
	"home_photo2":  "patalar_home_photo2",
	"home_photo3":  "patalar_home_photo3",
	"home_photo4":  "patalar_home_photo4",
	"home_photo5":  "patalar_home_photo5",
	"home_photo6":  "patalar_home_photo6",
	"home_big_bg1": "patalar_home_big_bg1",
	"home_big_bg2": "patalar_home_big_bg2",
	"home_big_bg3": "patalar_home_big_bg3",
	"home_big_bg4": "patalar_home_big_bg4",
	"home_big_bg5": "patalar_home_big_bg5",
	"home_big_bg6": "patalar_home_big_bg6",
}

// DefaultImageMapping returns a copy of the built-in old → new image table.
func DefaultImageMapping() map[string]string {
	return maps.Clone(defaultImageMapping)
}

// Options configures a Fixer. Zero values fall back to the defaults.
type Options struct {
	ListField string
	NameField string
	Fields    []string
	Mapping   map[string]string
}

// Change is one remapped attribute of one record.
type Change struct {
	Index int
	Name  string
	Field string
	Old   string
	New   string
}

// Result holds the rewritten document and the changes applied to it.
type Result struct {
	Changes []Change
	Output  []byte
}

// Fixer remaps record attributes through a fixed image table.
type Fixer struct {
	listField string
	nameField string
	fields    []string
	mapping   map[string]string
	logger    *slog.Logger
}

// New creates a Fixer.
func New(opts Options, logger *slog.Logger) *Fixer {
	f := &Fixer{
		listField: opts.ListField,
		nameField: opts.NameField,
		fields:    opts.Fields,
		mapping:   maps.Clone(opts.Mapping),
		logger:    logger,
	}
	if f.listField == "" {
		f.listField = "alien_characters"
	}
	if f.nameField == "" {
		f.nameField = "name"
	}
	if len(f.fields) == 0 {
		f.fields = []string{"photo", "bigBg"}
	}
	if len(f.mapping) == 0 {
		f.mapping = DefaultImageMapping()
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fix remaps every configured attribute of every record in the list field
// and returns the whole document re-indented with keys in their original
// order. Strings are written unescaped, including non-ASCII text the input
// spelled as \u escapes. A repeated key counts once, with its last value.
func (f *Fixer) Fix(data []byte) (*Result, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidJSON, err)
	}

	doc, err := parseDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidJSON, err)
	}

	changes := f.remap(doc)

	var out bytes.Buffer
	if err := doc.encode(&out, 0); err != nil {
		return nil, fmt.Errorf("fixer: encode: %w", err)
	}
	return &Result{Changes: changes, Output: out.Bytes()}, nil
}

// remap rewrites the mapped attributes of doc and returns what it changed.
func (f *Fixer) remap(doc *node) []Change {
	if doc.kind != jsonparser.Object {
		f.logger.Debug("fixer: document is not an object, nothing to remap")
		return nil
	}
	list, ok := doc.field(f.listField)
	if !ok {
		f.logger.Debug("fixer: list field not found", slog.String("field", f.listField))
		return nil
	}
	if list.kind != jsonparser.Array {
		f.logger.Warn("fixer: list field is not an array",
			slog.String("field", f.listField),
			slog.String("type", list.kind.String()))
		return nil
	}

	var changes []Change
	for i, record := range list.arr {
		if record.kind != jsonparser.Object {
			continue
		}
		name := unnamedName
		if n, ok := record.field(f.nameField); ok && n.kind == jsonparser.String {
			name = n.str
		}
		for _, field := range f.fields {
			v, ok := record.field(field)
			if !ok || v.kind != jsonparser.String {
				continue
			}
			mapped, ok := f.mapping[v.str]
			if !ok {
				continue
			}
			changes = append(changes, Change{
				Index: i,
				Name:  name,
				Field: field,
				Old:   v.str,
				New:   mapped,
			})
			v.str = mapped
		}
	}
	return changes
}

// FixFile reads path from store, rewrites it in place and prints one line
// per change to w, headed by label. The file is left untouched when it
// cannot be parsed.
func (f *Fixer) FixFile(store storage.Provider, path, label string, w io.Writer) (*Result, error) {
	data, err := store.Read(path)
	if err != nil {
		return nil, err
	}
	res, err := f.Fix(data)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "Fixing %s...\n", label)
	for _, c := range res.Changes {
		fmt.Fprintf(w, "  %s: %s %s → %s\n", c.Name, c.Field, c.Old, c.New)
	}

	if err := store.Write(path, res.Output); err != nil {
		return nil, err
	}
	f.logger.Info("fixer: written",
		slog.String("path", path),
		slog.Int("changes", len(res.Changes)))
	return res, nil
}
