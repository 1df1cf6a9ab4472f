// Package models defines the domain types shared by the asset tools.
package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Category is a directory directly under the assets root that groups bundles.
type Category struct {
	Name string
	Path string // relative to the assets root
}

// AssetBundle is a single image resource directory inside a category.
type AssetBundle struct {
	Category string
	Name     string // folder name including the bundle suffix
	BaseName string
}

// Path returns the bundle path relative to the assets root.
func (b AssetBundle) Path() string {
	return b.Category + "/" + b.Name
}

// PlannedRename describes the computed target for one bundle.
type PlannedRename struct {
	Bundle      AssetBundle
	NewName     string
	NewBaseName string
}

// Changed reports whether the bundle needs a move.
func (p PlannedRename) Changed() bool {
	return p.Bundle.Name != p.NewName
}

// RenameMapping records old base name → new base name in insertion order.
// Recording an existing key overwrites the value but keeps its position.
type RenameMapping struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewRenameMapping returns an empty mapping.
func NewRenameMapping() *RenameMapping {
	return &RenameMapping{m: orderedmap.New[string, string]()}
}

// Record stores old → new.
func (r *RenameMapping) Record(oldBase, newBase string) {
	r.m.Set(oldBase, newBase)
}

// Lookup returns the new name for oldBase.
func (r *RenameMapping) Lookup(oldBase string) (string, bool) {
	return r.m.Get(oldBase)
}

// Len returns the number of recorded pairs.
func (r *RenameMapping) Len() int {
	return r.m.Len()
}

// Each calls fn for every pair in insertion order.
func (r *RenameMapping) Each(fn func(oldBase, newBase string)) {
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}
