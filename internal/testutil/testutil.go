// Package testutil provides shared test helpers for building asset catalogs and source trees.
package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/assetkit/internal/storage"
)

// DirMarker is the digest Snapshot records for directories.
const DirMarker = "dir"

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// AssetCatalog creates a temporary assets root. Each key of layout is a
// category folder and each value lists the bundle folders inside it; every
// bundle gets a Contents.json and a PNG placeholder.
func AssetCatalog(t *testing.T, layout map[string][]string) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	WriteFile(t, root, "Contents.json", `{"info":{"author":"xcode","version":1}}`)
	for category, bundles := range layout {
		if err := os.MkdirAll(filepath.Join(root, category), 0o755); err != nil {
			t.Fatal(err)
		}
		for _, b := range bundles {
			WriteFile(t, root, filepath.Join(category, b, "Contents.json"), `{"images":[{"filename":"img.png"}]}`)
			WriteFile(t, root, filepath.Join(category, b, "img.png"), "\x89PNG"+b)
		}
	}
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// SourceTree creates a temporary project root holding files (relative path → content).
func SourceTree(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		WriteFile(t, root, rel, content)
	}
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteFile writes content to root/rel, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ReadFile returns the content of root/rel.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// Snapshot maps every path under root, relative to root and slash
// separated, to the SHA-256 of its content so two trees can be compared
// byte for byte. Directories map to DirMarker.
func Snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			out[filepath.ToSlash(rel)] = DirMarker
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(data)
		out[filepath.ToSlash(rel)] = hex.EncodeToString(sum[:])
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}
