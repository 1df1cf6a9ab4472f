// Package report renders and saves the rename report.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/assetkit/internal/models"
	"github.com/starford/assetkit/internal/storage"
)

// FileName returns the report file name for project.
func FileName(project string) string {
	return "rename_report_" + project + ".txt"
}

// Render formats the mapping as the plain-text report.
func Render(project string, mapping *models.RenameMapping) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Image rename report - project: %s\n", project)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	b.WriteString("Rename mapping:\n")
	mapping.Each(func(oldBase, newBase string) {
		fmt.Fprintf(&b, "  %s → %s\n", oldBase, newBase)
	})
	fmt.Fprintf(&b, "\nRenamed %d images in total\n", mapping.Len())
	return b.Bytes()
}

// Write saves the report into dir, creating dir if needed, and returns the
// report path.
func Write(dir, project string, mapping *models.RenameMapping) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: create dir: %w", err)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	name := FileName(project)
	if err := store.Write(name, Render(project, mapping)); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	return filepath.Join(dir, name), nil
}
