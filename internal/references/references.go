// Package references rewrites asset names quoted in project source files.
package references

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/starford/assetkit/internal/apperr"
	"github.com/starford/assetkit/internal/models"
	"github.com/starford/assetkit/internal/pattern"
	"github.com/starford/assetkit/internal/storage"
)

// Options selects which files are scanned.
type Options struct {
	Extensions []string
	SkipDirs   []string
	Patterns   pattern.Set
}

// Failure is a source file that could not be read or written.
type Failure struct {
	Path string
	Err  error
}

// Result summarises a reference update.
type Result struct {
	Scanned      int
	Updated      []string
	Replacements int
	Failed       []Failure
}

// Updater rewrites references under a project root.
type Updater struct {
	store    storage.Provider
	exts     []string
	skipDirs []string
	patterns pattern.Set
	logger   *slog.Logger
}

// NewUpdater creates an Updater over the project root behind store.
func NewUpdater(store storage.Provider, opts Options, logger *slog.Logger) *Updater {
	u := &Updater{
		store:    store,
		exts:     opts.Extensions,
		skipDirs: opts.SkipDirs,
		patterns: opts.Patterns,
		logger:   logger,
	}
	if len(u.exts) == 0 {
		u.exts = []string{".m", ".swift"}
	}
	if u.skipDirs == nil {
		u.skipDirs = []string{"Pods"}
	}
	if len(u.patterns) == 0 {
		u.patterns = pattern.MustCompile(pattern.DefaultTemplates)
	}
	if u.logger == nil {
		u.logger = slog.Default()
	}
	return u
}

// Rewrite applies every mapping pair with every pattern to content and
// returns the new content with the number of replacements.
func (u *Updater) Rewrite(content string, mapping *models.RenameMapping) (string, int) {
	total := 0
	mapping.Each(func(oldBase, newBase string) {
		var n int
		content, n = u.patterns.Replace(content, oldBase, newBase)
		total += n
	})
	return content, total
}

// Update scans the project for source files and rewrites the ones that
// mention an old asset name. A file that cannot be read or written is
// reported and skipped.
func (u *Updater) Update(ctx context.Context, mapping *models.RenameMapping, w io.Writer) (*Result, error) {
	fmt.Fprintf(w, "\nUpdating image references in source files...\n")

	files, err := u.store.Files("", u.exts, u.skipDirs)
	if err != nil {
		return nil, fmt.Errorf("references: scan %s: %w", u.store.Root(), err)
	}

	res := &Result{Scanned: len(files)}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n, err := u.updateFile(rel, mapping)
		if err != nil {
			fmt.Fprintf(w, "  ✗ Update failed %s: %v\n", rel, err)
			u.logger.Warn("references: update failed",
				slog.String("path", rel),
				slog.String("error", err.Error()))
			res.Failed = append(res.Failed, Failure{Path: rel, Err: err})
			continue
		}
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "  ✓ Updated: %s\n", rel)
		u.logger.Debug("references: updated", slog.String("path", rel), slog.Int("replacements", n))
		res.Updated = append(res.Updated, rel)
		res.Replacements += n
	}

	fmt.Fprintf(w, "\nUpdated %d source files in total\n", len(res.Updated))
	return res, nil
}

func (u *Updater) updateFile(rel string, mapping *models.RenameMapping) (int, error) {
	data, err := u.store.Read(rel)
	if err != nil {
		return 0, err
	}
	if !utf8.Valid(data) {
		return 0, apperr.ErrNotUTF8
	}
	updated, n := u.Rewrite(string(data), mapping)
	if n == 0 {
		return 0, nil
	}
	if err := u.store.Write(rel, []byte(updated)); err != nil {
		return 0, err
	}
	return n, nil
}
