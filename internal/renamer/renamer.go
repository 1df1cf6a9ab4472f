// Package renamer prefixes asset bundle directories with a project name.
package renamer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/assetkit/internal/models"
	"github.com/starford/assetkit/internal/storage"
)

// Options configures bundle discovery. Zero values fall back to the defaults.
type Options struct {
	BundleSuffix    string
	ExcludeSuffixes []string
}

// Failure is a bundle that could not be moved.
type Failure struct {
	Bundle models.AssetBundle
	Err    error
}

// FolderPlan lists the computed renames for one category.
type FolderPlan struct {
	Category models.Category
	Renames  []models.PlannedRename
}

// Result summarises a rename pass.
type Result struct {
	Mapping   *models.RenameMapping
	Renamed   int
	Unchanged int
	Failed    []Failure
}

// Renamer computes and applies prefixed bundle names under an assets root.
type Renamer struct {
	project string
	store   storage.Provider
	suffix  string
	exclude []string
	mapping *models.RenameMapping
	logger  *slog.Logger
}

// NormalizeProject lower-cases a project name.
func NormalizeProject(name string) string {
	return cases.Lower(language.Und).String(name)
}

// New creates a Renamer for project over the assets root behind store.
func New(project string, store storage.Provider, opts Options, logger *slog.Logger) (*Renamer, error) {
	project = NormalizeProject(project)
	if err := validation.Validate(project,
		validation.Required,
		validation.By(noPathSeparator),
	); err != nil {
		return nil, fmt.Errorf("renamer: project name: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renamer{
		project: project,
		store:   store,
		suffix:  opts.BundleSuffix,
		exclude: opts.ExcludeSuffixes,
		mapping: models.NewRenameMapping(),
		logger:  logger,
	}
	if r.suffix == "" {
		r.suffix = ".imageset"
	}
	if r.exclude == nil {
		r.exclude = []string{".colorset"}
	}
	return r, nil
}

func noPathSeparator(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) {
		return errors.New("must not contain path separators")
	}
	return nil
}

// Project returns the normalized project name.
func (r *Renamer) Project() string {
	return r.project
}

// Mapping returns the renames recorded so far.
func (r *Renamer) Mapping() *models.RenameMapping {
	return r.mapping
}

// Categories lists the category folders under the assets root, skipping
// hidden entries and excluded bundle kinds such as color sets.
func (r *Renamer) Categories() ([]models.Category, error) {
	names, err := r.store.Dirs("")
	if err != nil {
		return nil, fmt.Errorf("renamer: list categories: %w", err)
	}
	var out []models.Category
	for _, name := range names {
		if strings.HasPrefix(name, ".") || r.excluded(name) {
			continue
		}
		out = append(out, models.Category{Name: name, Path: name})
	}
	return out, nil
}

func (r *Renamer) excluded(name string) bool {
	return slices.ContainsFunc(r.exclude, func(s string) bool {
		return strings.HasSuffix(name, s)
	})
}

// Bundles lists the asset bundles directly inside category.
func (r *Renamer) Bundles(category models.Category) ([]models.AssetBundle, error) {
	names, err := r.store.Dirs(category.Path)
	if err != nil {
		return nil, fmt.Errorf("renamer: list bundles in %s: %w", category.Name, err)
	}
	var out []models.AssetBundle
	for _, name := range names {
		if !strings.HasSuffix(name, r.suffix) {
			continue
		}
		out = append(out, models.AssetBundle{
			Category: category.Path,
			Name:     name,
			BaseName: strings.TrimSuffix(name, r.suffix),
		})
	}
	return out, nil
}

// Plan computes the target name for bundle. Bundles whose base name already
// carries the project prefix keep their name.
func (r *Renamer) Plan(bundle models.AssetBundle) models.PlannedRename {
	prefix := r.project + "_"
	if strings.HasPrefix(bundle.BaseName, prefix) {
		return models.PlannedRename{
			Bundle:      bundle,
			NewName:     bundle.Name,
			NewBaseName: bundle.BaseName,
		}
	}
	newBase := prefix + bundle.BaseName
	return models.PlannedRename{
		Bundle:      bundle,
		NewName:     newBase + r.suffix,
		NewBaseName: newBase,
	}
}

// PlanAll enumerates every category and bundle and computes their targets
// without touching the file system.
func (r *Renamer) PlanAll() ([]FolderPlan, error) {
	categories, err := r.Categories()
	if err != nil {
		return nil, err
	}
	plans := make([]FolderPlan, 0, len(categories))
	for _, c := range categories {
		bundles, err := r.Bundles(c)
		if err != nil {
			return nil, err
		}
		fp := FolderPlan{Category: c}
		for _, b := range bundles {
			fp.Renames = append(fp.Renames, r.Plan(b))
		}
		plans = append(plans, fp)
	}
	return plans, nil
}

// Rename moves every bundle that needs the project prefix and records the
// rename. A failed move is reported and the pass continues.
func (r *Renamer) Rename(ctx context.Context, w io.Writer) (*Result, error) {
	fmt.Fprintf(w, "Renaming images with project prefix: %s\n", r.project)
	res, err := r.apply(ctx, w, true)
	if res != nil {
		fmt.Fprintf(w, "\nRenamed %d images in total\n", res.Renamed)
	}
	return res, err
}

// Preview prints the renames Rename would perform, line for line, without
// moving anything. The would-be pairs go to a fresh mapping in the result.
func (r *Renamer) Preview(ctx context.Context, w io.Writer) (*Result, error) {
	return r.apply(ctx, w, false)
}

func (r *Renamer) apply(ctx context.Context, w io.Writer, move bool) (*Result, error) {
	plans, err := r.PlanAll()
	if err != nil {
		return nil, err
	}
	res := &Result{Mapping: r.mapping}
	if !move {
		res.Mapping = models.NewRenameMapping()
	}

	for _, fp := range plans {
		fmt.Fprintf(w, "\nProcessing folder: %s\n", fp.Category.Name)
		for _, p := range fp.Renames {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if !p.Changed() {
				fmt.Fprintf(w, "  - %s (no rename needed)\n", p.Bundle.Name)
				res.Unchanged++
				continue
			}
			if move {
				target := path.Join(p.Bundle.Category, p.NewName)
				if err := r.store.Move(p.Bundle.Path(), target); err != nil {
					fmt.Fprintf(w, "  ✗ Rename failed %s: %v\n", p.Bundle.Name, err)
					r.logger.Warn("renamer: move failed",
						slog.String("bundle", p.Bundle.Path()),
						slog.String("error", err.Error()))
					res.Failed = append(res.Failed, Failure{Bundle: p.Bundle, Err: err})
					continue
				}
				r.logger.Debug("renamer: moved",
					slog.String("from", p.Bundle.Path()),
					slog.String("to", target))
			}
			res.Mapping.Record(p.Bundle.BaseName, p.NewBaseName)
			fmt.Fprintf(w, "  ✓ %s → %s\n", p.Bundle.Name, p.NewName)
			res.Renamed++
		}
	}
	return res, nil
}
