// Package internal provides the application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/assetkit/internal/apperr"
	"github.com/starford/assetkit/internal/fixer"
	"github.com/starford/assetkit/internal/pattern"
	"github.com/starford/assetkit/internal/references"
	"github.com/starford/assetkit/internal/renamer"
	"github.com/starford/assetkit/internal/report"
	"github.com/starford/assetkit/internal/storage"
)

// RenameParams are the command-line inputs of the asset renamer.
type RenameParams struct {
	Project     string
	AssetsPath  string
	ProjectRoot string
	DryRun      bool
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.out == nil {
		app.out = os.Stdout
	}
	if app.logOut == nil {
		app.logOut = os.Stderr
	}
	return app, nil
}

// NewLogger builds the structured logger described by cfg, writing to w,
// and installs it as the default.
func NewLogger(cfg ApplicationConfig, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == LogFormatText {
		handler = slog.NewTextHandler(w, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func (a *application) newLogger() *slog.Logger {
	return NewLogger(a.config.App, a.logOut)
}

// RunFix rewrites the image references of the character file at path.
func RunFix(ctx context.Context, path string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.newLogger()

	logger.Debug("Configuration loaded",
		slog.String("path", path),
		slog.String("list_field", cfg.Fixer.ListField),
		slog.Any("fields", cfg.Fixer.Fields))

	if err := requireExists(app.out, "file", path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	store, err := storage.NewFS(filepath.Dir(path), storage.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(app.out, "❌ Fix failed: %v\n", err)
		return err
	}

	f := fixer.New(fixer.Options{
		ListField: cfg.Fixer.ListField,
		NameField: cfg.Fixer.NameField,
		Fields:    cfg.Fixer.Fields,
		Mapping:   cfg.Fixer.Mapping,
	}, logger)

	if _, err := f.FixFile(store, filepath.Base(path), path, app.out); err != nil {
		fmt.Fprintf(app.out, "❌ Fix failed: %v\n", err)
		return fmt.Errorf("fix %s: %w", path, err)
	}

	fmt.Fprintln(app.out, "✅ Fix complete!")
	return nil
}

// RunRename prefixes the asset bundles under p.AssetsPath, updates source
// references under p.ProjectRoot when it exists and writes the report.
// With p.DryRun it only prints the planned renames.
func RunRename(ctx context.Context, p RenameParams, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.newLogger()

	logger.Debug("Configuration loaded",
		slog.String("project", p.Project),
		slog.String("assets_path", p.AssetsPath),
		slog.String("project_root", p.ProjectRoot),
		slog.Bool("dry_run", p.DryRun),
		slog.String("report_dir", cfg.Renamer.ReportDir))

	if err := requireExists(app.out, "assets path", p.AssetsPath); err != nil {
		return err
	}

	if err := runRename(ctx, app, logger, p); err != nil {
		fmt.Fprintf(app.out, "❌ Run failed: %v\n", err)
		logger.Error("rename failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func runRename(ctx context.Context, app *application, logger *slog.Logger, p RenameParams) error {
	cfg := app.config
	out := app.out

	assets, err := storage.NewFS(p.AssetsPath, storage.WithLogger(logger))
	if err != nil {
		return err
	}
	r, err := renamer.New(p.Project, assets, renamer.Options{
		BundleSuffix:    cfg.Renamer.BundleSuffix,
		ExcludeSuffixes: cfg.Renamer.ExcludeSuffixes,
	}, logger)
	if err != nil {
		return err
	}

	if p.DryRun {
		return preview(ctx, out, r, p)
	}

	res, err := r.Rename(ctx, out)
	if err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	if p.ProjectRoot != "" {
		if _, statErr := os.Stat(p.ProjectRoot); statErr != nil {
			logger.Warn("project root not found, skipping reference update",
				slog.String("project_root", p.ProjectRoot),
				slog.String("error", statErr.Error()))
		} else if err := updateReferences(ctx, app, logger, p.ProjectRoot, res); err != nil {
			return err
		}
	}

	reportPath, err := report.Write(cfg.Renamer.ReportDir, r.Project(), res.Mapping)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nReport saved to: %s\n", reportPath)

	fmt.Fprintf(out, "\n✅ Image rename complete!\n")
	fmt.Fprintf(out, "Project prefix: %s\n", p.Project)
	fmt.Fprintf(out, "Renamed %d images\n", res.Mapping.Len())

	logger.Info("rename finished",
		slog.Int("renamed", res.Renamed),
		slog.Int("unchanged", res.Unchanged),
		slog.Int("failed", len(res.Failed)))
	return nil
}

func updateReferences(ctx context.Context, app *application, logger *slog.Logger, root string, res *renamer.Result) error {
	cfg := app.config
	patterns, err := pattern.Compile(cfg.Renamer.Patterns)
	if err != nil {
		return err
	}
	src, err := storage.NewFS(root, storage.WithLogger(logger))
	if err != nil {
		return err
	}
	u := references.NewUpdater(src, references.Options{
		Extensions: cfg.Renamer.SourceExtensions,
		SkipDirs:   cfg.Renamer.SkipDirs,
		Patterns:   patterns,
	}, logger)
	ures, err := u.Update(ctx, res.Mapping, app.out)
	if err != nil {
		return fmt.Errorf("update references: %w", err)
	}
	logger.Info("references updated",
		slog.Int("scanned", ures.Scanned),
		slog.Int("updated", len(ures.Updated)),
		slog.Int("failed", len(ures.Failed)))
	return nil
}

func preview(ctx context.Context, out io.Writer, r *renamer.Renamer, p RenameParams) error {
	fmt.Fprintln(out, "=== Preview mode ===")
	fmt.Fprintf(out, "Project name: %s\n", p.Project)
	fmt.Fprintf(out, "Assets path: %s\n", p.AssetsPath)
	if p.ProjectRoot != "" {
		fmt.Fprintf(out, "Project root: %s\n", p.ProjectRoot)
	}
	fmt.Fprintln(out, "\nPlanned operations:")

	res, err := r.Preview(ctx, out)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	fmt.Fprintf(out, "\nPreview complete: %d images would be renamed, nothing was changed\n", res.Renamed)
	return nil
}

// requireExists prints a not-found error for a missing input path.
func requireExists(out io.Writer, what, path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "Error: %s does not exist: %s\n", what, path)
		return fmt.Errorf("%s %s: %w", what, path, apperr.ErrNotFound)
	}
	fmt.Fprintf(out, "Error: cannot access %s %s: %v\n", what, path, err)
	return fmt.Errorf("stat %s: %w", path, err)
}
