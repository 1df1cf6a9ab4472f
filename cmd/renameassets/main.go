package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/assetkit/internal"
	"github.com/starford/assetkit/internal/apperr"
	pkgconfig "github.com/starford/assetkit/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	internal.NewLogger(cfg.App, cmd.Root().ErrWriter)

	if cmd.Args().Len() != 2 {
		fmt.Fprintf(cmd.Root().Writer, "Usage: %s [--project-root PATH] [--dry-run] <project_name> <assets_path>\n", cmd.Name)
		fmt.Fprintf(cmd.Root().Writer, "Example: %s novi ./Novi/Classes/ClearSource/Assets.xcassets --project-root ./Novi\n", cmd.Name)
		return fmt.Errorf("expected 2 arguments, got %d: %w", cmd.Args().Len(), apperr.ErrUsage)
	}

	params := internal.RenameParams{
		Project:     cmd.Args().Get(0),
		AssetsPath:  cmd.Args().Get(1),
		ProjectRoot: cmd.String("project-root"),
		DryRun:      cmd.Bool("dry-run"),
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithOutput(cmd.Root().Writer),
		internal.WithLogOutput(cmd.Root().ErrWriter),
	}

	if err := internal.RunRename(ctx, params, opts...); err != nil {
		return fmt.Errorf("rename error: %w", err)
	}

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "renameassets",
		Usage:     "Prefix asset catalog image sets with a project name and update source references",
		ArgsUsage: "<project_name> <assets_path>",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (defaults are used when empty)",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "project-root",
				Usage: "Project root whose source files get their image references updated",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Only print the renames that would be performed",
			},
		},
	}
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	cmd := newCommand()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.Run(ctx, os.Args)
	stop()
	if err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
