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

	if cmd.Args().Len() != 1 {
		fmt.Fprintf(cmd.Root().Writer, "Usage: %s <ai.json path>\n", cmd.Name)
		fmt.Fprintf(cmd.Root().Writer, "Example: %s Patalar/Classes/Source/ai.json\n", cmd.Name)
		return fmt.Errorf("expected 1 argument, got %d: %w", cmd.Args().Len(), apperr.ErrUsage)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithOutput(cmd.Root().Writer),
		internal.WithLogOutput(cmd.Root().ErrWriter),
	}

	if err := internal.RunFix(ctx, cmd.Args().First(), opts...); err != nil {
		return fmt.Errorf("fix error: %w", err)
	}

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "fixjson",
		Usage:     "Rewrite image references in a character configuration file",
		ArgsUsage: "<ai.json path>",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (defaults are used when empty)",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
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
