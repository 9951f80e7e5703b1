package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/hoken/internal"
	pkgconfig "github.com/starford/hoken/pkg/config"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return []internal.Option{internal.WithConfig(cfg)}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, opts...); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

func seed(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Seed(ctx, opts...); err != nil {
		return fmt.Errorf("seed error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "hoken",
		Usage:  "Catalog for sharing health education materials between teachers",
		Action: serve,
		Flags:  []cli.Flag{configFlag()},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve the catalog as MCP tools over stdio",
				Action: serveMCP,
				Flags:  []cli.Flag{configFlag()},
			},
			{
				Name:   "seed",
				Usage:  "Apply the categories file to the database and exit",
				Action: seed,
				Flags:  []cli.Flag{configFlag()},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
