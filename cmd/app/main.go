package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/marlowe/fabula/internal"
	pkgconfig "github.com/marlowe/fabula/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	err := pkgconfig.Load(configPath, cfg)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !cmd.IsSet("config"):
		// Defaults are enough for local use when no config file exists.
	default:
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func export(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path := cmd.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return internal.RunExport(cfg, out)
}

func importBackup(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	in := os.Stdin
	if path := cmd.String("input"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open backup file: %w", err)
		}
		defer f.Close()
		in = f
	}
	return internal.RunImport(cfg, in)
}

func mcp(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(cfg)
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "fabula",
		Usage:  "Local-first story planning service with timeline cards, groups, and filtering",
		Action: serve,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "export",
				Usage:  "Write a full backup document to stdout or a file",
				Action: export,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (default stdout)",
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Validate a backup document and replace the stored state",
				Action: importBackup,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Backup file (default stdin)",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the planner tools over MCP stdio",
				Action: mcp,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
