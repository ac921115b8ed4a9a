package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/herbscope/internal"
	"github.com/starford/herbscope/internal/dataset"
	"github.com/starford/herbscope/internal/service"
	"github.com/starford/herbscope/internal/termview"
)

// withRuntime loads the config, opens the runtime and hands it to fn. Logs
// go to stderr so that stdout carries only the command output.
func withRuntime(fn func(ctx context.Context, cmd *cli.Command, rt *internal.Runtime) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := internal.NewLogger(os.Stderr, cfg.App.LogLevel)
		rt, err := internal.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer rt.Close()
		return fn(ctx, cmd, rt)
	}
}

var jsonFlag = &cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a styled view"}

func herbsCommand() *cli.Command {
	return &cli.Command{
		Name:  "herbs",
		Usage: "List herbs, most frequently prescribed first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Usage: "Category tag"},
			&cli.StringFlag{Name: "nature", Usage: "Nature tag"},
			&cli.StringFlag{Name: "meridian", Usage: "Meridian tag"},
			&cli.IntFlag{Name: "limit", Usage: "Maximum number of herbs (0 for all)"},
			jsonFlag,
		},
		Action: withRuntime(func(ctx context.Context, cmd *cli.Command, rt *internal.Runtime) error {
			herbs, total, err := rt.Service.ListHerbs(ctx, service.Filter{
				Category: cmd.String("category"),
				Nature:   cmd.String("nature"),
				Meridian: cmd.String("meridian"),
				Limit:    int(cmd.Int("limit")),
			})
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return printJSON(map[string]any{"herbs": herbs, "total": total})
			}
			return termview.New(os.Stdout).Herbs(herbs, total)
		}),
	}
}

func recommendCommand() *cli.Command {
	return &cli.Command{
		Name:      "recommend",
		Usage:     "Infer a formula from observed symptoms",
		ArgsUsage: "[symptom...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "symptom", Aliases: []string{"s"}, Usage: "Symptom tag or alias (repeatable)"},
			&cli.BoolFlag{Name: "list", Usage: "Print the symptom vocabulary and exit"},
			jsonFlag,
		},
		Action: withRuntime(func(ctx context.Context, cmd *cli.Command, rt *internal.Runtime) error {
			if cmd.Bool("list") {
				for _, t := range rt.Service.Symptoms() {
					fmt.Printf("%-30s %-10s %s\n", t.Tag, t.Alias, t.Label)
				}
				return nil
			}
			symptoms := append(cmd.StringSlice("symptom"), cmd.Args().Slice()...)
			res, err := rt.Service.Recommend(ctx, symptoms)
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return printJSON(res)
			}
			return termview.New(os.Stdout).Recommendation(res)
		}),
	}
}

func surfaceCommand() *cli.Command {
	return &cli.Command{
		Name:  "surface",
		Usage: "Compute the dose-response surface of two herbs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "a", Usage: "Herb on the X axis", Required: true},
			&cli.StringFlag{Name: "b", Usage: "Herb on the Y axis", Required: true},
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "additivity, synergy, antagonism or complex-peak", Value: "synergy"},
			&cli.IntFlag{Name: "samples", Usage: "Samples per axis (default from config)"},
			&cli.IntFlag{Name: "cells", Usage: "Maximum shade map cells per side", Value: 25},
			jsonFlag,
		},
		Action: withRuntime(func(ctx context.Context, cmd *cli.Command, rt *internal.Runtime) error {
			req := service.SurfaceRequest{HerbA: cmd.String("a"), HerbB: cmd.String("b"), Model: cmd.String("model")}
			if cmd.IsSet("samples") {
				n := int(cmd.Int("samples"))
				req.Samples = &n
			}
			s, err := rt.Service.Surface(ctx, req)
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return printJSON(s)
			}
			return termview.New(os.Stdout).Surface(s, int(cmd.Int("cells")))
		}),
	}
}

func graphCommand() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "Summarise the co-occurrence network",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "top", Usage: "Ranking size (default from config)"},
			jsonFlag,
		},
		Action: withRuntime(func(ctx context.Context, cmd *cli.Command, rt *internal.Runtime) error {
			sum := rt.Service.GraphSummary(ctx, int(cmd.Int("top")))
			if cmd.Bool("json") {
				return printJSON(sum)
			}
			return termview.New(os.Stdout).Graph(sum)
		}),
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Generate the analysis report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "markdown or json", Value: "markdown"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write to a file instead of stdout"},
		},
		Action: withRuntime(func(ctx context.Context, cmd *cli.Command, rt *internal.Runtime) error {
			rep, err := rt.Service.Report(ctx)
			if err != nil {
				return err
			}
			switch strings.ToLower(cmd.String("format")) {
			case "json":
				return printJSON(rep)
			case "markdown", "md":
			default:
				return fmt.Errorf("unknown report format %q", cmd.String("format"))
			}
			if out := cmd.String("out"); out != "" {
				return os.WriteFile(out, []byte(rep.Markdown()), 0o644)
			}
			_, err = fmt.Print(rep.Markdown())
			return err
		}),
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Validate a YAML or JSON dataset and store it in the SQLite catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "Dataset file", Required: true},
		},
		Action: withRuntime(func(ctx context.Context, cmd *cli.Command, rt *internal.Runtime) error {
			if rt.Catalog == nil {
				return fmt.Errorf("import needs sqlite.path in the config")
			}
			in := cmd.String("in")
			data, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read %s: %w", in, err)
			}
			info, err := rt.Service.Import(ctx, data, dataset.FormatFor(in), dataset.File{Path: in}.String())
			if err != nil {
				return err
			}
			return termview.New(os.Stdout).Info(info)
		}),
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the configured dataset to a YAML or JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (.yaml or .json)", Required: true},
		},
		Action: withRuntime(func(_ context.Context, cmd *cli.Command, rt *internal.Runtime) error {
			out := cmd.String("out")
			if err := dataset.WriteFile(out, rt.Service.Snapshot()); err != nil {
				return err
			}
			fmt.Printf("wrote %d herbs and %d relations to %s\n", rt.Service.Snapshot().Len(), len(rt.Service.Snapshot().Relations), out)
			return nil
		}),
	}
}
