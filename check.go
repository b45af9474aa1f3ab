package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/rex/lib/casebook"
	"github.com/vyPal/rex/lib/parser"
	"github.com/vyPal/rex/lib/translator"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "check",
		Usage:     "Run the translation cases of Markdown casebooks",
		Category:  "inspect",
		ArgsUsage: "<casebook.md...>",
		Description: "Each case is a \"Test: <name>\" heading followed by a ruby fence and" +
			"\nexpectation fences (r, ast, tokens or error).",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "Only run cases whose name contains this text",
			},
			&cli.BoolFlag{
				Name:    "no-optimization",
				Aliases: []string{"n"},
				Usage:   "Translate without folding and pruning",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Also list the passing cases",
			},
		},
		Action: check,
	})
}

func check(c *cli.Context) error {
	if !c.Args().Present() {
		return cli.Exit(color.RedString("Error: no casebook given"), 1)
	}

	cfg := parser.DefaultConfig()
	cfg.Optimize = !c.Bool("no-optimization")
	tr := translator.New(cfg)

	total, failed := 0, 0
	for _, path := range c.Args().Slice() {
		cases, err := casebook.Load(path)
		if err != nil {
			return failure(err)
		}

		var selected []casebook.Case
		for _, cs := range cases {
			if strings.Contains(cs.Name, c.String("run")) {
				selected = append(selected, cs)
			}
		}

		for _, res := range casebook.RunAll(tr, selected) {
			total++
			if res.Passed() {
				if c.Bool("verbose") {
					fmt.Printf("%s %s:%d: %s\n", color.GreenString("PASS"), path, res.Case.Line, res.Case.Name)
				}
				continue
			}
			failed++
			fmt.Printf("%s %s:%d: %s\n", color.RedString("FAIL"), path, res.Case.Line, res.Case.Name)
			for _, f := range res.Failures {
				fmt.Println(f)
			}
		}
	}

	if failed > 0 {
		return cli.Exit(color.RedString("%d of %d cases failed", failed, total), 1)
	}
	color.Green("%d cases passed", total)
	return nil
}
