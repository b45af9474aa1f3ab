package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/urfave/cli/v2"
	rexlex "github.com/vyPal/rex/lib/lexer"
	"github.com/vyPal/rex/lib/parser"
	"github.com/vyPal/rex/lib/translator"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "tokens",
		Usage:     "Print the tokens of a script",
		Category:  "inspect",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input-str",
				Aliases: []string{"s"},
				Usage:   "Lex a string instead of a file",
			},
		},
		Action: printTokens,
	}, &cli.Command{
		Name:      "ast",
		Usage:     "Print the syntax tree of a script",
		Category:  "inspect",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input-str",
				Aliases: []string{"s"},
				Usage:   "Parse a string instead of a file",
			},
			&cli.BoolFlag{
				Name:    "no-optimization",
				Aliases: []string{"n"},
				Usage:   "Print the tree before folding and pruning",
			},
		},
		Action: printAST,
	})
}

// source returns the script named by the first argument or given with
// --input-str, together with the name used in error positions.
func source(c *cli.Context) (string, string, error) {
	if c.IsSet("input-str") {
		return "<input>", c.String("input-str"), nil
	}
	path := c.Args().First()
	if path == "" {
		return "", "", errors.New("no input: pass a file or --input-str")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return path, string(data), nil
}

func printTokens(c *cli.Context) error {
	name, src, err := source(c)
	if err != nil {
		return failure(err)
	}

	lex, err := rexlex.Definition.Lex(name, strings.NewReader(src))
	if err != nil {
		return failure(err)
	}
	tokens, err := lexer.ConsumeAll(lex)
	for _, t := range tokens {
		fmt.Println(rexlex.Token{Symbol: rexlex.SymbolOf(t.Type), Value: t.Value, Pos: t.Pos})
	}
	if err != nil {
		return failure(err)
	}
	return nil
}

func printAST(c *cli.Context) error {
	name, src, err := source(c)
	if err != nil {
		return failure(err)
	}

	cfg := parser.DefaultConfig()
	cfg.Filename = name
	cfg.Optimize = !c.Bool("no-optimization")

	dump, err := translator.New(cfg).Dump(src)
	if err != nil {
		return failure(err)
	}
	fmt.Print(dump)
	return nil
}
