package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/rex/lib/diag"
)

const version = "0.1.0"

var commands []*cli.Command

func newApp() *cli.App {
	return &cli.App{
		Name:                   "rex",
		Usage:                  "Translate Ruby-like scripts to R",
		Version:                version,
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Commands:               commands,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%s", err))
		os.Exit(1)
	}
}

// failure turns a translation error into an exit error. Lexical, syntax and
// semantic errors carry their own position and kind.
func failure(err error) error {
	var de *diag.Error
	if errors.As(err, &de) {
		return cli.Exit(color.RedString("%s", de), 1)
	}
	return cli.Exit(color.RedString("Error: %s", err), 1)
}
