package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"github.com/vyPal/rex/lib/project"
	"github.com/vyPal/rex/util"
)

const helloWorld = `# Entry point of the project
name = "world"
puts("Hello, " + name)
`

func init() {
	commands = append(commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize a new rex project",
		Category:  "project",
		ArgsUsage: "[directory]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "The name of the project",
			},
			&cli.StringFlag{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "The version of the project",
			},
			&cli.StringFlag{
				Name:    "main",
				Aliases: []string{"m"},
				Usage:   "The main script of the project",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Use the default configuration without asking",
			},
		},
		Action: initProject,
	})
}

func initProject(c *cli.Context) error {
	rootDir := c.Args().First()
	if rootDir == "" {
		rootDir = "."
	}

	if _, err := os.Stat(rootDir); !os.IsNotExist(err) {
		files, err := os.ReadDir(rootDir)
		if err != nil {
			return err
		}
		if len(files) > 0 && !c.Bool("yes") {
			if !util.PromptYN("The directory is not empty, continue?", false) {
				return nil
			}
		}
	} else {
		if err := os.MkdirAll(rootDir, 0755); err != nil {
			return err
		}
		fmt.Println("Created directory:", rootDir)
	}

	conf := project.RexConf{}
	name := filepath.Base(rootDir)
	if abs, err := filepath.Abs(rootDir); err == nil {
		name = filepath.Base(abs)
	}
	conf.CreateDefault(name)
	conf.Rex = "^" + version

	if c.Bool("yes") || util.PromptYN("Use default configuration?", true) {
		if c.IsSet("name") {
			conf.Name = c.String("name")
		}
		if c.IsSet("version") {
			conf.Version = c.String("version")
		}
		if c.IsSet("main") {
			conf.Main = c.String("main")
		}
	} else {
		conf.Name = util.PromptString("Project name", flagOr(c, "name", conf.Name))
		conf.Description = util.PromptString("Project description", conf.Description)
		conf.Version = util.PromptString("Project version", flagOr(c, "version", conf.Version))
		conf.Main = util.PromptString("Main script", flagOr(c, "main", conf.Main))
		conf.Output = util.PromptString("Output script", conf.Output)
	}

	if err := conf.Validate(); err != nil {
		return failure(err)
	}

	script := conf.MainPath(rootDir)
	if _, err := os.Stat(script); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(script), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(script, []byte(helloWorld), 0644); err != nil {
			return err
		}
		fmt.Println("Created file:", script)
	}

	confPath := filepath.Join(rootDir, project.FileName)
	written, err := conf.Save(confPath, c.Bool("yes"))
	if err != nil {
		return err
	}
	if written {
		fmt.Println("Created file:", confPath)
	}
	return nil
}

func flagOr(c *cli.Context, name, def string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	return def
}
