package main

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

//go:embed autocomplete/bash_autocomplete
var bashAutocomplete string

//go:embed autocomplete/zsh_autocomplete
var zshAutocomplete string

func init() {
	commands = append(commands, &cli.Command{
		Name:     "version",
		Usage:    "Show the rex version and the R interpreter it runs scripts with",
		Category: "version",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rscript",
				Usage:   "The R interpreter to query",
				Value:   "Rscript",
				EnvVars: []string{"REX_RSCRIPT"},
			},
		},
		Action: showVersion,
	})
	commands = append(commands, &cli.Command{
		Name:     "autocomplete",
		Usage:    "Install autocomplete for rex",
		Category: "version",
		Action:   autocomplete,
	})
}

func showVersion(c *cli.Context) error {
	fmt.Println("rex", c.App.Version)

	out, err := exec.Command(c.String("rscript"), "--version").CombinedOutput()
	if err != nil {
		color.Yellow("%s not found, 'rex run' will not work", c.String("rscript"))
		return nil
	}
	fmt.Println(strings.TrimSpace(string(out)))
	return nil
}

func autocomplete(c *cli.Context) error {
	shell := filepath.Base(os.Getenv("SHELL"))
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	var script, shellConfigFile string
	switch shell {
	case "bash":
		script = bashAutocomplete
		shellConfigFile = filepath.Join(homeDir, ".bashrc")
	case "zsh":
		script = zshAutocomplete
		shellConfigFile = filepath.Join(homeDir, ".zshrc")
	default:
		fmt.Println("Unsupported shell for autocomplete. Skipping...")
		return nil
	}

	installDir := filepath.Join(homeDir, ".local", "share", "rex")
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return err
	}
	scriptPath := filepath.Join(installDir, "rex_autocomplete")
	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		return err
	}

	file, err := os.OpenFile(shellConfigFile, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	sourceLine := "source " + scriptPath
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), sourceLine) {
			fmt.Println("Autocomplete script already installed.")
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if _, err := file.WriteString("\n" + sourceLine + "\n"); err != nil {
		return err
	}

	fmt.Println("Autocomplete script installed. It will be sourced automatically in new shell sessions.")
	fmt.Println("To source it in the current session, run:")
	fmt.Printf("\tsource %s\n", strings.Replace(scriptPath, homeDir, "~", 1))
	return nil
}
