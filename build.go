package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/rex/lib/ast"
	"github.com/vyPal/rex/lib/cache"
	"github.com/vyPal/rex/lib/parser"
	"github.com/vyPal/rex/lib/project"
	"github.com/vyPal/rex/lib/translator"
)

func translateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "The path to the project config file. ",
			Aliases: []string{"c"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "The path of the generated R script",
		},
		&cli.StringFlag{
			Name:    "input-str",
			Aliases: []string{"s"},
			Usage:   "Translate a string instead of a file",
		},
		&cli.BoolFlag{
			Name:    "dump-ast",
			Aliases: []string{"d"},
			Usage:   "Write the syntax tree next to the output",
		},
		&cli.BoolFlag{
			Name:    "no-optimization",
			Aliases: []string{"n"},
			Usage:   "Disable constant folding and unused binding removal",
		},
	}
}

func init() {
	commands = append(commands, &cli.Command{
		Name:      "build",
		Usage:     "Translate scripts to R",
		Category:  "translate",
		ArgsUsage: "[file...]",
		Description: "Translates each file to an R script with the same name and an .R extension." +
			"\nWithout arguments the main script of the project in the current directory is built.",
		Flags: append(translateFlags(),
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Translate every file even when it has not changed",
			},
			&cli.StringFlag{
				Name:    "cache-dir",
				Usage:   "The directory of the build cache",
				EnvVars: []string{"REX_CACHE_DIR"},
			},
		),
		Action: build,
	}, &cli.Command{
		Name:      "run",
		Usage:     "Translate a script and run it with Rscript",
		Category:  "translate",
		ArgsUsage: "[file] [args...]",
		Flags: append(translateFlags(), &cli.StringFlag{
			Name:    "rscript",
			Usage:   "The R interpreter to run the script with",
			Value:   "Rscript",
			EnvVars: []string{"REX_RSCRIPT"},
		}),
		Action: run,
	})
}

// job is one translation: a script read from path, or src when path is
// empty, written to out, or to stdout when out is empty.
type job struct {
	path string
	src  string
	out  string
	cfg  parser.Config
}

func (j job) name() string {
	if j.path == "" {
		return "<input>"
	}
	return j.path
}

// projectJob builds the main script of the project whose config lives at
// confPath, or in the current directory when confPath is empty.
func projectJob(confPath string) (job, error) {
	dir := strings.TrimSuffix(confPath, project.FileName)
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return job{}, fmt.Errorf("error getting current working directory: %w", err)
		}
		dir = cwd
	}

	conf, err := project.Load(dir)
	if err != nil {
		return job{}, err
	}
	if err := conf.CheckTranslator(version); err != nil {
		return job{}, err
	}
	script := conf.MainPath(dir)
	return job{path: script, out: conf.OutputPath(dir), cfg: conf.ParserConfig(script)}, nil
}

func collectJobs(c *cli.Context, files []string) ([]job, error) {
	output := c.String("output")

	var jobs []job
	switch {
	case c.IsSet("input-str"):
		cfg := parser.DefaultConfig()
		cfg.Filename = "<input>"
		jobs = []job{{src: c.String("input-str"), out: output, cfg: cfg}}
	case len(files) == 0:
		j, err := projectJob(c.String("config"))
		if err != nil {
			return nil, err
		}
		if output != "" {
			j.out = output
		}
		jobs = []job{j}
	default:
		if output != "" && len(files) > 1 {
			return nil, errors.New("--output can only be used with a single file")
		}
		for _, f := range files {
			cfg := parser.DefaultConfig()
			cfg.Filename = f
			out := output
			if out == "" {
				out = strings.TrimSuffix(f, filepath.Ext(f)) + ".R"
			}
			jobs = append(jobs, job{path: f, out: out, cfg: cfg})
		}
	}

	if c.Bool("no-optimization") {
		for i := range jobs {
			jobs[i].cfg.Optimize = false
		}
	}
	return jobs, nil
}

// fingerprint covers everything besides the source that shapes the output.
func fingerprint(j job) []string {
	return []string{version, fmt.Sprint(j.cfg.Optimize), fmt.Sprint(j.cfg.Builtins)}
}

// translateJob translates j unless bc knows its output is up to date, which
// is reported by the first result.
func translateJob(j job, dumpAST bool, bc *cache.BuildCache) (bool, error) {
	src := j.src
	if j.path != "" {
		data, err := os.ReadFile(j.path)
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", j.path, err)
		}
		src = string(data)
	}

	cached := bc != nil && j.path != "" && j.out != "" && !dumpAST
	var sum string
	if cached {
		sum = cache.Sum(src, fingerprint(j)...)
		if bc.Fresh(j.path, sum, j.out) {
			return true, nil
		}
		bc.Forget(j.path)
	}

	prog, err := translator.New(j.cfg).Parse(src)
	if err != nil {
		return false, err
	}
	code := prog.Generate(0)

	if j.out == "" {
		if dumpAST {
			fmt.Fprint(os.Stderr, ast.Dump(prog))
		}
		fmt.Print(code)
		return false, nil
	}

	if dir := filepath.Dir(j.out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, err
		}
	}
	if dumpAST {
		if err := os.WriteFile(j.out+".ast", []byte(ast.Dump(prog)), 0644); err != nil {
			return false, err
		}
	}
	if err := os.WriteFile(j.out, []byte(code), 0644); err != nil {
		return false, err
	}
	if cached {
		bc.Record(j.path, sum)
	}
	return false, nil
}

func openCache(c *cli.Context) (*cache.BuildCache, error) {
	if c.Bool("no-cache") {
		return nil, nil
	}
	dir := c.String("cache-dir")
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return cache.Open(dir)
}

func reportBuilt(j job, upToDate bool) {
	switch {
	case j.out == "":
	case upToDate:
		color.Yellow("%s is up to date", j.out)
	default:
		color.Green("Built %s", j.out)
	}
}

func build(c *cli.Context) error {
	jobs, err := collectJobs(c, c.Args().Slice())
	if err != nil {
		return failure(err)
	}
	bc, err := openCache(c)
	if err != nil {
		return failure(err)
	}
	if bc != nil {
		defer func() {
			if err := bc.Save(); err != nil {
				fmt.Fprintln(os.Stderr, color.YellowString("Failed to save the build cache: %s", err))
			}
		}()
	}

	if len(jobs) == 1 {
		upToDate, err := translateJob(jobs[0], c.Bool("dump-ast"), bc)
		if err != nil {
			return failure(err)
		}
		reportBuilt(jobs[0], upToDate)
		return nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(jobs))
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			upToDate, err := translateJob(j, c.Bool("dump-ast"), bc)
			if err != nil {
				errs <- err
				return
			}
			reportBuilt(j, upToDate)
		}(j)
	}
	wg.Wait()
	close(errs)

	failed := 0
	for err := range errs {
		failed++
		fmt.Fprintln(os.Stderr, color.RedString("%s", err))
	}
	if failed > 0 {
		return cli.Exit(color.RedString("%d of %d files failed to translate", failed, len(jobs)), 1)
	}
	return nil
}

func run(c *cli.Context) error {
	var files, args []string
	if c.Args().Present() && !c.IsSet("input-str") {
		files, args = c.Args().Slice()[:1], c.Args().Tail()
	} else {
		args = c.Args().Slice()
	}

	jobs, err := collectJobs(c, files)
	if err != nil {
		return failure(err)
	}
	j := jobs[0]

	if j.out == "" {
		tmp, err := os.CreateTemp("", "rex-*.R")
		if err != nil {
			return err
		}
		tmp.Close()
		defer os.Remove(tmp.Name())
		j.out = tmp.Name()
	}

	if _, err := translateJob(j, c.Bool("dump-ast"), nil); err != nil {
		return failure(err)
	}

	cmd := exec.Command(c.String("rscript"), append([]string{j.out}, args...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		return cli.Exit(color.RedString("Error running %s: %s", j.name(), err), 1)
	}
	return nil
}
