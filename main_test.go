package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/rex/lib/casebook"
	"github.com/vyPal/rex/lib/parser"
	"github.com/vyPal/rex/lib/project"
	"github.com/vyPal/rex/lib/translator"
)

func TestCasebooks(t *testing.T) {
	files, err := filepath.Glob("testdata/*.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	tr := translator.New(parser.DefaultConfig())
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			cases, err := casebook.Load(file)
			be.Err(t, err, nil)

			for _, res := range casebook.RunAll(tr, cases) {
				t.Run(res.Case.Name, func(t *testing.T) {
					for _, f := range res.Failures {
						t.Errorf("%s:%s", file, f)
					}
				})
			}
		})
	}
}

// runApp runs the command line without exiting the test binary on errors.
// The build cache lives in a temporary directory.
func runApp(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("REX_CACHE_DIR", t.TempDir())
	app := newApp()
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app.Run(append([]string{"rex"}, args...))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	be.Err(t, err, nil)
	return string(data)
}

func TestBuildInputString(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "main.R")
	err := runApp(t, "build", "-s", "x = 2 * 3\nputs(x)", "-o", out)
	be.Err(t, err, nil)
	be.Equal(t, readFile(t, out), "x <- 6\nprint(x)\n")
}

func TestBuildWithoutOptimization(t *testing.T) {
	out := filepath.Join(t.TempDir(), "main.R")
	err := runApp(t, "build", "-n", "-s", "x = 2 * 3\nputs(x)", "-o", out)
	be.Err(t, err, nil)
	be.Equal(t, readFile(t, out), "x <- 2 * 3\nprint(x)\n")
}

func TestBuildFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.rb")
	b := filepath.Join(dir, "b.rb")
	be.Err(t, os.WriteFile(a, []byte("puts(1 + 1)\n"), 0644), nil)
	be.Err(t, os.WriteFile(b, []byte("puts(\"b\")\n"), 0644), nil)

	be.Err(t, runApp(t, "build", "-d", a, b), nil)
	be.Equal(t, readFile(t, filepath.Join(dir, "a.R")), "print(2)\n")
	be.Equal(t, readFile(t, filepath.Join(dir, "b.R")), "print(\"b\")\n")

	_, err := os.Stat(filepath.Join(dir, "a.R.ast"))
	be.Err(t, err, nil)

	err = runApp(t, "build", "-o", filepath.Join(dir, "x.R"), a, b)
	be.Err(t, err, "single file")
}

func TestBuildCache(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	src := filepath.Join(dir, "main.rb")
	out := filepath.Join(dir, "main.R")
	rebuild := func() {
		t.Helper()
		app := newApp()
		app.ExitErrHandler = func(*cli.Context, error) {}
		be.Err(t, app.Run([]string{"rex", "build", "--cache-dir", cacheDir, src}), nil)
	}

	be.Err(t, os.WriteFile(src, []byte("puts(1)\n"), 0644), nil)
	rebuild()
	be.Equal(t, readFile(t, out), "print(1)\n")

	// An unchanged source leaves the output alone.
	be.Err(t, os.WriteFile(out, []byte("edited\n"), 0644), nil)
	rebuild()
	be.Equal(t, readFile(t, out), "edited\n")

	be.Err(t, os.WriteFile(src, []byte("puts(2)\n"), 0644), nil)
	rebuild()
	be.Equal(t, readFile(t, out), "print(2)\n")

	be.Err(t, os.Remove(out), nil)
	rebuild()
	be.Equal(t, readFile(t, out), "print(2)\n")
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.rb")
	be.Err(t, os.WriteFile(bad, []byte("puts(y)\n"), 0644), nil)

	err := runApp(t, "build", bad)
	be.Err(t, err, "bad.rb:1:6: semantic error: variable y is not declared")

	good := filepath.Join(dir, "good.rb")
	be.Err(t, os.WriteFile(good, []byte("puts(1)\n"), 0644), nil)
	err = runApp(t, "build", good, bad)
	be.Err(t, err, "1 of 2 files failed")

	err = runApp(t, "build", filepath.Join(dir, "missing.rb"))
	be.Err(t, err, "failed to read")
}

func TestBuildProject(t *testing.T) {
	dir := t.TempDir()
	var conf project.RexConf
	conf.CreateDefault("demo")
	conf.Rex = "^" + version
	_, err := conf.Save(filepath.Join(dir, project.FileName), true)
	be.Err(t, err, nil)

	script := conf.MainPath(dir)
	be.Err(t, os.MkdirAll(filepath.Dir(script), 0755), nil)
	be.Err(t, os.WriteFile(script, []byte(helloWorld), 0644), nil)

	be.Err(t, runApp(t, "build", "-c", filepath.Join(dir, project.FileName)), nil)
	got := readFile(t, conf.OutputPath(dir))
	be.Equal(t, got, "# Entry point of the project\nname <- \"world\"\nprint(\"Hello, \" + name)\n")

	conf.Rex = "^9.0.0"
	_, err = conf.Save(filepath.Join(dir, project.FileName), true)
	be.Err(t, err, nil)
	err = runApp(t, "build", "-c", filepath.Join(dir, project.FileName))
	be.Err(t, err, "project requires rex ^9.0.0")
}

func TestInitProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hello")
	be.Err(t, runApp(t, "init", "-y", "--main", "scripts/app.rb", dir), nil)

	conf, err := project.Load(dir)
	be.Err(t, err, nil)
	be.Equal(t, conf.Name, "hello")
	be.Equal(t, conf.Main, "scripts/app.rb")
	be.Err(t, conf.CheckTranslator(version), nil)
	be.Equal(t, readFile(t, conf.MainPath(dir)), helloWorld)
}

func TestCheckCommand(t *testing.T) {
	be.Err(t, runApp(t, "check", "-r", "folding", "testdata/translation.md"), nil)

	dir := t.TempDir()
	book := filepath.Join(dir, "wrong.md")
	content := "## Test: wrong\n```ruby\nputs(1 + 1)\n```\n```r\nprint(3)\n```\n"
	be.Err(t, os.WriteFile(book, []byte(content), 0644), nil)
	be.Err(t, runApp(t, "check", book), "1 of 1 cases failed")
}

func TestSession(t *testing.T) {
	s := newSession()

	out, err := s.feed("x = 1 + 2")
	be.Err(t, err, nil)
	be.Equal(t, out, "x <- 1 + 2\n")

	out, err = s.feed("puts(x)")
	be.Err(t, err, nil)
	be.Equal(t, out, "print(x)\n")

	_, err = s.feed("puts(y)")
	be.Err(t, err, "variable y is not declared")

	_, err = s.tr.Translate(s.src.String() + "if x > 1 then\n")
	be.True(t, incomplete(err))
	_, err = s.tr.Translate(s.src.String() + "puts(z)\n")
	be.True(t, !incomplete(err))

	s.reset()
	_, err = s.feed("puts(x)")
	be.Err(t, err, "variable x is not declared")
}

func BenchmarkTranslate(b *testing.B) {
	src, err := os.ReadFile("testdata/bench.rb")
	if err != nil {
		b.Fatal(err)
	}
	tr := translator.New(parser.DefaultConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tr.Translate(string(src)); err != nil {
			b.Fatal(err)
		}
	}
}
