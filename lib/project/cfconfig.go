package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vyPal/rex/lib/analyzer"
	"github.com/vyPal/rex/lib/parser"
	"github.com/vyPal/rex/util"
	"gopkg.in/yaml.v3"
)

const FileName = "rexconf.yaml"

type RexConf struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	// Rex constrains the translator versions the project builds with,
	// e.g. "^0.1.0".
	Rex      string           `yaml:"rex,omitempty"`
	Main     string           `yaml:"main"`
	Output   string           `yaml:"output,omitempty"`
	Optimize *bool            `yaml:"optimize,omitempty"`
	Builtins []RexConfBuiltin `yaml:"builtins,omitempty"`
}

// RexConfBuiltin maps a script function onto an R expression. A missing
// arity means the function is variadic.
type RexConfBuiltin struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
	Arity    *int   `yaml:"arity,omitempty"`
}

var identifier = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*\??$`)

func (c *RexConf) CreateDefault(name string) {
	if name == "." || name == "" {
		name = "NewProject"
	}
	c.Name = name
	c.Description = "A new rex project"
	c.Version = "1.0.0"
	c.Main = "src/main.rb"
	c.Output = "build/main.R"
}

// Validate checks the fields a build depends on.
func (c *RexConf) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name is empty"))
	}
	if _, err := util.Parse(c.Version); err != nil {
		errs = append(errs, fmt.Errorf("version: %w", err))
	}
	if c.Main == "" {
		errs = append(errs, errors.New("main is empty"))
	}
	seen := make(map[string]bool)
	for i, b := range c.Builtins {
		switch {
		case !identifier.MatchString(b.Name):
			errs = append(errs, fmt.Errorf("builtins[%d]: invalid name %q", i, b.Name))
		case seen[b.Name]:
			errs = append(errs, fmt.Errorf("builtins[%d]: duplicate name %q", i, b.Name))
		case strings.Count(b.Template, "%s") > 1:
			errs = append(errs, fmt.Errorf("builtins[%d]: template of %s has more than one %%s", i, b.Name))
		case b.Arity != nil && *b.Arity < analyzer.Variadic:
			errs = append(errs, fmt.Errorf("builtins[%d]: invalid arity %d", i, *b.Arity))
		}
		seen[b.Name] = true
	}
	return errors.Join(errs...)
}

// CheckTranslator reports whether the running translator version is one the
// project accepts.
func (c *RexConf) CheckTranslator(version string) error {
	if c.Rex == "" {
		return nil
	}
	v, err := util.Parse(version)
	if err != nil {
		return err
	}
	ok, err := v.Satisfies(c.Rex)
	if err != nil {
		return fmt.Errorf("rex constraint: %w", err)
	}
	if !ok {
		return fmt.Errorf("project requires rex %s, running %s", c.Rex, version)
	}
	return nil
}

// ParserConfig converts the project settings for the parser. filename is
// attached to error positions.
func (c *RexConf) ParserConfig(filename string) parser.Config {
	cfg := parser.DefaultConfig()
	cfg.Filename = filename
	if c.Optimize != nil {
		cfg.Optimize = *c.Optimize
	}
	if len(c.Builtins) > 0 {
		cfg.Builtins = make([]analyzer.Builtin, len(c.Builtins))
		for i, b := range c.Builtins {
			arity := analyzer.Variadic
			if b.Arity != nil {
				arity = *b.Arity
			}
			cfg.Builtins[i] = analyzer.Builtin{Name: b.Name, Template: b.Template, Arity: arity}
		}
	}
	return cfg
}

func (c *RexConf) MainPath(dir string) string {
	return filepath.Join(dir, c.Main)
}

// OutputPath defaults to the main script with an .R extension.
func (c *RexConf) OutputPath(dir string) string {
	if c.Output != "" {
		return filepath.Join(dir, c.Output)
	}
	main := c.MainPath(dir)
	return strings.TrimSuffix(main, filepath.Ext(main)) + ".R"
}

// Save writes the configuration to path. An existing file is replaced when
// overwrite is set or the user agrees; the result reports whether anything
// was written.
func (c *RexConf) Save(path string, overwrite bool) (bool, error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		if !overwrite && !util.PromptYN(path+" already exists. Overwrite?", false) {
			return false, nil
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return false, err
	}
	if err := enc.Close(); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads and validates the rexconf.yaml in dir.
func Load(dir string) (RexConf, error) {
	var conf RexConf

	file, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		return RexConf{}, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&conf); err != nil {
		return RexConf{}, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if err := conf.Validate(); err != nil {
		return RexConf{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return conf, nil
}
