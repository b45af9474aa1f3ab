package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestParse(t *testing.T) {
	v, err := Parse("1.2.3")
	be.Err(t, err, nil)
	be.Equal(t, v, Semver{Major: 1, Minor: 2, Patch: 3})
	be.Equal(t, v.String(), "1.2.3")

	v, err = Parse("0.4.0-beta.2")
	be.Err(t, err, nil)
	be.True(t, v.Beta)
	be.Equal(t, v.Prerelease, 2)
	be.Equal(t, v.String(), "0.4.0-beta.2")

	for _, bad := range []string{"", "1", "1.2", "1.2.x", "1.2.3-rc.1", "1.2.3-beta", "-1.0.0"} {
		_, err := Parse(bad)
		be.True(t, err != nil)
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		version string
		cmp     string
		want    bool
	}{
		{"1.2.3", "1.2.3", true},
		{"1.2.3", "=1.2.3", true},
		{"1.2.4", "1.2.3", false},
		{"1.2.4", "~1.2.3", true},
		{"1.3.0", "~1.2.3", false},
		{"1.9.0", "^1.2.3", true},
		{"2.0.0", "^1.2.3", false},
		{"0.1.5", "^0.1.0", true},
		{"0.2.0", "^0.1.0", false},
		{"1.0.0", ">0.9.9", true},
		{"1.0.0", ">=1.0.0", true},
		{"1.0.0", "<1.0.0", false},
		{"1.0.0-beta.1", "<1.0.0", true},
		{"1.0.0-alpha.3", "<1.0.0-beta.1", true},
		{"0.9.0", "<=0.9.0", true},
	}

	for _, test := range tests {
		t.Run(test.version+" "+test.cmp, func(t *testing.T) {
			v, err := Parse(test.version)
			be.Err(t, err, nil)
			ok, err := v.Satisfies(test.cmp)
			be.Err(t, err, nil)
			be.Equal(t, ok, test.want)
		})
	}

	_, err := Semver{}.Satisfies("^x")
	be.True(t, err != nil)
}

func TestPrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("demo\n\ny\nno\n"), &out)

	be.Equal(t, p.String("Project name", "app"), "demo")
	be.Equal(t, p.String("Description", "none"), "none")
	be.True(t, p.YN("Overwrite?", false))
	be.True(t, !p.YN("Continue?", true))
	// Input is exhausted, defaults apply.
	be.True(t, p.YN("Again?", true))
	be.Equal(t, out.String(), "Project name (app): Description (none): Overwrite? (y/N): Continue? (Y/n): Again? (Y/n): ")
}
