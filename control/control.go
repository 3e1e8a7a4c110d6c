// Package control parses PostgreSQL extension control files.
//
// A control file is the extension's manifest: line-oriented key = value
// pairs, with values optionally wrapped in single quotes. The parsed
// ControlFile seeds the root of the SQL entity graph.
package control

import (
	"fmt"
	"os"
	"strings"

	"github.com/pgcraft/pgcraft"
)

// ControlFile is the parsed contents of a .control file.
//
// Comment, DefaultVersion and ModulePathname are mandatory; a control
// file missing any of them fails to parse. Schema is nil when the key
// is absent.
type ControlFile struct {
	Comment        string
	DefaultVersion string
	ModulePathname string
	Relocatable    bool
	Superuser      bool
	Schema         *string
}

// Parse parses control file text into a ControlFile.
//
// Each line is split on the first `=`; lines without one are ignored.
// Both halves are whitespace-trimmed and the value loses one layer of
// surrounding single quotes. Duplicate keys resolve last-wins. The
// boolean keys `relocatable` and `superuser` are true iff the trimmed
// value is exactly the literal `true`; any other spelling (`True`,
// `1`) is false.
func Parse(input string) (*ControlFile, error) {
	temp := make(map[string]string)
	for _, line := range strings.Split(input, "\n") {
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		v = strings.TrimPrefix(v, "'")
		v = strings.TrimSuffix(v, "'")
		temp[strings.TrimSpace(k)] = v
	}
	cf := &ControlFile{}
	for _, field := range []struct {
		key string
		dst *string
	}{
		{"comment", &cf.Comment},
		{"default_version", &cf.DefaultVersion},
		{"module_pathname", &cf.ModulePathname},
	} {
		v, ok := temp[field.key]
		if !ok {
			return nil, pgcraft.NewMissingFieldError(field.key)
		}
		*field.dst = v
	}
	cf.Relocatable = temp["relocatable"] == "true"
	cf.Superuser = temp["superuser"] == "true"
	if v, ok := temp["schema"]; ok {
		cf.Schema = &v
	}
	return cf, nil
}

// Render writes the manifest back out in canonical key order, for
// installing next to the generated script.
func (c *ControlFile) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "comment = '%s'\n", c.Comment)
	fmt.Fprintf(&b, "default_version = '%s'\n", c.DefaultVersion)
	fmt.Fprintf(&b, "module_pathname = '%s'\n", c.ModulePathname)
	fmt.Fprintf(&b, "relocatable = %t\n", c.Relocatable)
	fmt.Fprintf(&b, "superuser = %t\n", c.Superuser)
	if c.Schema != nil {
		fmt.Fprintf(&b, "schema = '%s'\n", *c.Schema)
	}
	return b.String()
}

// ParseFile reads and parses the control file at path.
func ParseFile(path string) (*ControlFile, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(buf))
}
