package gtp

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

type Config map[string]*cfgVal

// NewConfig creates a new configuration object primed with all the
// default values expected by the grammar loader and by the outputs
// of the command line tool.
func NewConfig() *Config {
	m := make(Config)
	// skip spaces, tabs and carriage returns between tokens
	m.SetBool("lexer.skip_whitespace", false)
	// skip line feeds between tokens
	m.SetBool("lexer.skip_newline", false)
	// replace nodes with a single child with the child itself
	m.SetBool("tree.collapse", false)
	// one of json, yaml or pretty
	m.SetString("output.format", "json")
	// spaces indenting each level of the json output, zero
	// writes the whole tree in a single line
	m.SetInt("output.indent", 0)
	return &m
}

// ParseOptions returns the options a grammar gets loaded with
func (c *Config) ParseOptions() ParseOptions {
	return ParseOptions{
		SkipWhitespace:     c.GetBool("lexer.skip_whitespace"),
		SkipNewline:        c.GetBool("lexer.skip_newline"),
		CollapseSingletons: c.GetBool("tree.collapse"),
	}
}

// Debug writes every setting sorted by key to `w`
func (c *Config) Debug(w io.Writer) {
	fmt.Fprintln(w, "Configuration")

	keys := make([]string, 0, len(*c))
	width := 0
	for k := range *c {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(w, "%s%s : %s\n", k, strings.Repeat(" ", width-len(k)), (*c)[k])
	}
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

// checkType is mostly for preventing programming errors: settings
// are only read back with the type they were created with
func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("Can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (v *cfgVal) String() string {
	switch v.typ {
	case cfgValType_Bool:
		return fmt.Sprintf("%t (bool)", v.asBool)
	case cfgValType_Int:
		return fmt.Sprintf("%d (int)", v.asInt)
	case cfgValType_String:
		return fmt.Sprintf("%q (string)", v.asString)
	case cfgValType_Undefined:
		return "(undefined)"
	default:
		panic(fmt.Sprintf("unknown cfgVal type: %v", v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{typ: cfgValType_Bool, asBool: v}
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{typ: cfgValType_Int, asInt: v}
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{typ: cfgValType_String, asString: v}
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("Bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("Int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("String setting `%s` does not exist", path))
}
